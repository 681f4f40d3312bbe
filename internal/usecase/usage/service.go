package usage

import (
	"context"
	"fmt"
	"time"
)

// Period selects the budget window of a report.
type Period string

// Supported periods.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period name. Empty means day.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, nil
	case PeriodMonth:
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// Report is the token usage for one budget window.
// Limit and Remaining are -1 when the window is unlimited.
// ByAgent splits Used between embedding, planner and synthesizer.
type Report struct {
	Period      Period
	PeriodStart time.Time
	PeriodEnd   time.Time
	Limit       int64
	Used        int64
	Remaining   int64
	Exhausted   bool
	ByAgent     map[string]int64
}

// Service handles usage reporting.
type Service struct {
	br  BudgetReader
	now func() time.Time
}

// New creates a Service. br can be nil (unlimited mode).
func New(br BudgetReader) *Service {
	return &Service{br: br, now: func() time.Time { return time.Now().UTC() }}
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period Period) Report {
	now := s.now()
	r := Report{Period: period, Limit: -1, Remaining: -1}

	switch period {
	case PeriodMonth:
		r.PeriodStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		r.PeriodEnd = r.PeriodStart.AddDate(0, 1, 0)
		if s.br != nil {
			r.Used = s.br.MonthlyUsed()
			r.ByAgent = s.br.MonthlyByAgent()
			r.Remaining = s.br.RemainingMonthly()
			if l := s.br.MonthlyLimit(); l > 0 {
				r.Limit = l
			}
		}
	default:
		r.Period = PeriodDay
		r.PeriodStart = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		r.PeriodEnd = r.PeriodStart.Add(24 * time.Hour)
		if s.br != nil {
			r.Used = s.br.DailyUsed()
			r.ByAgent = s.br.DailyByAgent()
			r.Remaining = s.br.RemainingDaily()
			if l := s.br.DailyLimit(); l > 0 {
				r.Limit = l
			}
		}
	}

	r.Exhausted = r.Limit > 0 && r.Remaining == 0
	return r
}
