package budget

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecagent/internal/domain"
	"github.com/kailas-cloud/vecagent/internal/metrics"
)

// Action defines behavior when the token budget is exceeded.
type Action string

const (
	// ActionWarn logs a warning but allows the request.
	ActionWarn Action = "warn"
	// ActionReject blocks the request with domain.ErrEmbeddingQuotaExceeded.
	ActionReject Action = "reject"
)

// Store persists per-agent token counters for one budget window key.
type Store interface {
	Charge(ctx context.Context, key, agent string, tokens int64) error
	Load(ctx context.Context, key string) (map[string]int64, error)
}

// window is one budget period: its start and what each agent spent in it.
type window struct {
	start   time.Time
	used    int64
	byAgent map[string]int64
}

func newWindow(start time.Time) window {
	return window{start: start, byAgent: map[string]int64{}}
}

func (w *window) add(agent string, tokens int64) {
	w.byAgent[agent] += tokens
	w.used += tokens
}

func (w *window) load(byAgent map[string]int64) {
	w.byAgent = map[string]int64{}
	w.used = 0
	for agent, n := range byAgent {
		w.add(agent, n)
	}
}

// Tracker is the token budget shared by the embedding provider and both chat
// agents, with optional write-behind persistence. Check never leaves the process.
type Tracker struct {
	mu           sync.Mutex
	daily        window
	monthly      window
	dailyLimit   int64
	monthlyLimit int64
	action       Action
	scope        string
	store        Store
	now          func() time.Time
	logger       *zap.Logger
}

// NewTracker creates a tracker. A zero limit means unlimited.
func NewTracker(scope string, dailyLimit, monthlyLimit int64, action Action, logger *zap.Logger) *Tracker {
	t := &Tracker{
		dailyLimit:   dailyLimit,
		monthlyLimit: monthlyLimit,
		action:       action,
		scope:        scope,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       logger,
	}
	now := t.now()
	t.daily = newWindow(truncateToDay(now))
	t.monthly = newWindow(truncateToMonth(now))
	return t
}

// WithStore attaches a persistence store and loads the current windows.
func (t *Tracker) WithStore(ctx context.Context, store Store) *Tracker {
	t.store = store

	t.mu.Lock()
	defer t.mu.Unlock()

	if byAgent, err := store.Load(ctx, t.dailyKey(t.daily.start)); err == nil {
		t.daily.load(byAgent)
	} else {
		t.logger.Warn("Failed to load daily budget from store", zap.Error(err))
	}
	if byAgent, err := store.Load(ctx, t.monthlyKey(t.monthly.start)); err == nil {
		t.monthly.load(byAgent)
	} else {
		t.logger.Warn("Failed to load monthly budget from store", zap.Error(err))
	}
	t.publish()

	t.logger.Info("Budget loaded from store",
		zap.String("scope", t.scope),
		zap.Int64("daily_used", t.daily.used),
		zap.Int64("monthly_used", t.monthly.used),
		zap.Any("daily_by_agent", t.daily.byAgent),
	)
	return t
}

func (t *Tracker) dailyKey(at time.Time) string {
	return fmt.Sprintf("%sbudget:%s:daily:%s", domain.KeyPrefix, t.scope, at.Format("2006-01-02"))
}

func (t *Tracker) monthlyKey(at time.Time) string {
	return fmt.Sprintf("%sbudget:%s:monthly:%s", domain.KeyPrefix, t.scope, at.Format("2006-01"))
}

// Check verifies the budget allows a new request.
func (t *Tracker) Check(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetIfNeeded()

	dailyExceeded := t.dailyLimit > 0 && t.daily.used >= t.dailyLimit
	monthlyExceeded := t.monthlyLimit > 0 && t.monthly.used >= t.monthlyLimit
	if !dailyExceeded && !monthlyExceeded {
		return nil
	}

	if t.action == ActionReject {
		return domain.ErrEmbeddingQuotaExceeded
	}

	t.logger.Warn("Token budget exceeded",
		zap.String("scope", t.scope),
		zap.Int64("daily_used", t.daily.used),
		zap.Int64("daily_limit", t.dailyLimit),
		zap.Int64("monthly_used", t.monthly.used),
		zap.Int64("monthly_limit", t.monthlyLimit),
	)
	return nil
}

// Record charges tokens consumed by agent, then writes them behind to the store if one is attached.
func (t *Tracker) Record(agent string, tokens int64) {
	if tokens <= 0 {
		return
	}

	t.mu.Lock()
	t.resetIfNeeded()
	t.daily.add(agent, tokens)
	t.monthly.add(agent, tokens)
	t.publish()
	store := t.store
	dailyKey, monthlyKey := t.dailyKey(t.daily.start), t.monthlyKey(t.monthly.start)
	t.mu.Unlock()

	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, key := range []string{dailyKey, monthlyKey} {
		if err := store.Charge(ctx, key, agent, tokens); err != nil {
			t.logger.Warn("Failed to persist budget",
				zap.String("key", key),
				zap.String("agent", agent),
				zap.Error(err),
			)
		}
	}
}

// publish mirrors both windows into the budget gauges. Caller holds mu.
func (t *Tracker) publish() {
	for period, w := range map[string]*window{"daily": &t.daily, "monthly": &t.monthly} {
		for agent, n := range w.byAgent {
			metrics.BudgetTokensUsed.WithLabelValues(period, agent).Set(float64(n))
		}
	}
	metrics.BudgetTokensRemaining.WithLabelValues("daily").Set(float64(remaining(t.dailyLimit, t.daily.used)))
	metrics.BudgetTokensRemaining.WithLabelValues("monthly").Set(float64(remaining(t.monthlyLimit, t.monthly.used)))
}

// RemainingDaily returns tokens left in the daily budget (-1 if unlimited).
func (t *Tracker) RemainingDaily() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfNeeded()
	return remaining(t.dailyLimit, t.daily.used)
}

// RemainingMonthly returns tokens left in the monthly budget (-1 if unlimited).
func (t *Tracker) RemainingMonthly() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfNeeded()
	return remaining(t.monthlyLimit, t.monthly.used)
}

// DailyUsed returns tokens consumed today.
func (t *Tracker) DailyUsed() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfNeeded()
	return t.daily.used
}

// MonthlyUsed returns tokens consumed this month.
func (t *Tracker) MonthlyUsed() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfNeeded()
	return t.monthly.used
}

// DailyByAgent returns a copy of today's tokens per agent.
func (t *Tracker) DailyByAgent() map[string]int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfNeeded()
	return maps.Clone(t.daily.byAgent)
}

// MonthlyByAgent returns a copy of this month's tokens per agent.
func (t *Tracker) MonthlyByAgent() map[string]int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfNeeded()
	return maps.Clone(t.monthly.byAgent)
}

// DailyLimit returns the daily token limit (0 if unlimited).
func (t *Tracker) DailyLimit() int64 { return t.dailyLimit }

// MonthlyLimit returns the monthly token limit (0 if unlimited).
func (t *Tracker) MonthlyLimit() int64 { return t.monthlyLimit }

func remaining(limit, used int64) int64 {
	if limit == 0 {
		return -1
	}
	if used >= limit {
		return 0
	}
	return limit - used
}

// resetIfNeeded starts a fresh window when the day or month rolls over.
func (t *Tracker) resetIfNeeded() {
	now := t.now()
	if today := truncateToDay(now); today.After(t.daily.start) {
		t.daily = newWindow(today)
	}
	if thisMonth := truncateToMonth(now); thisMonth.After(t.monthly.start) {
		t.monthly = newWindow(thisMonth)
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
