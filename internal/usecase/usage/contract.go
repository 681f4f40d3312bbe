package usage

// BudgetReader provides read-only access to the shared token budget.
type BudgetReader interface {
	DailyLimit() int64
	MonthlyLimit() int64
	DailyUsed() int64
	MonthlyUsed() int64
	RemainingDaily() int64
	RemainingMonthly() int64
	DailyByAgent() map[string]int64
	MonthlyByAgent() map[string]int64
}
