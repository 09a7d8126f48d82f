package domain

import "time"

// DefaultDailyLimit applies to any feature without an explicit configured limit.
const DefaultDailyLimit = 10

// QuotaWindow is the current UTC calendar day, derived from wall-clock time
// at request time. It is never persisted.
type QuotaWindow struct {
	Start time.Time
	End   time.Time
}

// QuotaWindowAt returns the UTC-day window containing now.
func QuotaWindowAt(now time.Time) QuotaWindow {
	utc := now.UTC()
	start := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	return QuotaWindow{Start: start, End: start.AddDate(0, 0, 1)}
}

// FeatureUsage is the per-feature view returned by the usage query.
type FeatureUsage struct {
	Feature   Feature
	Used      int
	Limit     int
	Remaining int
}

// UsageReport aggregates a user's quota state across all features.
type UsageReport struct {
	IsPremium bool
	Features  []FeatureUsage
	// ResetTime is the start of the next UTC day, when all windows roll over.
	ResetTime time.Time
}
