package rates

import "time"

// Snapshot is one day's complete set of conversion factors relative to a
// base currency. Exactly one snapshot is authoritative per calendar day.
type Snapshot struct {
	Day       Day
	Base      string
	Rates     map[string]float64
	FetchedAt time.Time
}

// Valid reports whether s carries usable data: a base currency and a
// non-empty rates map. Tiers never produce empty snapshots on purpose, but
// an invalid one read back is treated the same as an absent entry.
func (s *Snapshot) Valid() bool {
	return s != nil && s.Base != "" && len(s.Rates) > 0
}
