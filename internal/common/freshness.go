// Package common provides shared utilities for stock-manager
package common

import "time"

// FreshnessQuote is the age at which a stored quote must be refetched from
// the provider. A quote aged exactly FreshnessQuote is already stale.
const FreshnessQuote = 1 * time.Hour

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	return IsFreshAt(time.Now(), updated, ttl)
}

// IsFreshAt reports freshness against an explicit clock reading. The
// comparison is strict: an age equal to ttl counts as stale.
func IsFreshAt(now, updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return now.Sub(updated) < ttl
}
