package peerstore

import (
	"math"
	"time"

	"github.com/willco-1/cuprate/src/peers"
)

// maxBanMillis is the largest millisecond count that fits in a time.Duration.
const maxBanMillis = uint64(math.MaxInt64 / int64(time.Millisecond))

// BanTable maps banned identifiers to the monotonic instant their ban lifts.
type BanTable map[peers.BanID]time.Time

// Bans implements BanView.
func (t BanTable) Bans() map[peers.BanID]time.Time {
	return t
}

// RelativizeBans converts ban expiries into the milliseconds left on each ban
// at now. Bans that already lifted are kept with 0 left.
func RelativizeBans(bans map[peers.BanID]time.Time, now time.Time) map[peers.BanID]uint64 {
	res := make(map[peers.BanID]uint64, len(bans))
	for id, expiry := range bans {
		res[id] = remainingMillis(expiry, now)
	}
	return res
}

// RestoreBans is the inverse of RelativizeBans, applied against the caller's
// own reference time.
func RestoreBans(durations map[peers.BanID]uint64, now time.Time) BanTable {
	res := make(BanTable, len(durations))
	for id, ms := range durations {
		res[id] = now.Add(millisToDuration(ms))
	}
	return res
}

func remainingMillis(expiry, now time.Time) uint64 {
	// Sub saturates instead of overflowing.
	d := expiry.Sub(now)
	if d <= 0 {
		return 0
	}
	return uint64(d / time.Millisecond)
}

func millisToDuration(ms uint64) time.Duration {
	if ms > maxBanMillis {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ms) * time.Millisecond
}
