package peerstore

import (
	"math"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/willco-1/cuprate/src/peers"
)

func TestRelativizeBans(t *testing.T) {
	now := time.Now()

	bans := BanTable{
		"future":  now.Add(90 * time.Second),
		"sub-ms":  now.Add(500 * time.Microsecond),
		"now":     now,
		"past":    now.Add(-time.Hour),
		"forever": now.Add(time.Duration(math.MaxInt64)),
		"ancient": now.Add(time.Duration(math.MinInt64)),
	}

	res := RelativizeBans(bans, now)

	if len(res) != len(bans) {
		t.Fatalf("no ban should be dropped: %d != %d", len(res), len(bans))
	}

	expected := map[peers.BanID]uint64{
		"future":  90000,
		"sub-ms":  0,
		"now":     0,
		"past":    0,
		"ancient": 0,
	}
	for id, ms := range expected {
		if res[id] != ms {
			t.Fatalf("%s should have %d ms left, not %d", id, ms, res[id])
		}
	}

	if res["forever"] == 0 {
		t.Fatalf("a ban far in the future should not be clamped to 0")
	}
}

func TestRestoreBansSaturates(t *testing.T) {
	now := time.Now()

	res := RestoreBans(map[peers.BanID]uint64{
		"max":  math.MaxUint64,
		"zero": 0,
	}, now)

	if !res["max"].After(now) {
		t.Fatalf("a huge duration should restore into the future")
	}
	if !res["zero"].Equal(now) {
		t.Fatalf("a zero duration should restore to the reference time")
	}
}

// The restored expiry is late by the time elapsed between the two reference
// points, no more.
func TestRelativeBanDrift(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	t0 := mock.Now()
	bans := BanTable{
		"a": t0.Add(time.Hour),
		"b": t0.Add(1234567 * time.Microsecond),
		"c": t0.Add(-time.Minute),
	}

	stored := RelativizeBans(bans, t0)

	mock.Add(42 * time.Second)
	t1 := mock.Now()

	restored := RestoreBans(stored, t1)

	for id, expiry := range bans {
		if id == "c" {
			if !restored[id].Equal(t1) {
				t.Fatalf("expired ban should restore to the load time")
			}
			continue
		}

		drift := restored[id].Sub(expiry)
		if drift < 0 {
			drift = -drift
		}
		// +1ms for the truncation to whole milliseconds
		if drift > t1.Sub(t0)+time.Millisecond {
			t.Fatalf("%s drifted by %v, more than %v", id, drift, t1.Sub(t0))
		}
	}
}

func TestRelativeBanWithMonotonicClock(t *testing.T) {
	c := clock.New()

	t0 := c.Now()
	bans := BanTable{"a": t0.Add(10 * time.Minute)}
	stored := RelativizeBans(bans, t0)

	t1 := c.Now()
	restored := RestoreBans(stored, t1)

	drift := restored["a"].Sub(bans["a"])
	if drift < -time.Millisecond || drift > t1.Sub(t0)+time.Millisecond {
		t.Fatalf("drift %v out of bounds", drift)
	}
}
