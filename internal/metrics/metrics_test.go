package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(cacheLookups.WithLabelValues(CacheStale))
	ObserveCacheLookup(CacheStale)
	ObserveCacheLookup(CacheStale)

	if got := testutil.ToFloat64(cacheLookups.WithLabelValues(CacheStale)); got != before+2 {
		t.Errorf("stale lookups = %v, want %v", got, before+2)
	}
}

func TestObserveInteraction(t *testing.T) {
	before := testutil.ToFloat64(interactions.WithLabelValues("component", "ok"))
	ObserveInteraction("component", "ok")

	if got := testutil.ToFloat64(interactions.WithLabelValues("component", "ok")); got != before+1 {
		t.Errorf("interactions = %v, want %v", got, before+1)
	}
}

func TestObserveUpstreamAndCooldown(t *testing.T) {
	ObserveUpstream("get_character", 120*time.Millisecond)
	if n := testutil.CollectAndCount(upstreamDuration); n == 0 {
		t.Error("expected upstream histogram series")
	}

	before := testutil.ToFloat64(cooldownDrops)
	ObserveCooldownDrop()
	if got := testutil.ToFloat64(cooldownDrops); got != before+1 {
		t.Errorf("cooldown drops = %v, want %v", got, before+1)
	}
}
