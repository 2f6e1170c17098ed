package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gumballz_cache_hits_total",
		Help: "Reads answered from a fresh snapshot without fetching.",
	})
	cacheRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gumballz_cache_refreshes_total",
		Help: "Sheet refresh attempts by result (ok, error).",
	}, []string{"result"})
	cacheStaleServes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gumballz_cache_stale_serves_total",
		Help: "Reads answered with cached data after a failed refresh.",
	})
	cacheRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gumballz_cache_records",
		Help: "Records in the current snapshot.",
	})
)
