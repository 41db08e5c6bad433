package stm

import "github.com/prometheus/client_golang/prometheus"

// Metrics mirror the shape tikv/client-go/v2/metrics exposes for its
// transaction path: a counter per outcome plus a histogram of how long a
// commit spent acquiring and holding its write locks. They are not registered anywhere by
// default — RegisterMetrics opts a process in — so a program that never
// calls it pays only the (negligible) cost of a few Inc/Observe calls on
// unregistered collectors.
var (
	commitTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stm",
		Name:      "commits_total",
		Help:      "Transactions that committed successfully.",
	})
	retryTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stm",
		Name:      "retries_total",
		Help:      "Transaction attempts that ended in Retry.",
	})
	abortTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stm",
		Name:      "aborts_total",
		Help:      "Transactions restarted due to an inconsistent read or failed validation.",
	})
	commitLockWait = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "stm",
		Name:      "commit_lock_hold_seconds",
		Help:      "Time spent acquiring and holding write-set commit locks during a successful commit.",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
	})
)

// RegisterMetrics registers the package's Prometheus collectors with reg.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{commitTotal, retryTotal, abortTotal, commitLockWait} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func recordCommit() { commitTotal.Inc() }
func recordRetry()  { retryTotal.Inc() }
func recordAbort()  { abortTotal.Inc() }
