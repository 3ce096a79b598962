package app

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/safeharbor/harbor/errors"
)

// Metrics collects ledger statistics. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	txs    *prometheus.CounterVec
	height prometheus.Gauge
}

// NewMetrics creates the ledger collectors and registers them with given
// registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harbor_transactions_total",
			Help: "Processed transactions by phase, message path and result code.",
		}, []string{"call", "path", "code"}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "harbor_committed_height",
			Help: "Version of the last committed state.",
		}),
	}
	for _, c := range []prometheus.Collector{m.txs, m.height} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrapf(errors.ErrDuplicate, "register collector: %s", err)
		}
	}
	return m, nil
}

func (m *Metrics) observeTx(call, path string, err error) {
	if m == nil {
		return
	}
	code := strconv.FormatUint(uint64(errors.Code(err)), 10)
	m.txs.WithLabelValues(call, path, code).Inc()
}

func (m *Metrics) observeCommit(version int64) {
	if m == nil {
		return
	}
	m.height.Set(float64(version))
}
