package prometheus

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fyerfyer/fyer-sqlb/sqlb"
)

type MiddlewareBuilder struct {
	NameSpace string
	Name      string
	SubSystem string
	Help      string
	// Registerer 为空时不注册，由调用方通过 Collector 自行注册
	Registerer prometheus.Registerer

	vec *prometheus.SummaryVec
}

// Collector 返回 Build 创建的指标，Build 之前为 nil
func (m *MiddlewareBuilder) Collector() *prometheus.SummaryVec {
	return m.vec
}

func (m *MiddlewareBuilder) Build() sqlb.Middleware {
	m.vec = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:      m.Name,
		Help:      m.Help,
		Namespace: m.NameSpace,
		Subsystem: m.SubSystem,
		Objectives: map[float64]float64{
			0.5:   0.05,
			0.9:   0.01,
			0.99:  0.001,
			0.999: 0.0001,
		},
	}, []string{"type", "status"})
	if m.Registerer != nil {
		m.Registerer.MustRegister(m.vec)
	}
	vec := m.vec

	return func(next sqlb.Handler) sqlb.Handler {
		return sqlb.HandlerFunc(func(ctx context.Context, qc *sqlb.QueryContext) (res *sqlb.QueryResult, err error) {
			startTime := time.Now()
			defer func() {
				status := "ok"
				if err != nil {
					status = "error"
				}
				duration := time.Since(startTime).Microseconds()
				vec.WithLabelValues(qc.QueryType, status).Observe(float64(duration))
			}()

			return next.QueryHandler(ctx, qc)
		})
	}
}
