package querylog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fyerfyer/fyer-sqlb/logger"
	"github.com/fyerfyer/fyer-sqlb/sqlb"
)

type ctxKey struct{}

// IDFromContext 返回本次执行的 id，不在 querylog 中间件内时为空
func IDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type MiddlewareBuilder struct {
	logger        logger.Logger
	slowThreshold time.Duration
}

type Option func(*MiddlewareBuilder)

func WithLogger(l logger.Logger) Option {
	return func(m *MiddlewareBuilder) {
		m.logger = l
	}
}

// WithSlowThreshold 超过阈值的语句以 Warn 级别记录，0 表示不区分
func WithSlowThreshold(d time.Duration) Option {
	return func(m *MiddlewareBuilder) {
		m.slowThreshold = d
	}
}

func NewMiddlewareBuilder(opts ...Option) *MiddlewareBuilder {
	m := &MiddlewareBuilder{
		logger: logger.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MiddlewareBuilder) Build() sqlb.Middleware {
	return func(next sqlb.Handler) sqlb.Handler {
		return sqlb.HandlerFunc(func(ctx context.Context, qc *sqlb.QueryContext) (*sqlb.QueryResult, error) {
			id := IDFromContext(ctx)
			if id == "" {
				id = uuid.New().String()
				ctx = context.WithValue(ctx, ctxKey{}, id)
			}

			queryLog := m.logger.WithFields(
				logger.String("query_id", id),
				logger.String("type", qc.QueryType),
				logger.String("sql", qc.SQL),
			)

			start := time.Now()
			res, err := next.QueryHandler(ctx, qc)
			duration := time.Since(start)

			switch {
			case err != nil:
				queryLog.Error("statement failed",
					logger.Duration("duration", duration),
					logger.FieldError(err))
			case m.slowThreshold > 0 && duration >= m.slowThreshold:
				queryLog.Warn("slow statement",
					logger.Duration("duration", duration))
			default:
				fields := []logger.Field{logger.Duration("duration", duration)}
				if res != nil && qc.QueryType == sqlb.QueryTypeQuery {
					fields = append(fields, logger.Int("rows", len(res.Rows)))
				}
				queryLog.Info("statement executed", fields...)
			}
			return res, err
		})
	}
}
