package opentracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fyerfyer/fyer-sqlb/sqlb"
)

var defaultInstrumentationName = "fyer-sqlb"

type MiddlewareBuilder struct {
	tracer trace.Tracer
}

func NewMiddlewareBuilder(tracer trace.Tracer) *MiddlewareBuilder {
	return &MiddlewareBuilder{tracer: tracer}
}

func (m *MiddlewareBuilder) Build() sqlb.Middleware {
	if m.tracer == nil {
		m.tracer = otel.GetTracerProvider().Tracer(defaultInstrumentationName)
	}

	return func(next sqlb.Handler) sqlb.Handler {
		return sqlb.HandlerFunc(func(ctx context.Context, qc *sqlb.QueryContext) (*sqlb.QueryResult, error) {
			ctx, span := m.tracer.Start(ctx, "sqlb."+qc.QueryType, trace.WithSpanKind(trace.SpanKindClient))
			defer span.End()

			span.SetAttributes(attribute.String("db.system", "mysql"))
			span.SetAttributes(attribute.String("db.statement", qc.SQL))
			span.SetAttributes(attribute.String("db.operation", qc.QueryType))
			span.SetAttributes(attribute.String("component", "sqlb"))

			res, err := next.QueryHandler(ctx, qc)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return res, err
			}
			if res != nil && qc.QueryType == sqlb.QueryTypeQuery {
				span.SetAttributes(attribute.Int("db.rows", len(res.Rows)))
			}
			return res, nil
		})
	}
}
