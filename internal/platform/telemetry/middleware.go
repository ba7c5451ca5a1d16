package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const meterName = "github.com/jsamuelsen/quotesync/internal/platform/telemetry"

// TraceIDHeader echoes the active trace so API clients can quote it in
// bug reports.
const TraceIDHeader = "X-Trace-ID"

type serverInstruments struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

func newServerInstruments(meter metric.Meter) (*serverInstruments, error) {
	var (
		in   serverInstruments
		errs [3]error
	)

	in.duration, errs[0] = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of quote API requests."),
		metric.WithUnit("s"))
	in.requests, errs[1] = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("Quote API requests served."))
	in.inFlight, errs[2] = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Quote API requests in progress."))

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return &in, nil
}

// Middleware returns otelgin tracing followed by request metrics. Register
// both, in order, with engine.Use.
func Middleware(serviceName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{otelgin.Middleware(serviceName), metricsMiddleware()}
}

func metricsMiddleware() gin.HandlerFunc {
	in, err := newServerInstruments(otel.Meter(meterName))
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			c.Header(TraceIDHeader, sc.TraceID().String())
		}

		if in == nil {
			c.Next()
			return
		}

		route := metric.WithAttributes(
			attribute.String("http.request.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
		)

		in.inFlight.Add(ctx, 1, route)
		defer in.inFlight.Add(ctx, -1, route)

		start := time.Now()

		c.Next()

		done := metric.WithAttributes(
			attribute.String("http.request.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
			attribute.Int("http.response.status_code", c.Writer.Status()),
		)
		in.duration.Record(ctx, time.Since(start).Seconds(), done)
		in.requests.Add(ctx, 1, done)
	}
}
