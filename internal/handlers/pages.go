package handlers

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"icculus.org/quake3-web/internal/layout"
	mw "icculus.org/quake3-web/internal/middleware"
	"icculus.org/quake3-web/internal/nav"
	"icculus.org/quake3-web/internal/pages"
)

const metricNamespace = "icculus.org/quake3-web/handlers"

// Pages serves the single page endpoint. The page query parameter selects
// a registered page; anything else renders the default page.
type Pages struct {
	router    *pages.Router
	assembler *layout.Assembler
	logger    *zap.Logger

	fallbacks        metric.Int64Counter
	fallbacksEnabled bool
	latency          metric.Float64Histogram
	latencyEnabled   bool
}

type pagesConfig struct {
	logger *zap.Logger
	meter  metric.Meter
}

// Option customises the Pages handler.
type Option func(*pagesConfig)

// WithLogger sets the logger used when no request-scoped logger exists.
func WithLogger(l *zap.Logger) Option {
	return func(c *pagesConfig) { c.logger = l }
}

// WithMeter overrides the global meter provider.
func WithMeter(m metric.Meter) Option {
	return func(c *pagesConfig) { c.meter = m }
}

// NewPages wires the router and the layout assembler.
func NewPages(router *pages.Router, assembler *layout.Assembler, opts ...Option) *Pages {
	cfg := pagesConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	meter := cfg.meter
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(metricNamespace)
	}

	fallbacks, fallbacksErr := meter.Int64Counter(
		"quake3web.page.fallbacks",
		metric.WithDescription("Requests answered with the default page instead of the requested one"),
	)
	if fallbacksErr != nil {
		cfg.logger.Warn("pages: unable to register fallback metric", zap.Error(fallbacksErr))
	}
	latency, latencyErr := meter.Float64Histogram(
		"quake3web.page.render.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Latency in milliseconds for producing and assembling a page"),
	)
	if latencyErr != nil {
		cfg.logger.Warn("pages: unable to register latency metric", zap.Error(latencyErr))
	}

	return &Pages{
		router:           router,
		assembler:        assembler,
		logger:           cfg.logger,
		fallbacks:        fallbacks,
		fallbacksEnabled: fallbacksErr == nil,
		latency:          latency,
		latencyEnabled:   latencyErr == nil,
	}
}

func (p *Pages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := mw.LoggerOr(ctx, p.logger)

	res := p.router.Route(r.URL.Query().Get(nav.QueryParam))
	outcome := attribute.String("page.outcome", res.Outcome.String())
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("page.id", res.Entry.ID), outcome)

	if res.Outcome.Fallback() {
		// The raw parameter is untrusted; only the classification is logged.
		logger.Info("page fallback",
			zap.String("outcome", res.Outcome.String()),
			zap.String("page", res.Entry.ID),
		)
		if p.fallbacksEnabled {
			p.fallbacks.Add(ctx, 1, metric.WithAttributes(outcome))
		}
	}

	reg := p.router.Registry()
	view := layout.View{
		Entry:       res.Entry,
		Nav:         nav.Build(reg, res.Entry.ID),
		Breadcrumbs: nav.Breadcrumbs(reg, res.Entry.ID),
	}

	start := time.Now()
	body, err := p.assembler.RenderBytes(ctx, view)
	if p.latencyEnabled {
		p.latency.Record(ctx, float64(time.Since(start).Microseconds())/1000,
			metric.WithAttributes(attribute.String("page.id", res.Entry.ID)))
	}
	if err != nil {
		logger.Error("page render failed", zap.String("page", res.Entry.ID), zap.Error(err))
		mw.WriteError(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
