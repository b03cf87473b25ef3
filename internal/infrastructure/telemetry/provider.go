package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// Config opciones de trazas.
type Config struct {
	Enabled       bool
	ServiceName   string
	SamplingRatio float64 // 0..1; 1 traza todo
}

// NewTracerProvider registra un TracerProvider global cuyos spans terminados se escriben en el log.
// Deshabilitado devuelve nil y se mantiene el proveedor no-op de otel.
func NewTracerProvider(cfg Config, log *logger.Logger) (*sdktrace.TracerProvider, error) {
	if !cfg.Enabled {
		log.Info().Msg("trazas deshabilitadas")
		return nil, nil
	}
	res, err := resource.Merge(resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName)))
	if err != nil {
		return nil, err
	}

	var sampler sdktrace.Sampler
	switch {
	case cfg.SamplingRatio >= 1:
		sampler = sdktrace.AlwaysSample()
	case cfg.SamplingRatio <= 0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(cfg.SamplingRatio)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler)),
		sdktrace.WithSpanProcessor(NewLogSpanProcessor(log)),
	)
	otel.SetTracerProvider(tp)
	log.Info().Str("service", cfg.ServiceName).Float64("sampling_ratio", cfg.SamplingRatio).Msg("trazas habilitadas")
	return tp, nil
}

// LogSpanProcessor escribe cada span terminado: Warn si terminó con error, Debug si no.
type LogSpanProcessor struct {
	log *logger.Logger
}

var _ sdktrace.SpanProcessor = (*LogSpanProcessor)(nil)

// NewLogSpanProcessor construye el procesador sobre log.
func NewLogSpanProcessor(log *logger.Logger) *LogSpanProcessor {
	return &LogSpanProcessor{log: log.Component("trace")}
}

func (p *LogSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p *LogSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	ev := p.log.Debug()
	if s.Status().Code == codes.Error {
		ev = p.log.Warn().Str("error", s.Status().Description)
	}
	ev.Str("span", s.Name()).
		Str("trace_id", s.SpanContext().TraceID().String()).
		Dur("duration", s.EndTime().Sub(s.StartTime())).
		Msg("span")
}

func (p *LogSpanProcessor) Shutdown(context.Context) error   { return nil }
func (p *LogSpanProcessor) ForceFlush(context.Context) error { return nil }
