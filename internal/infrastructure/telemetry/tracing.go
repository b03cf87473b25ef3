// Package telemetry integra OpenTelemetry para trazas de negocio en los casos de uso.
// El proveedor se toma de otel.GetTracerProvider(); sin configuración es un no-op.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName nombre del tracer de los spans de negocio.
const TracerName = "facturacion-api"

// StartServiceSpan abre un span "{servicio}.{método}" (ej. "sale.emit").
// El llamador debe cerrar el span con End.
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, fmt.Sprintf("%s.%s", service, method),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// End registra err en el span (si no es nil) y lo cierra.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
