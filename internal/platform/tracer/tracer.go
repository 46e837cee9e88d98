package tracer

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const exporterTimeout = 10 * time.Second

// InitTracer installs the global provider and W3C propagator. Inbound trace
// headers are honoured even when no collector is configured; spans are then
// recorded locally and dropped.
func InitTracer(serviceName string, cfg *config.TracingConfig, appLogger *logger.Logger) *sdktrace.TracerProvider {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sampler(cfg.SampleRatio)),
		sdktrace.WithResource(serviceResource(serviceName, appLogger)),
	}

	if cfg.OTLPEndpoint == "" {
		appLogger.Info("Trace export disabled: tracing.otlp_endpoint is not set")
	} else if exporter := newExporter(cfg.OTLPEndpoint, appLogger); exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
		appLogger.Info("Exporting traces",
			zap.String("service_name", serviceName),
			zap.String("otlp_endpoint", cfg.OTLPEndpoint),
			zap.Float64("sample_ratio", cfg.SampleRatio),
		)
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp
}

func sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

func serviceResource(serviceName string, appLogger *logger.Logger) *resource.Resource {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(semconv.ServiceNameKey.String(serviceName)),
	)
	if err != nil {
		appLogger.Warn("Failed to merge OpenTelemetry resource, using default", zap.Error(err))
		return resource.Default()
	}
	return res
}

// newExporter returns nil when the collector connection cannot be set up.
func newExporter(endpoint string, appLogger *logger.Logger) *otlptrace.Exporter {
	conn, err := grpc.NewClient(endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		appLogger.Error("Failed to create OTLP gRPC client", zap.Error(err), zap.String("endpoint", endpoint))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), exporterTimeout)
	defer cancel()
	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		appLogger.Error("Failed to create OTLP trace exporter", zap.Error(err))
		_ = conn.Close()
		return nil
	}
	return exporter
}
