package tracing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/voicejournal/promptlab/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const defaultServiceName = "promptlab"

// OTelOptions configures the OpenTelemetry sink. When Exporter is set it is
// used synchronously and Endpoint is ignored.
type OTelOptions struct {
	// Endpoint is a full OTLP/HTTP URL such as http://localhost:4318.
	// Empty means the exporter's environment defaults.
	Endpoint    string
	ServiceName string
	Exporter    sdktrace.SpanExporter
}

// OTel turns each record into a single span.
type OTel struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewOTel builds a tracer provider that exports spans over OTLP/HTTP.
func NewOTel(ctx context.Context, opts OTelOptions) (*OTel, error) {
	if opts.ServiceName == "" {
		opts.ServiceName = defaultServiceName
	}

	res := resource.NewSchemaless(attribute.String("service.name", opts.ServiceName))

	var spanOpt sdktrace.TracerProviderOption
	if opts.Exporter != nil {
		spanOpt = sdktrace.WithSyncer(opts.Exporter)
	} else {
		var exporterOpts []otlptracehttp.Option
		if opts.Endpoint != "" {
			exporterOpts = append(exporterOpts, otlptracehttp.WithEndpointURL(opts.Endpoint))
		}
		exporter, err := otlptracehttp.New(ctx, exporterOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating OTLP exporter: %w", err)
		}
		spanOpt = sdktrace.WithBatcher(exporter)
	}

	provider := sdktrace.NewTracerProvider(spanOpt, sdktrace.WithResource(res))
	return &OTel{
		provider: provider,
		tracer:   provider.Tracer("github.com/voicejournal/promptlab"),
	}, nil
}

func (o *OTel) Trace(ctx context.Context, rec models.TraceRecord) error {
	_, span := o.tracer.Start(ctx, rec.Name, trace.WithAttributes(recordAttributes(rec)...))
	span.End()
	return nil
}

// Flush exports pending spans and shuts the provider down. The sink cannot
// be used afterwards.
func (o *OTel) Flush(ctx context.Context) error {
	return errors.Join(o.provider.ForceFlush(ctx), o.provider.Shutdown(ctx))
}

func recordAttributes(rec models.TraceRecord) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	for _, key := range []string{"sample_id", "prompt_version"} {
		if v, ok := rec.Input[key].(string); ok {
			attrs = append(attrs, attribute.String("promptlab."+key, v))
		}
	}
	for _, key := range []string{"experiment", "model"} {
		if v, ok := rec.Metadata[key].(string); ok {
			attrs = append(attrs, attribute.String("promptlab."+key, v))
		}
	}

	scores := numericScores(rec.Output["scores"])
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		attrs = append(attrs, attribute.Float64("promptlab.score."+name, scores[name]))
	}

	if b, err := json.Marshal(rec.Input); err == nil {
		attrs = append(attrs, attribute.String("promptlab.input", string(b)))
	}
	if b, err := json.Marshal(rec.Output); err == nil {
		attrs = append(attrs, attribute.String("promptlab.output", string(b)))
	}
	return attrs
}

// numericScores flattens a scores value into name/value pairs. Structs go
// through JSON so their field tags become the names.
func numericScores(v any) map[string]float64 {
	out := map[string]float64{}
	switch s := v.(type) {
	case nil:
		return out
	case map[string]float64:
		for k, f := range s {
			out[k] = f
		}
		return out
	case map[string]any:
		for k, raw := range s {
			if f, ok := raw.(float64); ok {
				out[k] = f
			}
		}
		return out
	}

	b, err := json.Marshal(v)
	if err != nil {
		return out
	}
	var generic map[string]any
	if err := json.Unmarshal(b, &generic); err != nil {
		return out
	}
	return numericScores(generic)
}
