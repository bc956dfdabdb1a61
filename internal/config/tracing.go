package config

import (
	"os"
	"strconv"
	"strings"
)

// TracingConfig selects where spans go.  Exporter is "none", "otlp" or
// "zipkin"; with "none" spans are still recorded and propagated between
// services, they are just not shipped anywhere.
type TracingConfig struct {
	Exporter       string
	OTLPEndpoint   string  // host:port of an OTLP/HTTP collector
	ZipkinEndpoint string  // full URL of the zipkin span API
	SampleRate     float64 // 0 < rate <= 1
	ServiceVersion string
}

// LoadTracingConfig reads OTEL_EXPORTER, OTEL_EXPORTER_OTLP_ENDPOINT,
// ZIPKIN_ENDPOINT, OTEL_SAMPLE_RATE and APP_VERSION.
func LoadTracingConfig() TracingConfig {
	loadDotenv()
	cfg := TracingConfig{
		Exporter:       strings.ToLower(envStr("OTEL_EXPORTER", "none")),
		OTLPEndpoint:   envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		ZipkinEndpoint: envStr("ZIPKIN_ENDPOINT", "http://localhost:9411/api/v2/spans"),
		SampleRate:     envFloat("OTEL_SAMPLE_RATE", 1),
		ServiceVersion: envStr("APP_VERSION", "dev"),
	}
	if cfg.SampleRate <= 0 || cfg.SampleRate > 1 {
		cfg.SampleRate = 1
	}
	return cfg
}

func envFloat(k string, d float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return d
}
