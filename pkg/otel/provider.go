package otel

import (
	"os"

	"go.opentelemetry.io/otel/attribute"
)

const instrumentationName = "github.com/elimu-ai/elimu"

// read once at startup from DEBUG and TELEMETRY
var (
	EnableDebug     = os.Getenv("DEBUG") != ""
	EnableTelemetry = os.Getenv("TELEMETRY") != ""
)

// Observable marks provider wrappers that already emit telemetry.
type Observable interface {
	otelSetup()
}

type KeyValue = attribute.KeyValue

func String(key string, val string) KeyValue {
	return attribute.String(key, val)
}

func Int(key string, val int) KeyValue {
	return attribute.Int(key, val)
}
