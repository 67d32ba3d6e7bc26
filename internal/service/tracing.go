package service

import "go.opentelemetry.io/otel"

// tracer resolves against the global provider, a no-op until tracing is enabled.
var tracer = otel.Tracer("arrow-be/internal/service")
