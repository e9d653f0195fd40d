package service

import "go.opentelemetry.io/otel"

const scopeName = "github.com/Wyydra/callstate/internal/core/service"

var tracer = otel.Tracer(scopeName)
