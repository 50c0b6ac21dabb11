// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"swiss-zipcode-api/platform/config"
	"swiss-zipcode-api/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.RateLimitConfig
}

// DatasetInfo exposes minimal dataset facts for the health endpoint.
type DatasetInfo interface {
	Len() int
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and rate limit settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Dataset reports on the loaded dataset for health checks.
	Dataset DatasetInfo
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
