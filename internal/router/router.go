// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router wires the daemon's HTTP routes: public probes and
// metrics, read-only listings, and token-guarded run triggers.
package router

import (
	"time"

	"github.com/go-chi/chi/v5"

	"autopress/internal/handlers"
	"autopress/internal/metrics"
	"autopress/internal/middleware"
)

// triggerLimit caps manual run triggers; a stuck retry loop upstream
// must not turn into a publish storm.
const (
	triggerLimit  = 10
	triggerWindow = time.Minute
)

// New creates the configured chi router. apiToken guards the trigger
// endpoints; an empty token closes them.
func New(api *handlers.API, apiToken string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/healthz", api.Health)
	r.Method("GET", "/metrics", metrics.Handler())

	r.Get("/destinations", api.Destinations)
	r.Get("/articles", api.Articles)
	r.Get("/logs", api.Logs)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireToken(apiToken))
		limiter := middleware.NewRateLimiter(triggerLimit, triggerWindow)
		r.Use(limiter.Middleware)

		r.Post("/run", api.RunNow)
		r.Post("/report", api.ReportNow)
	})

	return r
}
