// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package clientconfig serves the browser shell its runtime configuration.

Only values that are already public by nature are projected: web SDK keys,
publishable payment keys, analytics ids, feature flags and locales. Server
secrets never appear in [Public].
*/
package clientconfig

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/churchos/internal/platform/config"
	"github.com/taibuivan/churchos/internal/platform/respond"
)

// Public is the JSON shape served at /client-config.
type Public struct {
	Environment string          `json:"environment"`
	AppVersion  string          `json:"app_version"`
	Firebase    config.Firebase `json:"firebase"`
	APIBaseURL  string          `json:"api_base_url"`
	Stripe      Stripe          `json:"stripe"`
	Analytics   Analytics       `json:"analytics"`
	Features    config.Features `json:"features"`
	Locales     Locales         `json:"locales"`
}

// Stripe holds the publishable key for the active environment.
type Stripe struct {
	PublishableKey string `json:"publishable_key"`
}

// Analytics holds client-side tracking identifiers.
type Analytics struct {
	GoogleAnalyticsID string `json:"google_analytics_id,omitempty"`
	MixpanelToken     string `json:"mixpanel_token,omitempty"`
}

// Locales lists the languages the shell may offer.
type Locales struct {
	Default   string   `json:"default"`
	Supported []string `json:"supported"`
}

// Project builds the public view of cfg for the current environment.
func Project(cfg *config.Config) Public {
	supported := make([]string, len(cfg.SupportedLocales))
	copy(supported, cfg.SupportedLocales)

	return Public{
		Environment: cfg.Environment,
		AppVersion:  cfg.AppVersion,
		Firebase:    cfg.Firebase,
		APIBaseURL:  cfg.ActiveBackendAPIURL(),
		Stripe:      Stripe{PublishableKey: cfg.ActiveStripeKey()},
		Analytics: Analytics{
			GoogleAnalyticsID: cfg.GoogleAnalyticsID,
			MixpanelToken:     cfg.MixpanelToken,
		},
		Features: cfg.Features,
		Locales:  Locales{Default: cfg.DefaultLocale, Supported: supported},
	}
}

// Handler serves the projection computed once at startup.
type Handler struct {
	public Public
}

// NewHandler creates a handler for cfg. Configuration is immutable after
// startup, so the projection is computed here.
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{public: Project(cfg)}
}

// Routes returns the router for /client-config.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.get)
	return router
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.public)
}
