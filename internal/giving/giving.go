// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package giving serves the giving overview shown on the dashboard.
package giving

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/churchos/internal/platform/respond"
)

// Stats is the giving overview: the offering streams and per-currency totals.
type Stats struct {
	Streams []string       `json:"streams"`
	Totals  map[string]int `json:"totals"`
}

// CurrentStats returns the giving overview.
//
// The figures are fixed until payment processing lands; a fresh value is
// built on every call so callers may not alias shared state.
func CurrentStats() Stats {
	return Stats{
		Streams: []string{"Tithe", "Offering", "Seed"},
		Totals: map[string]int{
			"USD":        1200,
			"GHS":        3500,
			"ScrollCoin": 77,
		},
	}
}

// Handler exposes the giving endpoints.
type Handler struct{}

// NewHandler creates a new giving handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Routes returns the router for /api/giving.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/stats", handler.stats)
	return router
}

// stats writes the overview as a bare object; dashboard clients read
// streams and totals at the top level.
func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	respond.JSON(writer, http.StatusOK, CurrentStats())
}
