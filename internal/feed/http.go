// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feed

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/churchos/internal/access"
	"github.com/taibuivan/churchos/internal/platform/apperr"
	"github.com/taibuivan/churchos/internal/platform/middleware"
	"github.com/taibuivan/churchos/internal/platform/poll"
	"github.com/taibuivan/churchos/internal/platform/respond"
)

// Handler serves feed snapshots.
type Handler struct {
	relay *Relay
}

// NewHandler creates a new feed handler.
func NewHandler(relay *Relay) *Handler {
	return &Handler{relay: relay}
}

// Routes returns the router for /feeds.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequirePermission(access.PermViewProphecies)).
		Get("/dashboard", snapshotHandler(handler.relay.Dashboard))

	router.Group(func(prayer chi.Router) {
		prayer.Use(middleware.RequirePermission(access.PermJoinPrayerSessions))
		prayer.Get("/prayer-sessions", snapshotHandler(handler.relay.PrayerSessions))
		prayer.Get("/prayer-logs", snapshotHandler(handler.relay.PrayerLogs))
	})

	return router
}

func snapshotHandler[T any](poller *poll.Poller[T]) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		snapshot, ready := poller.Snapshot()
		if !ready {
			respond.Error(writer, request, apperr.ServiceUnavailable("Feed "+poller.Name()+" is not available yet", poller.Err()))
			return
		}
		respond.OK(writer, snapshot)
	}
}
