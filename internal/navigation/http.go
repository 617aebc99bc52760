// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package navigation

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/churchos/internal/platform/middleware"
	requestutil "github.com/taibuivan/churchos/internal/platform/request"
	"github.com/taibuivan/churchos/internal/platform/respond"
	"github.com/taibuivan/churchos/internal/platform/validate"
)

// Handler exposes navigation endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new navigation handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for /navigation. Every route requires a principal.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.visible)
	router.Get("/check", handler.check)
	return router
}

// AccessRoutes returns the router for /access, feeding the access-control viewer.
func (handler *Handler) AccessRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/roles", handler.roles)
	router.Get("/permissions", handler.permissions)
	return router
}

func (handler *Handler) visible(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.service.Visible(request.Context(), user))
}

func (handler *Handler) check(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	path := strings.TrimSpace(request.URL.Query().Get("path"))
	if path == "" {
		respond.Error(writer, request, validate.RequiredError("path", "This field is required"))
		return
	}

	decision, err := handler.service.Check(request.Context(), user, path)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, decision)
}

func (handler *Handler) roles(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.Roles())
}

func (handler *Handler) permissions(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.Permissions())
}
