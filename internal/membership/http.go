// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package membership

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/churchos/internal/access"
	"github.com/taibuivan/churchos/internal/platform/middleware"
	requestutil "github.com/taibuivan/churchos/internal/platform/request"
	"github.com/taibuivan/churchos/internal/platform/respond"
	"github.com/taibuivan/churchos/pkg/pagination"
)

// Handler exposes the member directory.
type Handler struct {
	service *Service
}

// NewHandler creates a new membership handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for /members.
//
// Reading and creating need manage_users; changing a role needs manage_roles.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(directory chi.Router) {
		directory.Use(middleware.RequirePermission(access.PermManageUsers))
		directory.Get("/", handler.list)
		directory.Post("/", handler.create)
		directory.Get("/{id}", handler.get)
	})

	router.With(middleware.RequirePermission(access.PermManageRoles)).Put("/{id}/role", handler.assignRole)

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	members, meta, err := handler.service.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, members, meta)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	member, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, member)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	member, err := handler.service.Create(request.Context(), actor, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, member)
}

func (handler *Handler) assignRole(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input AssignRoleInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	member, err := handler.service.AssignRole(request.Context(), actor, requestutil.Param(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, member)
}
