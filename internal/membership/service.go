// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package membership

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/churchos/internal/access"
	"github.com/taibuivan/churchos/internal/platform/apperr"
	"github.com/taibuivan/churchos/internal/platform/ctxutil"
	"github.com/taibuivan/churchos/internal/platform/validate"
	"github.com/taibuivan/churchos/pkg/pagination"
	"github.com/taibuivan/churchos/pkg/slice"
	"github.com/taibuivan/churchos/pkg/uuid"
)

// Service implements the member directory use cases.
type Service struct {
	repo    Repository
	catalog *access.Catalog
	now     func() time.Time
}

// NewService creates a Service validating permissions against catalog.
func NewService(repo Repository, catalog *access.Catalog) *Service {
	return &Service{repo: repo, catalog: catalog, now: time.Now}
}

// # Commands

/*
Create registers a new member.

The actor may not create a member with a role above their own level, nor
hand out an explicit permission they do not hold themselves.
*/
func (service *Service) Create(context context.Context, actor access.User, input CreateInput) (*Member, error) {
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	validator := &validate.Validator{}
	validator.
		Required("display_name", input.DisplayName).
		MinLen("display_name", input.DisplayName, minDisplayNameLen).
		MaxLen("display_name", input.DisplayName, maxDisplayNameLen).
		Email("email", input.Email).
		MaxLen("email", input.Email, maxEmailLen).
		Role("role", input.Role).
		Permissions("permissions", service.catalog, input.Permissions)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	role, _ := access.ParseRole(input.Role)
	if err := authorizeGrant(actor, role, input.Permissions); err != nil {
		return nil, err
	}

	currentTime := service.now().UTC()
	member := &Member{
		ID:          uuid.New(),
		DisplayName: input.DisplayName,
		Email:       input.Email,
		Role:        role,
		Permissions: resolvePermissions(role, input.Permissions),
		CreatedAt:   currentTime,
		UpdatedAt:   currentTime,
	}

	if err := service.repo.Create(context, member); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "member_created",
		slog.String("member_id", member.ID),
		slog.String("actor_id", actorID(context)),
		slog.String("role", member.Role.String()),
	)
	return member, nil
}

/*
AssignRole replaces a member's role and permissions.

Rules:
  - The role must be one of the four display names.
  - Every permission must be in the catalog; nil means the role's defaults.
  - The actor may not assign a role above their own level (403).
  - The actor may not change a member who outranks them (403).
  - Explicit permissions must be a subset of the actor's own (403).
*/
func (service *Service) AssignRole(context context.Context, actor access.User, id string, input AssignRoleInput) (*Member, error) {
	validator := &validate.Validator{}
	validator.
		UUID("id", id).
		Role("role", input.Role).
		Permissions("permissions", service.catalog, input.Permissions)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	role, _ := access.ParseRole(input.Role)
	if err := authorizeGrant(actor, role, input.Permissions); err != nil {
		return nil, err
	}

	current, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if current.Role.Level() > actor.Role.Level() {
		return nil, apperr.Forbidden("Cannot change a member who outranks you")
	}

	member, err := service.repo.UpdateRole(context, id, role, resolvePermissions(role, input.Permissions), service.now().UTC())
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "member_role_assigned",
		slog.String("member_id", member.ID),
		slog.String("actor_id", actorID(context)),
		slog.String("previous_role", current.Role.String()),
		slog.String("role", member.Role.String()),
		slog.Int("permissions", len(member.Permissions)),
	)
	return member, nil
}

// # Queries

// Get returns the member with the given id.
func (service *Service) Get(context context.Context, id string) (*Member, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound(memberResource)
	}
	return service.repo.FindByID(context, id)
}

// List returns one page of members and its pagination metadata.
func (service *Service) List(context context.Context, params pagination.Params) ([]*Member, pagination.Meta, error) {
	members, total, err := service.repo.List(context, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return members, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// # Helpers

// authorizeGrant checks the role ceiling and that every explicitly named
// permission is held by the actor. Role default grants are covered by the
// role ceiling alone.
func authorizeGrant(actor access.User, role access.Role, names []string) error {
	if role.Level() > actor.Role.Level() {
		return apperr.Forbidden("Cannot grant a role above your own")
	}

	missing := slice.Filter(access.NewSet(names...).Sorted(), func(name string) bool {
		return !actor.Permissions.Has(access.Permission(name))
	})
	if len(missing) > 0 {
		return apperr.Forbidden("Cannot grant permissions you do not hold: " + strings.Join(missing, ", "))
	}
	return nil
}

// actorID returns the token subject of the caller, if known.
func actorID(context context.Context) string {
	if claims := ctxutil.GetAuthUser(context); claims != nil {
		return claims.UserID
	}
	return ""
}

// resolvePermissions applies the role defaults when names is nil and
// otherwise returns the deduplicated, sorted set.
func resolvePermissions(role access.Role, names []string) []access.Permission {
	if names == nil {
		return access.DefaultGrants(role)
	}
	return slice.Map(access.NewSet(names...).Sorted(), func(name string) access.Permission {
		return access.Permission(name)
	})
}
