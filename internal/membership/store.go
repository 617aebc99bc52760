// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package membership

import (
	"context"
	"time"

	"github.com/taibuivan/churchos/internal/access"
	"github.com/taibuivan/churchos/pkg/pagination"
)

// Repository persists members.
//
// Missing rows are reported as apperr NOT_FOUND; duplicate emails as CONFLICT.
type Repository interface {
	Create(context context.Context, member *Member) error
	FindByID(context context.Context, id string) (*Member, error)
	List(context context.Context, params pagination.Params) ([]*Member, int, error)
	UpdateRole(context context.Context, id string, role access.Role, permissions []access.Permission, updatedAt time.Time) (*Member, error)
}
