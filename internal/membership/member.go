// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package membership manages the member directory and role assignment.

Identity lives with the external identity provider; the directory records
which role and permissions each member should carry in their next token.
*/
package membership

import (
	"time"

	"github.com/taibuivan/churchos/internal/access"
)

// Validation limits.
const (
	maxDisplayNameLen = 120
	minDisplayNameLen = 2
	maxEmailLen       = 320
)

// Member is one entry of the directory.
type Member struct {
	ID          string              `json:"id"`
	DisplayName string              `json:"display_name"`
	Email       string              `json:"email"`
	Role        access.Role         `json:"role"`
	Permissions []access.Permission `json:"permissions"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// CreateInput is the body of POST /members.
//
// A nil Permissions means "use the role's default grants"; an empty list
// means no permissions at all.
type CreateInput struct {
	DisplayName string   `json:"display_name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// AssignRoleInput is the body of PUT /members/{id}/role. Permissions follow
// the same nil/empty rule as [CreateInput].
type AssignRoleInput struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}
