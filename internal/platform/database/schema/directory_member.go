// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns used by hand-written SQL.
package schema

import "strings"

// DirectoryMemberTable represents the 'directory.member' table
type DirectoryMemberTable struct {
	Table       string
	ID          string
	DisplayName string
	Email       string
	Role        string
	Permissions string
	CreatedAt   string
	UpdatedAt   string
}

// DirectoryMember is the schema definition for directory.member
var DirectoryMember = DirectoryMemberTable{
	Table:       "directory.member",
	ID:          "id",
	DisplayName: "displayname",
	Email:       "email",
	Role:        "role",
	Permissions: "permissions",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names in scan order
func (t DirectoryMemberTable) Columns() []string {
	return []string{
		t.ID, t.DisplayName, t.Email, t.Role, t.Permissions, t.CreatedAt, t.UpdatedAt,
	}
}

// SelectList returns [DirectoryMemberTable.Columns] joined for a SELECT clause
func (t DirectoryMemberTable) SelectList() string {
	return strings.Join(t.Columns(), ", ")
}
