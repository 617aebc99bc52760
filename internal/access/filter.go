// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import "github.com/taibuivan/churchos/pkg/slice"

// # Users

// User is the per-session subject of an access decision.
type User struct {
	Name        string
	Role        Role
	Permissions Set
}

// # Access Filter

// HasAccess reports whether user may open item.
//
//  1. A role level below the item's required level is denied.
//  2. A required permission missing from the user's set is denied.
//  3. Anything else is granted.
func HasAccess(user User, item Item) bool {
	if user.Role.Level() < item.RequiredRole.Level() {
		return false
	}

	if item.RequiredPermission != "" && !user.Permissions.Has(item.RequiredPermission) {
		return false
	}

	return true
}

// Filter returns the items user may open, preserving their order.
// The result is never nil.
func Filter(user User, items []Item) []Item {
	granted := slice.Filter(items, func(item Item) bool {
		return HasAccess(user, item)
	})
	if granted == nil {
		return []Item{}
	}
	return granted
}

// Visible applies [Filter] to the full registry.
func (r *Registry) Visible(user User) []Item {
	return Filter(user, r.items)
}
