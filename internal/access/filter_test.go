// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/churchos/internal/access"
)

// scenarioItems mixes permission-gated and role-only destinations on every level.
func scenarioItems() []access.Item {
	return []access.Item{
		{Path: "/welcome", Label: "Welcome", RequiredRole: access.RoleDeacon},
		{Path: "/prayer", Label: "Prayer", RequiredRole: access.RoleDeacon, RequiredPermission: access.PermJoinPrayerSessions},
		{Path: "/elders", Label: "Elders", RequiredRole: access.RoleElder},
		{Path: "/go-live", Label: "Go Live", RequiredRole: access.RoleApostle, RequiredPermission: access.PermStartLivestreams},
		{Path: "/composer", Label: "Composer", RequiredRole: access.RoleApostle, RequiredPermission: access.PermCreateScrollComposition},
		{Path: "/oversight", Label: "Oversight", RequiredRole: access.RoleNationSeer},
		{Path: "/roles", Label: "Roles", RequiredRole: access.RoleNationSeer, RequiredPermission: access.PermManageRoles},
	}
}

func scenarioRegistry(t *testing.T) *access.Registry {
	t.Helper()
	registry, err := access.NewRegistry(access.DefaultCatalog(), scenarioItems()...)
	require.NoError(t, err)
	return registry
}

func paths(items []access.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Path)
	}
	return out
}

// isSubsequence reports whether sub appears in full in the same relative order.
func isSubsequence(sub, full []access.Item) bool {
	next := 0
	for _, item := range sub {
		for next < len(full) && full[next].Path != item.Path {
			next++
		}
		if next == len(full) {
			return false
		}
		next++
	}
	return true
}

// permissionPool is small enough to enumerate every subset.
var permissionPool = []string{
	string(access.PermJoinPrayerSessions),
	string(access.PermStartLivestreams),
	string(access.PermCreateScrollComposition),
	string(access.PermManageRoles),
}

func allSubsets(pool []string) [][]string {
	subsets := make([][]string, 0, 1<<len(pool))
	for mask := 0; mask < 1<<len(pool); mask++ {
		var subset []string
		for bit, name := range pool {
			if mask&(1<<bit) != 0 {
				subset = append(subset, name)
			}
		}
		subsets = append(subsets, subset)
	}
	return subsets
}

func allUsers() []access.User {
	var users []access.User
	for _, role := range access.Roles() {
		for _, subset := range allSubsets(permissionPool) {
			users = append(users, access.User{Role: role, Permissions: access.NewSet(subset...)})
		}
	}
	return users
}

/*
TestFilter_Scenarios checks the documented role/permission combinations.
*/
func TestFilter_Scenarios(t *testing.T) {
	registry := scenarioRegistry(t)

	tests := []struct {
		name        string
		role        access.Role
		permissions []string
		want        []string
	}{
		{"deacon_without_permissions", access.RoleDeacon, nil, []string{"/welcome"}},
		{"apostle_with_livestreams", access.RoleApostle, []string{"start_livestreams"}, []string{"/welcome", "/elders", "/go-live"}},
		{"nation_seer_without_permissions", access.RoleNationSeer, nil, []string{"/welcome", "/elders", "/oversight"}},
		{"elder_with_apostle_permission", access.RoleElder, []string{"start_livestreams"}, []string{"/welcome", "/elders"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := access.User{Role: tt.role, Permissions: access.NewSet(tt.permissions...)}
			assert.Equal(t, tt.want, paths(registry.Visible(user)))
		})
	}
}

/*
TestFilter_UnknownPath verifies that an unregistered path never appears in the output.
*/
func TestFilter_UnknownPath(t *testing.T) {
	registry := scenarioRegistry(t)

	_, found := registry.Lookup("/does-not-exist")
	assert.False(t, found)

	for _, user := range allUsers() {
		assert.NotContains(t, paths(registry.Visible(user)), "/does-not-exist")
	}
}

/*
TestFilter_PreservesOrder verifies the output is always an ordered sub-sequence of the registry.
*/
func TestFilter_PreservesOrder(t *testing.T) {
	registry := scenarioRegistry(t)
	items := registry.Items()

	for _, user := range allUsers() {
		visible := registry.Visible(user)
		assert.True(t, isSubsequence(visible, items), "role=%s perms=%s", user.Role, user.Permissions.Key())
		for _, item := range visible {
			assert.True(t, access.HasAccess(user, item))
		}
	}
}

/*
TestHasAccess_RoleOnlyItems verifies that items without a permission ignore the permission set.
*/
func TestHasAccess_RoleOnlyItems(t *testing.T) {
	for _, item := range scenarioItems() {
		if item.RequiredPermission != "" {
			continue
		}
		for _, user := range allUsers() {
			want := user.Role.Level() >= item.RequiredRole.Level()
			assert.Equal(t, want, access.HasAccess(user, item), "item=%s role=%s", item.Path, user.Role)
		}
	}
}

/*
TestHasAccess_MissingPermission verifies that meeting the role threshold is not enough.
*/
func TestHasAccess_MissingPermission(t *testing.T) {
	for _, item := range scenarioItems() {
		if item.RequiredPermission == "" {
			continue
		}
		for _, role := range access.Roles() {
			if !role.AtLeast(item.RequiredRole) {
				continue
			}
			user := access.User{Role: role, Permissions: access.NewSet("access_all_modules")}
			assert.False(t, access.HasAccess(user, item), "item=%s role=%s", item.Path, role)
		}
	}
}

/*
TestFilter_Monotonic verifies that more privilege never hides an item.
*/
func TestFilter_Monotonic(t *testing.T) {
	registry := scenarioRegistry(t)
	users := allUsers()

	for _, stronger := range users {
		granted := paths(registry.Visible(stronger))
		for _, weaker := range users {
			if !stronger.Role.AtLeast(weaker.Role) || !stronger.Permissions.Contains(weaker.Permissions) {
				continue
			}
			assert.Subset(t, granted, paths(registry.Visible(weaker)))
		}
	}
}

/*
TestFilter_EmptyResultIsNotNil ensures callers can encode the result as a JSON array.
*/
func TestFilter_EmptyResultIsNotNil(t *testing.T) {
	visible := access.Filter(access.User{Role: access.RoleDeacon}, nil)
	assert.NotNil(t, visible)
	assert.Empty(t, visible)
}

/*
TestDefaultRegistry_RoleGrants walks the shipped registry with each role's default grants.
*/
func TestDefaultRegistry_RoleGrants(t *testing.T) {
	registry, err := access.NewDefaultRegistry()
	require.NoError(t, err)

	grantsOf := func(role access.Role) access.Set {
		var names []string
		for _, p := range access.DefaultGrants(role) {
			names = append(names, string(p))
		}
		return access.NewSet(names...)
	}

	tests := []struct {
		name string
		user access.User
		want []string
	}{
		{
			name: "deacon",
			user: access.User{Role: access.RoleDeacon, Permissions: grantsOf(access.RoleDeacon)},
			want: []string{"/", "/prayer-portal"},
		},
		{
			name: "elder",
			user: access.User{Role: access.RoleElder, Permissions: grantsOf(access.RoleElder)},
			want: []string{"/", "/bible-characters", "/holy-land"},
		},
		{
			name: "apostle",
			user: access.User{Role: access.RoleApostle, Permissions: grantsOf(access.RoleApostle)},
			want: []string{"/", "/bible-characters", "/holy-land", "/composer", "/seal", "/mobile-control", "/go-live"},
		},
		{
			name: "nation_seer_without_permissions",
			user: access.User{Name: "Prophet Sarah", Role: access.RoleNationSeer},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths(registry.Visible(tt.user)))
		})
	}
}
