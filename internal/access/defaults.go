// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

// # Permission Names

const (
	PermViewProphecies          Permission = "view_prophecies"
	PermCreateBasicProphecies   Permission = "create_basic_prophecies"
	PermJoinPrayerSessions      Permission = "join_prayer_sessions"
	PermCreateProphecies        Permission = "create_prophecies"
	PermManagePrayerSessions    Permission = "manage_prayer_sessions"
	PermAccessBibleCharacters   Permission = "access_bible_characters"
	PermViewHolyLand            Permission = "view_holy_land"
	PermCreateScrollComposition Permission = "create_scroll_compositions"
	PermManageUsers             Permission = "manage_users"
	PermStartLivestreams        Permission = "start_livestreams"
	PermManageRoles             Permission = "manage_roles"
	PermAccessAllModules        Permission = "access_all_modules"
	PermPropheticOversight      Permission = "prophetic_oversight"
)

// defaultCatalog is declared in the order the access-control viewer lists it.
var defaultCatalog = []Permission{
	PermViewProphecies,
	PermCreateBasicProphecies,
	PermJoinPrayerSessions,
	PermCreateProphecies,
	PermManagePrayerSessions,
	PermAccessBibleCharacters,
	PermViewHolyLand,
	PermCreateScrollComposition,
	PermManageUsers,
	PermStartLivestreams,
	PermManageRoles,
	PermAccessAllModules,
	PermPropheticOversight,
}

// DefaultCatalog returns the built-in permission catalog.
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog(defaultCatalog...)
	if err != nil {
		panic(err)
	}
	return catalog
}

// # Role Grants

var (
	elderGrants = []Permission{
		PermViewProphecies, PermCreateProphecies, PermManagePrayerSessions,
		PermAccessBibleCharacters, PermViewHolyLand,
	}
	apostleGrants = append(append([]Permission{}, elderGrants...),
		PermCreateScrollComposition, PermManageUsers, PermStartLivestreams,
	)
	nationSeerGrants = append(append([]Permission{}, apostleGrants...),
		PermManageRoles, PermAccessAllModules, PermPropheticOversight,
	)
)

// DefaultGrants returns the permissions a role receives when a member is
// created or promoted without an explicit permission list.
func DefaultGrants(role Role) []Permission {
	var grants []Permission
	switch role {
	case RoleDeacon:
		grants = []Permission{PermViewProphecies, PermCreateBasicProphecies, PermJoinPrayerSessions}
	case RoleElder:
		grants = elderGrants
	case RoleApostle:
		grants = apostleGrants
	case RoleNationSeer:
		grants = nationSeerGrants
	}
	out := make([]Permission, len(grants))
	copy(out, grants)
	return out
}

// RoleInfo is one row of the role hierarchy as shown by the access-control viewer.
type RoleInfo struct {
	Name        Role         `json:"name"`
	Level       int          `json:"level"`
	Permissions []Permission `json:"permissions"`
}

// Hierarchy returns every role with its level and default grants, lowest first.
func Hierarchy() []RoleInfo {
	rows := make([]RoleInfo, 0, len(Roles()))
	for _, role := range Roles() {
		rows = append(rows, RoleInfo{Name: role, Level: role.Level(), Permissions: DefaultGrants(role)})
	}
	return rows
}

// # Navigation Registry

// DefaultItems returns the shell's navigation destinations in display order.
func DefaultItems() []Item {
	return []Item{
		{Path: "/", Label: "Scroll Dashboard", Icon: "home", RequiredRole: RoleDeacon, RequiredPermission: PermViewProphecies},
		{Path: "/prayer-portal", Label: "Prayer Portal", Icon: "heart", RequiredRole: RoleDeacon, RequiredPermission: PermJoinPrayerSessions},
		{Path: "/bible-characters", Label: "Bible Characters", Icon: "users", RequiredRole: RoleElder, RequiredPermission: PermAccessBibleCharacters},
		{Path: "/holy-land", Label: "Holy Land", Icon: "globe", RequiredRole: RoleElder, RequiredPermission: PermViewHolyLand},
		{Path: "/composer", Label: "Scroll Composer", Icon: "file-text", RequiredRole: RoleApostle, RequiredPermission: PermCreateScrollComposition},
		{Path: "/seal", Label: "Scroll Seal", Icon: "shield", RequiredRole: RoleApostle, RequiredPermission: PermManageUsers},
		{Path: "/mobile-control", Label: "Mobile Control", Icon: "smartphone", RequiredRole: RoleApostle, RequiredPermission: PermStartLivestreams},
		{Path: "/go-live", Label: "Go Live", Icon: "radio", RequiredRole: RoleApostle, RequiredPermission: PermStartLivestreams},
	}
}

// NewDefaultRegistry builds the registry from [DefaultCatalog] and [DefaultItems].
func NewDefaultRegistry() (*Registry, error) {
	return NewRegistry(DefaultCatalog(), DefaultItems()...)
}
