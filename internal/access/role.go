// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access implements the EXOUSIA access-control model: the role hierarchy,
the permission catalog, the navigation registry and the filter that decides
which destinations a user may see.

Architecture:

  - Closed Set: [Role] is a small enumeration. Every value has a level in an
    exhaustive table, so the filter never meets an undefined role.
  - Immutable: A [Registry] is validated once at startup and never mutated.
  - Pure: [HasAccess] and [Filter] have no side effects and never fail.

Names coming from the outside world (JWT claims, JSON bodies) are converted with
[ParseRole]; that is the only place an unknown role can be reported.
*/
package access

import "fmt"

// # Roles

// Role is a coarse-grained privilege tier. The zero value is not a valid role.
type Role uint8

const (
	RoleDeacon Role = iota + 1
	RoleElder
	RoleApostle
	RoleNationSeer
)

// roleTable is indexed by [Role]. Index 0 is the invalid zero value.
var roleTable = [...]struct {
	name  string
	level int
}{
	{name: "", level: 0},
	RoleDeacon:     {name: "Deacon", level: 1},
	RoleElder:      {name: "Elder", level: 2},
	RoleApostle:    {name: "Apostle", level: 3},
	RoleNationSeer: {name: "Nation Seer", level: 4},
}

// Roles returns every valid role ordered from lowest to highest level.
func Roles() []Role {
	return []Role{RoleDeacon, RoleElder, RoleApostle, RoleNationSeer}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r >= RoleDeacon && int(r) < len(roleTable)
}

// Level returns the numeric hierarchy level (1..4). Invalid roles report 0.
func (r Role) Level() int {
	if !r.Valid() {
		return 0
	}
	return roleTable[r].level
}

// String returns the display name, e.g. "Nation Seer".
func (r Role) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
	return roleTable[r].name
}

// AtLeast reports whether r meets or exceeds target in the hierarchy.
func (r Role) AtLeast(target Role) bool {
	return r.Level() >= target.Level()
}

// ParseRole converts a display name into a [Role].
func ParseRole(name string) (Role, error) {
	for _, role := range Roles() {
		if roleTable[role].name == name {
			return role, nil
		}
	}
	return 0, fmt.Errorf("access: unknown role %q", name)
}

// # Encoding

// MarshalText implements [encoding.TextMarshaler].
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("access: cannot marshal invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
