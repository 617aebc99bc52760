// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"fmt"
	"sort"
	"strings"
)

// # Permissions

// Permission is a fine-grained capability name such as "start_livestreams".
type Permission string

// Set is an unordered, deduplicated collection of permissions.
//
// The zero value is an empty set ready to use for lookups.
type Set struct {
	members map[Permission]struct{}
}

// NewSet builds a [Set] from raw permission names. Empty names and duplicates
// are dropped.
func NewSet(names ...string) Set {
	set := Set{members: make(map[Permission]struct{}, len(names))}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		set.members[Permission(name)] = struct{}{}
	}
	return set
}

// Has reports whether p is a member of the set.
func (s Set) Has(p Permission) bool {
	_, ok := s.members[p]
	return ok
}

// Len returns the number of distinct permissions.
func (s Set) Len() int {
	return len(s.members)
}

// Contains reports whether every member of other is also in s.
func (s Set) Contains(other Set) bool {
	for p := range other.members {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s.members))
	for p := range s.members {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}

// Key returns a canonical representation used for memoization.
// Two sets with the same members always produce the same key.
func (s Set) Key() string {
	return strings.Join(s.Sorted(), ",")
}

// # Permission Catalog

// Catalog is the master list of recognised permissions.
type Catalog struct {
	ordered []Permission
	known   map[Permission]struct{}
}

// NewCatalog builds a [Catalog]. Duplicate or empty names are rejected.
func NewCatalog(names ...Permission) (*Catalog, error) {
	catalog := &Catalog{known: make(map[Permission]struct{}, len(names))}
	for _, name := range names {
		if name == "" {
			return nil, fmt.Errorf("access: permission name cannot be empty")
		}
		if _, exists := catalog.known[name]; exists {
			return nil, fmt.Errorf("access: permission %q declared twice", name)
		}
		catalog.known[name] = struct{}{}
		catalog.ordered = append(catalog.ordered, name)
	}
	return catalog, nil
}

// Known reports whether p is declared in the catalog.
func (c *Catalog) Known(p Permission) bool {
	_, ok := c.known[p]
	return ok
}

// Permissions returns the catalog in declaration order.
func (c *Catalog) Permissions() []Permission {
	out := make([]Permission, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Unknown returns the members of names that the catalog does not declare,
// in input order.
func (c *Catalog) Unknown(names ...string) []string {
	var unknown []string
	for _, name := range names {
		if !c.Known(Permission(name)) {
			unknown = append(unknown, name)
		}
	}
	return unknown
}
