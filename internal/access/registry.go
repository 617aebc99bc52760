// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// # Navigation Items

// Item is a path-addressed destination in the application shell.
//
// RequiredPermission is empty when the role threshold alone decides access.
type Item struct {
	Path               string     `json:"path"`
	Label              string     `json:"label"`
	Icon               string     `json:"icon,omitempty"`
	RequiredRole       Role       `json:"required_role"`
	RequiredPermission Permission `json:"required_permission,omitempty"`
}

// # Registry

// Registry is the ordered, immutable set of navigation items.
type Registry struct {
	items   []Item
	byPath  map[string]int
	version string
	catalog *Catalog
}

// RegistryError lists every problem found while building a [Registry].
type RegistryError struct {
	Problems []string
}

func (e *RegistryError) Error() string {
	return "access: invalid navigation registry: " + strings.Join(e.Problems, "; ")
}

// NewRegistry validates items against catalog and freezes them in order.
//
// Paths must be non-empty and unique, roles must be valid, and any required
// permission must be declared in the catalog. All violations are reported
// together in a [*RegistryError].
func NewRegistry(catalog *Catalog, items ...Item) (*Registry, error) {
	if catalog == nil {
		return nil, errors.New("access: registry requires a permission catalog")
	}

	var problems []string
	byPath := make(map[string]int, len(items))

	for index, item := range items {
		switch {
		case item.Path == "":
			problems = append(problems, fmt.Sprintf("item %d has an empty path", index))
		case hasPath(byPath, item.Path):
			problems = append(problems, fmt.Sprintf("path %q is declared twice", item.Path))
		default:
			byPath[item.Path] = index
		}

		if !item.RequiredRole.Valid() {
			problems = append(problems, fmt.Sprintf("path %q has an invalid role", item.Path))
		}

		if item.RequiredPermission != "" && !catalog.Known(item.RequiredPermission) {
			problems = append(problems, fmt.Sprintf("path %q requires unknown permission %q", item.Path, item.RequiredPermission))
		}
	}

	if len(problems) > 0 {
		return nil, &RegistryError{Problems: problems}
	}

	frozen := make([]Item, len(items))
	copy(frozen, items)

	return &Registry{
		items:   frozen,
		byPath:  byPath,
		version: versionOf(frozen),
		catalog: catalog,
	}, nil
}

func hasPath(index map[string]int, path string) bool {
	_, ok := index[path]
	return ok
}

// Items returns a copy of the registry in declaration order.
func (r *Registry) Items() []Item {
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out
}

// Lookup returns the item registered under path.
func (r *Registry) Lookup(path string) (Item, bool) {
	index, ok := r.byPath[path]
	if !ok {
		return Item{}, false
	}
	return r.items[index], true
}

// Version identifies the registry contents. It changes whenever any item changes.
func (r *Registry) Version() string {
	return r.version
}

// Catalog returns the permission catalog the registry was validated against.
func (r *Registry) Catalog() *Catalog {
	return r.catalog
}

// versionOf hashes the ordered item fields into a short hex digest.
func versionOf(items []Item) string {
	hash := sha256.New()
	for _, item := range items {
		fmt.Fprintf(hash, "%s\x00%s\x00%s\x00%d\x00%s\x1e",
			item.Path, item.Label, item.Icon, item.RequiredRole.Level(), item.RequiredPermission)
	}
	return hex.EncodeToString(hash.Sum(nil))[:12]
}
