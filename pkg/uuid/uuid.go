// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered identifiers for persisted records.

Version 7 values sort by creation time, which keeps B-tree inserts in
PostgreSQL append-only and lets list queries page by id.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// It panics if the system entropy source fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}

// Valid reports whether s is a UUID in canonical or braced form.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
