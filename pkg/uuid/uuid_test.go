// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/churchos/pkg/uuid"
)

func TestNew(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	assert.True(t, uuid.Valid(first))
	assert.NotEqual(t, first, second)
	assert.Equal(t, byte('7'), first[14])
}

func TestValid(t *testing.T) {
	assert.True(t, uuid.Valid("0190e0a4-7c1b-7d2e-9a3b-4c5d6e7f8091"))
	assert.False(t, uuid.Valid("not-a-uuid"))
	assert.False(t, uuid.Valid(""))
}
