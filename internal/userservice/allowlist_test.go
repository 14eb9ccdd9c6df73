package userservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowlistSnapshot(t *testing.T) {
	a := NewAllowlist(nil)
	a.Snapshot([]string{"known@example.com", " Mixed@Example.COM "})

	assert.True(t, a.Allowed("known@example.com"))
	assert.True(t, a.Allowed("mixed@example.com"))
	assert.True(t, a.Allowed("KNOWN@EXAMPLE.COM"))
	assert.False(t, a.Allowed("new@example.com"))
	assert.False(t, a.Allowed(""))
}

func TestAllowlistConfiguredOverride(t *testing.T) {
	a := NewAllowlist([]string{"only@example.com"})
	a.Snapshot([]string{"known@example.com"})

	// a non-empty configured list replaces the snapshot entirely
	assert.True(t, a.Allowed("only@example.com"))
	assert.False(t, a.Allowed("known@example.com"))
}
