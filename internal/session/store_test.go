package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "token")
	store := NewFileStore(path)

	// missing file reads as empty, not an error
	token, err := store.Load()
	assert.NoError(t, err)
	assert.Empty(t, token)

	err = store.Save("abc.def.ghi")
	assert.NoError(t, err)

	token, err = store.Load()
	assert.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	err = store.Clear()
	assert.NoError(t, err)

	token, err = store.Load()
	assert.NoError(t, err)
	assert.Empty(t, token)

	// clearing twice is fine
	err = store.Clear()
	assert.NoError(t, err)
}
