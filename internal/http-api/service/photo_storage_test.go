package service

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhotoStorageSave(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewPhotoStorage(dir, 1024)
	assert.NoError(t, err)

	name, err := storage.Save(bytes.NewReader([]byte("jpegdata")), "my photo!.jpg")
	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.NotContains(t, name, "!")
	assert.NotContains(t, name, " ")

	data, err := os.ReadFile(filepath.Join(dir, name))
	assert.NoError(t, err)
	assert.Equal(t, "jpegdata", string(data))
}

func TestPhotoStorageSave_TooLarge(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewPhotoStorage(dir, 8)
	assert.NoError(t, err)

	_, err = storage.Save(bytes.NewReader(make([]byte, 9)), "big.png")
	assert.ErrorIs(t, err, ErrPhotoTooLarge)

	// The oversized partial write is cleaned up.
	entries, readErr := os.ReadDir(dir)
	assert.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestPhotoStorageSave_PathTraversalName(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewPhotoStorage(dir, 1024)
	assert.NoError(t, err)

	name, err := storage.Save(bytes.NewReader([]byte("x")), "../../etc/passwd")
	assert.NoError(t, err)
	assert.NotContains(t, name, "/")

	entries, readErr := os.ReadDir(dir)
	assert.NoError(t, readErr)
	assert.Len(t, entries, 1)
}

func TestPhotoStorageRemove_Empty(t *testing.T) {
	storage, err := NewPhotoStorage(t.TempDir(), 1024)
	assert.NoError(t, err)

	assert.NoError(t, storage.Remove(""))
}
