package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("client went away") }

func TestLocalStorage_PutAndDelete(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	s, err := NewLocalStorage(root, "/uploads/")
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, s.Provider())
	ctx := context.Background()

	url, err := s.Put(ctx, "2026/10/avatar.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/2026/10/avatar.png", url)

	data, err := os.ReadFile(filepath.Join(root, "2026", "10", "avatar.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Delete(ctx, "2026/10/avatar.png"))
	_, err = os.Stat(filepath.Join(root, "2026", "10", "avatar.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, "2026/10/avatar.png"))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "../secret", "a/../../b", "/abs", "dir/"} {
		_, err := s.Put(ctx, key, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, key)
		assert.ErrorIs(t, s.Delete(ctx, key), ErrInvalidKey, key)
	}
}

func TestLocalStorage_FailedCopyLeavesNothing(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "/uploads")
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "broken.png", brokenReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStorage_CanceledContext(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Put(ctx, "late.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
