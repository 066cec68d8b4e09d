package authpg_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/authpg"
)

func TestMigrations(t *testing.T) {
	t.Parallel()

	t.Run("files sit at filesystem root", func(t *testing.T) {
		t.Parallel()

		entries, err := fs.ReadDir(authpg.Migrations, ".")
		require.NoError(t, err)
		require.NotEmpty(t, entries)

		for _, e := range entries {
			assert.False(t, e.IsDir())
			assert.True(t, strings.HasSuffix(e.Name(), ".sql"), e.Name())
		}
	})

	t.Run("every file carries goose annotations", func(t *testing.T) {
		t.Parallel()

		err := fs.WalkDir(authpg.Migrations, ".", func(path string, d fs.DirEntry, err error) error {
			require.NoError(t, err)
			if d.IsDir() {
				return nil
			}

			data, err := fs.ReadFile(authpg.Migrations, path)
			require.NoError(t, err)

			content := string(data)
			assert.Contains(t, content, "-- +goose Up", path)
			assert.Contains(t, content, "-- +goose Down", path)
			return nil
		})
		require.NoError(t, err)
	})
}
