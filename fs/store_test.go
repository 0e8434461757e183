package fs_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/podmirror"
	"github.com/fwojciec/podmirror/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		url    string
		asFile bool
		want   string
	}{
		{
			name: "simple path",
			url:  "http://localhost:8000/indexes/name",
			want: "indexes/name.jsonld",
		},
		{
			name: "trailing slash becomes directory index",
			url:  "http://localhost:8000/indexes/",
			want: "indexes/index.jsonld",
		},
		{
			name: "server root",
			url:  "http://localhost:8000/",
			want: "index.jsonld",
		},
		{
			name:   "file-addressed trims trailing slash",
			url:    "http://localhost:8000/indexes/name/full/",
			asFile: true,
			want:   "indexes/name/full.jsonld",
		},
		{
			name:   "file-addressed simple path",
			url:    "http://localhost:8000/indexes/name/full",
			asFile: true,
			want:   "indexes/name/full.jsonld",
		},
		{
			name:   "file-addressed server root",
			url:    "http://localhost:8000/",
			asFile: true,
			want:   "index.jsonld",
		},
		{
			name: "ignores query string",
			url:  "http://localhost:8000/indexes/name?page=2",
			want: "indexes/name.jsonld",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url, tt.asFile)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore(t *testing.T) {
	t.Parallel()

	t.Run("write then read round trip", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(t.TempDir())
		doc := &podmirror.Document{
			Context:   json.RawMessage(`{"ex": "http://example.org/terms#"}`),
			ID:        "http://localhost:8000/indexes/name/full",
			Type:      podmirror.TypePropertyIndex,
			Instances: []string{"http://localhost:8000/people/1"},
		}

		err := store.Write(context.Background(), "http://localhost:8000/indexes/name/full", doc, true)
		require.NoError(t, err)

		got, err := store.Read(context.Background(), "http://localhost:8000/indexes/name/full")
		require.NoError(t, err)
		assert.Equal(t, doc.ID, got.ID)
		assert.Equal(t, doc.Type, got.Type)
		assert.Equal(t, doc.Instances, got.Instances)
		assert.JSONEq(t, string(doc.Context), string(got.Context))
	})

	t.Run("read of unstored key returns ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(t.TempDir())

		_, err := store.Read(context.Background(), "http://localhost:8000/indexes/missing")
		require.Error(t, err)
		assert.Equal(t, podmirror.ENOTFOUND, podmirror.ErrorCode(err))
	})

	t.Run("malformed stored bytes return EINVALID", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "indexes"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "indexes", "bad.jsonld"), []byte("{truncated"), 0644))

		store := fs.NewStore(dir)

		_, err := store.Read(context.Background(), "http://localhost:8000/indexes/bad")
		require.Error(t, err)
		assert.Equal(t, podmirror.EINVALID, podmirror.ErrorCode(err))
	})

	t.Run("container write mirrors directory structure", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewStore(dir)
		doc := &podmirror.Document{ID: "http://localhost:8000/indexes/", Type: podmirror.TypeIndex}

		err := store.Write(context.Background(), "http://localhost:8000/indexes/", doc, false)
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(dir, "indexes", "index.jsonld"))
	})

	t.Run("overwrite replaces previous version", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStore(t.TempDir())
		key := "http://localhost:8000/indexes/name/full"

		first := &podmirror.Document{ID: key, Instances: []string{"A"}}
		require.NoError(t, store.Write(context.Background(), key, first, true))

		second := &podmirror.Document{ID: key, Instances: []string{"B"}}
		require.NoError(t, store.Write(context.Background(), key, second, true))

		got, err := store.Read(context.Background(), key)
		require.NoError(t, err)
		assert.Equal(t, []string{"B"}, got.Instances)
	})
}

func TestWriteSnapshot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out", "aggregated.json")

	snap := podmirror.NewSnapshot()
	snap.Indexes["http://localhost:8000/indexes/"] = &podmirror.Document{
		ID:   "http://localhost:8000/indexes/",
		Type: podmirror.TypeIndex,
	}

	require.NoError(t, fs.WriteSnapshot(path, snap))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		Indexes map[string]*podmirror.Document `json:"indexes"`
		Users   []string                       `json:"users"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Len(t, decoded.Indexes, 1)
	assert.NotNil(t, decoded.Users)
	assert.Empty(t, decoded.Users)
}
