package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/blox/internal/block"
)

func openStore(t *testing.T) *PageStore {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "blox.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPageStore(db)
}

func ptr(s string) *string { return &s }

func TestSaveLoadKeepsOrderAndNullParents(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	records := []block.Record{
		{ID: "z", Type: "Box"},
		{ID: "a", ParentID: ptr("z"), Type: "Text", Properties: map[string]any{"content": "hi"}},
		{ID: "m", ParentID: ptr("z"), Type: "Box", Name: "Inner", LibraryBlockID: "lib-1"},
	}

	require.NoError(t, s.Save(ctx, "home", "Home", records))
	got, err := s.Load(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestSaveReplacesSnapshot(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "p", "P", []block.Record{{ID: "a", Type: "Box"}, {ID: "b", Type: "Box"}}))
	require.NoError(t, s.Save(ctx, "p", "P2", []block.Record{{ID: "b", Type: "Box"}}))

	got, err := s.Load(ctx, "p")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	pages, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "P2", pages[0].Name)
	assert.Equal(t, 1, pages[0].Blocks)
}

func TestLoadUnknownPage(t *testing.T) {
	s := openStore(t)
	_, err := s.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestEmptyPageLoadsEmpty(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "empty", "", nil))
	got, err := s.Load(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDelete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "p", "P", []block.Record{{ID: "a", Type: "Box"}}))
	require.NoError(t, s.Delete(ctx, "p"))
	_, err := s.Load(ctx, "p")
	assert.ErrorIs(t, err, ErrPageNotFound)
}
