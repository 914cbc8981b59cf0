//go:build unit

package favorites

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStorage stands in for the session.
type memStorage struct {
	values map[string]interface{}
}

var _ Storage = (*memStorage)(nil)

func newMemStorage() *memStorage {
	return &memStorage{values: map[string]interface{}{}}
}

func (m *memStorage) GetBytes(ctx context.Context, key string) []byte {
	b, _ := m.values[key].([]byte)
	return b
}

func (m *memStorage) Put(ctx context.Context, key string, val interface{}) {
	m.values[key] = val
}

func TestStore_AddDedupesAndPrepends(t *testing.T) {
	s := NewStore(newMemStorage())
	ctx := context.Background()

	_, err := s.Add(ctx, "a1", TypeArticle, "First")
	require.NoError(t, err)
	_, err = s.Add(ctx, "p1", TypePodcast, "Second")
	require.NoError(t, err)
	items, err := s.Add(ctx, "a1", TypeArticle, "First again")
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ID, "newest first")
	assert.Equal(t, "First", items[1].Title)

	assert.Len(t, s.List(ctx, TypeArticle), 1)
	assert.Empty(t, s.List(ctx, TypeModule))
}

func TestStore_SameIDDifferentType(t *testing.T) {
	s := NewStore(newMemStorage())
	ctx := context.Background()

	_, _ = s.Add(ctx, "x", TypeArticle, "")
	items, _ := s.Add(ctx, "x", TypeAnalysis, "")
	assert.Len(t, items, 2)
}

func TestStore_ToggleTwiceRestores(t *testing.T) {
	s := NewStore(newMemStorage())
	ctx := context.Background()
	_, _ = s.Add(ctx, "m1", TypeModule, "Realism")
	before := s.List(ctx, "")

	added, _, err := s.Toggle(ctx, "an1", TypeAnalysis, "Deterrence")
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, s.Has(ctx, "an1", TypeAnalysis))

	added, items, err := s.Toggle(ctx, "an1", TypeAnalysis, "Deterrence")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, before, items)
}

func TestStore_PersistsAcrossReload(t *testing.T) {
	storage := newMemStorage()
	ctx := context.Background()
	first := NewStore(storage)
	first.now = func() time.Time { return time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC) }
	_, _ = first.Add(ctx, "a1", TypeArticle, "Kept")

	reloaded := NewStore(storage)
	items := reloaded.List(ctx, "")
	require.Len(t, items, 1)
	assert.Equal(t, "Kept", items[0].Title)
	assert.True(t, items[0].AddedAt.Equal(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)))

	reloaded.Clear(ctx)
	assert.Empty(t, NewStore(storage).List(ctx, ""))
}

func TestStore_RemoveAndValidation(t *testing.T) {
	s := NewStore(newMemStorage())
	ctx := context.Background()
	_, _ = s.Add(ctx, "a1", TypeArticle, "")

	items, err := s.Remove(ctx, "a1", TypeArticle)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = s.Add(ctx, "a1", "concept", "")
	assert.True(t, errors.Is(err, ErrInvalidItem))
	_, err = s.Add(ctx, " ", TypeArticle, "")
	assert.True(t, errors.Is(err, ErrInvalidItem))
	_, _, err = s.Toggle(ctx, "a1", "", "")
	assert.True(t, errors.Is(err, ErrInvalidItem))
}

func TestStore_CorruptDataReadsEmpty(t *testing.T) {
	storage := newMemStorage()
	storage.values[SessionKey] = []byte("{not json")
	s := NewStore(storage)

	assert.Empty(t, s.List(context.Background(), ""))
	items, err := s.Add(context.Background(), "a1", TypeArticle, "")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
