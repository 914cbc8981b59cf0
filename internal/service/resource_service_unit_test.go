//go:build unit

package service

import (
	"context"
	"errors"
	"ir-portal/internal/data"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResourceService(repo *mockResourceRepository) (*ResourceService, *countingInvalidator) {
	inv := &countingInvalidator{}
	s := NewResourceService(repo, inv)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	s.newID = func() string { return "r-new" }
	return s, inv
}

func TestResourceService_Create(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		repo := newMockResourceRepository()
		s, inv := newTestResourceService(repo)

		r, err := s.Create(context.Background(), ResourceInput{
			Name:          " Correlates of War ",
			Type:          "Data Source",
			Description:   "Conflict datasets since 1816.",
			RelatedTheory: ptr(" Realism "),
			ExternalURL:   ptr(""),
			Published:     true,
		})
		require.NoError(t, err)
		assert.Equal(t, "r-new", r.ID)
		assert.Equal(t, "Correlates of War", r.Name)
		assert.Equal(t, "Realism", *r.RelatedTheory)
		assert.Nil(t, r.ExternalURL)
		assert.Equal(t, r.CreatedAt, r.UpdatedAt)
		assert.Equal(t, 1, inv.calls)
	})

	t.Run("missing fields", func(t *testing.T) {
		testCases := []struct {
			in    ResourceInput
			field string
		}{
			{ResourceInput{Type: "Book", Description: "D"}, "name"},
			{ResourceInput{Name: "N", Type: " ", Description: "D"}, "type"},
			{ResourceInput{Name: "N", Type: "Book"}, "description"},
		}
		for _, tc := range testCases {
			repo := newMockResourceRepository()
			s, inv := newTestResourceService(repo)
			_, err := s.Create(context.Background(), tc.in)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), tc.field)
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, tc.field+" is required", verr.Message)
			assert.Empty(t, repo.items)
			assert.Zero(t, inv.calls)
		}
	})
}

func TestResourceService_ListAndGet(t *testing.T) {
	repo := newMockResourceRepository(
		&data.Resource{ID: "1", Type: "Book", Published: true},
		&data.Resource{ID: "2", Type: "Book"},
	)
	s, _ := newTestResourceService(repo)
	ctx := context.Background()

	page, err := s.List(ctx, ResourceQuery{Type: "Book ", RelatedTheory: " Constructivism"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, "Book", repo.lastFilter.Type)
	assert.Equal(t, "Constructivism", repo.lastFilter.RelatedTheory)

	_, err = s.Get(ctx, "2", false)
	assert.ErrorIs(t, err, ErrNotFound)
	r, err := s.Get(ctx, "2", true)
	require.NoError(t, err)
	assert.Equal(t, "2", r.ID)
}

func TestResourceService_UpdateAndDelete(t *testing.T) {
	repo := newMockResourceRepository(&data.Resource{ID: "1", Name: "Old", Type: "Book", RelatedTheory: ptr("Realism")})
	s, inv := newTestResourceService(repo)
	ctx := context.Background()
	in := ResourceInput{Name: "New", Type: "Tool", Description: "D"}

	r, err := s.Update(ctx, "1", in)
	require.NoError(t, err)
	assert.Equal(t, "Tool", r.Type)
	assert.Nil(t, r.RelatedTheory, "omitted optional fields are cleared")

	_, err = s.Update(ctx, "nope", in)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, "1"))
	assert.ErrorIs(t, s.Delete(ctx, "1"), ErrNotFound)
	assert.Equal(t, 2, inv.calls)
}
