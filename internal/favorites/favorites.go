package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SessionKey is the session entry the list is stored under.
const SessionKey = "ui-portal-favorites"

// Content types that can be bookmarked.
const (
	TypeArticle  = "article"
	TypeAnalysis = "analysis"
	TypePodcast  = "podcast"
	TypeModule   = "module"
)

// ErrInvalidItem is returned for an item without id or with an unknown type.
var ErrInvalidItem = errors.New("invalid favorite")

// Item is one bookmark.
type Item struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Title   string    `json:"title"`
	AddedAt time.Time `json:"addedAt"`
}

// Storage is where the encoded list lives. *scs.SessionManager satisfies it.
type Storage interface {
	GetBytes(ctx context.Context, key string) []byte
	Put(ctx context.Context, key string, val interface{})
}

// Store manages a visitor's favorites, most recent first.
type Store struct {
	storage Storage
	now     func() time.Time
}

// NewStore creates a Store over storage.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage, now: func() time.Time { return time.Now().UTC() }}
}

// ValidType reports whether t can be bookmarked.
func ValidType(t string) bool {
	switch t {
	case TypeArticle, TypeAnalysis, TypePodcast, TypeModule:
		return true
	}
	return false
}

func check(id, typ string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	if !ValidType(typ) {
		return fmt.Errorf("%w: type must be one of article, analysis, podcast, module", ErrInvalidItem)
	}
	return nil
}

// List returns the stored items, only those of typ when it is not empty.
// Unreadable stored data is treated as an empty list.
func (s *Store) List(ctx context.Context, typ string) []Item {
	items := s.load(ctx)
	if typ == "" {
		return items
	}
	out := []Item{}
	for _, it := range items {
		if it.Type == typ {
			out = append(out, it)
		}
	}
	return out
}

// Has reports whether (id, typ) is bookmarked.
func (s *Store) Has(ctx context.Context, id, typ string) bool {
	return indexOf(s.load(ctx), id, typ) >= 0
}

// Add prepends an item unless it is already present, and returns the list.
func (s *Store) Add(ctx context.Context, id, typ, title string) ([]Item, error) {
	if err := check(id, typ); err != nil {
		return nil, err
	}
	items := s.load(ctx)
	if indexOf(items, id, typ) >= 0 {
		return items, nil
	}
	items = append([]Item{{ID: id, Type: typ, Title: strings.TrimSpace(title), AddedAt: s.now()}}, items...)
	s.save(ctx, items)
	return items, nil
}

// Remove drops an item and returns the list.
func (s *Store) Remove(ctx context.Context, id, typ string) ([]Item, error) {
	if err := check(id, typ); err != nil {
		return nil, err
	}
	items := s.load(ctx)
	if i := indexOf(items, id, typ); i >= 0 {
		items = append(items[:i], items[i+1:]...)
		s.save(ctx, items)
	}
	return items, nil
}

// Toggle adds the item when missing and removes it otherwise. It returns the new state.
func (s *Store) Toggle(ctx context.Context, id, typ, title string) (bool, []Item, error) {
	if err := check(id, typ); err != nil {
		return false, nil, err
	}
	if s.Has(ctx, id, typ) {
		items, err := s.Remove(ctx, id, typ)
		return false, items, err
	}
	items, err := s.Add(ctx, id, typ, title)
	return true, items, err
}

// Clear empties the list.
func (s *Store) Clear(ctx context.Context) {
	s.save(ctx, []Item{})
}

func (s *Store) load(ctx context.Context) []Item {
	raw := s.storage.GetBytes(ctx, SessionKey)
	items := []Item{}
	if len(raw) == 0 {
		return items
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return []Item{}
	}
	return items
}

func (s *Store) save(ctx context.Context, items []Item) {
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	s.storage.Put(ctx, SessionKey, raw)
}

func indexOf(items []Item, id, typ string) int {
	for i, it := range items {
		if it.ID == id && it.Type == typ {
			return i
		}
	}
	return -1
}
