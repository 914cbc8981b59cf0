package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"ir-portal/internal/data"
	"regexp"
	"strings"
	"time"
)

// ModuleRepository defines the interface for database operations on learning modules.
type ModuleRepository interface {
	Create(ctx context.Context, m *data.LearningModule) error
	GetByID(ctx context.Context, id string) (*data.LearningModule, error)
	GetBySlug(ctx context.Context, slug string) (*data.LearningModule, error)
	SlugTaken(ctx context.Context, slug, exceptID string) (bool, error)
	Update(ctx context.Context, m *data.LearningModule) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, o data.ListOptions) ([]*data.LearningModule, int, error)
	Search(ctx context.Context, term string, limit int) ([]*data.LearningModule, error)
}

// JSONList holds a JSON array. Clients may send the array itself or a string containing it.
type JSONList string

func (l *JSONList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = JSONList(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*l = ""
		return nil
	}
	*l = JSONList(b)
	return nil
}

// QuizQuestion is one multiple-choice question of a module.
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// RecommendedReading is a further-reading entry of a module.
type RecommendedReading struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url,omitempty"`
}

// ModuleInput is the writable shape of a learning module.
type ModuleInput struct {
	Title               string   `json:"title" validate:"notblank"`
	Slug                string   `json:"slug"`
	ShortDescription    string   `json:"shortDescription" validate:"notblank"`
	LearningObjectives  JSONList `json:"learningObjectives"`
	KeyConcepts         JSONList `json:"keyConcepts"`
	Content             string   `json:"content" validate:"notblank"`
	RecommendedReadings JSONList `json:"recommendedReadings"`
	QuizQuestions       JSONList `json:"quizQuestions"`
	OrderIndex          int      `json:"orderIndex"`
	Published           bool     `json:"published"`
}

// ModuleService provides business logic for learning modules.
type ModuleService struct {
	base
	repo     ModuleRepository
	renderer *Renderer
}

// NewModuleService creates a new ModuleService.
func NewModuleService(repo ModuleRepository, renderer *Renderer, inv Invalidator) *ModuleService {
	return &ModuleService{base: newBase(inv), repo: repo, renderer: renderer}
}

func (s *ModuleService) List(ctx context.Context, q ListQuery) (*Page[data.LearningModule], error) {
	items, total, err := s.repo.List(ctx, q.options())
	if err != nil {
		return nil, err
	}
	return newPage(items, total, q.Pagination), nil
}

// Get looks a module up by slug first and by id second.
func (s *ModuleService) Get(ctx context.Context, slugOrID string, admin bool) (*data.LearningModule, error) {
	m, err := s.repo.GetBySlug(ctx, slugOrID)
	if errors.Is(err, data.ErrNotFound) {
		m, err = s.repo.GetByID(ctx, slugOrID)
	}
	if err != nil {
		return nil, translate(err)
	}
	if !m.Published && !admin {
		return nil, ErrNotFound
	}
	if err := s.render(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ModuleService) Create(ctx context.Context, in ModuleInput) (*data.LearningModule, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	now := s.now()
	m := &data.LearningModule{ID: s.newID(), CreatedAt: now}
	if err := s.apply(ctx, m, in, now); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.inv.Invalidate(ctx)
	if err := s.render(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ModuleService) Update(ctx context.Context, id string, in ModuleInput) (*data.LearningModule, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if err := s.apply(ctx, m, in, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, translate(err)
	}
	s.inv.Invalidate(ctx)
	if err := s.render(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ModuleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.inv.Invalidate(ctx)
	return nil
}

// apply copies in onto m, deriving the slug when none was given and checking the JSON fields.
func (s *ModuleService) apply(ctx context.Context, m *data.LearningModule, in ModuleInput, now time.Time) error {
	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(in.Title)
	}
	if slug == "" {
		return invalid("slug", "slug could not be derived from the title")
	}
	taken, err := s.repo.SlugTaken(ctx, slug, m.ID)
	if err != nil {
		return err
	}
	if taken {
		return invalid("slug", fmt.Sprintf("slug %q is already in use", slug))
	}

	objectives, err := stringArray("learningObjectives", in.LearningObjectives)
	if err != nil {
		return err
	}
	concepts, err := stringArray("keyConcepts", in.KeyConcepts)
	if err != nil {
		return err
	}
	readings, err := readingArray(in.RecommendedReadings)
	if err != nil {
		return err
	}
	quiz, err := quizArray(in.QuizQuestions)
	if err != nil {
		return err
	}

	m.Title = strings.TrimSpace(in.Title)
	m.Slug = slug
	m.ShortDescription = in.ShortDescription
	m.LearningObjectives = objectives
	m.KeyConcepts = concepts
	m.Content = in.Content
	m.RecommendedReadings = readings
	m.QuizQuestions = quiz
	m.OrderIndex = in.OrderIndex
	m.Published = in.Published
	m.UpdatedAt = now
	return nil
}

func (s *ModuleService) render(m *data.LearningModule) error {
	if s.renderer == nil {
		return nil
	}
	html, err := s.renderer.Render(m.Content)
	if err != nil {
		return err
	}
	m.ContentHTML = html
	return nil
}

// decodeArray unmarshals raw into dest, treating an empty value as an empty array.
func decodeArray(field string, raw JSONList, dest interface{}) error {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		text = "[]"
	}
	if err := json.Unmarshal([]byte(text), dest); err != nil {
		return invalid(field, field+" must be a JSON array")
	}
	return nil
}

func encodeArray(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func stringArray(field string, raw JSONList) (string, error) {
	items := []string{}
	if err := decodeArray(field, raw, &items); err != nil {
		return "", err
	}
	return encodeArray(items)
}

func readingArray(raw JSONList) (string, error) {
	items := []RecommendedReading{}
	if err := decodeArray("recommendedReadings", raw, &items); err != nil {
		return "", err
	}
	for i, r := range items {
		if strings.TrimSpace(r.Title) == "" {
			return "", invalid("recommendedReadings", fmt.Sprintf("recommendedReadings[%d] needs a title", i))
		}
	}
	return encodeArray(items)
}

func quizArray(raw JSONList) (string, error) {
	items := []QuizQuestion{}
	if err := decodeArray("quizQuestions", raw, &items); err != nil {
		return "", err
	}
	for i, q := range items {
		switch {
		case strings.TrimSpace(q.Question) == "":
			return "", invalid("quizQuestions", fmt.Sprintf("quizQuestions[%d] needs a question", i))
		case len(q.Options) < 2:
			return "", invalid("quizQuestions", fmt.Sprintf("quizQuestions[%d] needs at least two options", i))
		case q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options):
			return "", invalid("quizQuestions", fmt.Sprintf("quizQuestions[%d] has an out of range correctIndex", i))
		}
	}
	return encodeArray(items)
}

var (
	slugFolder  = strings.NewReplacer("ç", "c", "ğ", "g", "ı", "i", "ö", "o", "ş", "s", "ü", "u", "Ç", "c", "Ğ", "g", "İ", "i", "Ö", "o", "Ş", "s", "Ü", "u")
	slugInvalid = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// Slugify makes a URL slug, folding Turkish letters to ASCII.
func Slugify(text string) string {
	s := strings.ToLower(slugFolder.Replace(strings.TrimSpace(text)))
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
