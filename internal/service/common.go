package service

import (
	"context"
	"encoding/json"
	"errors"
	"ir-portal/internal/data"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
)

// ErrNotFound is returned for missing rows and for unpublished rows requested by anonymous callers.
var ErrNotFound = errors.New("not found")

// ValidationError describes bad input; handlers turn it into a 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Invalidator is told whenever content was written, so derived caches can be dropped.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) {}

// ListQuery carries the filters every listing accepts.
type ListQuery struct {
	// Admin callers may see unpublished rows.
	Admin bool
	// Published narrows admin listings; ignored for anonymous callers.
	Published  *bool
	Search     string
	Pagination Pagination
}

func (q ListQuery) options() data.ListOptions {
	published := data.OnlyPublished()
	if q.Admin {
		published = q.Published
	}
	return data.ListOptions{
		Published: published,
		Search:    strings.TrimSpace(q.Search),
		Offset:    q.Pagination.offset(),
		Limit:     q.Pagination.take(),
	}
}

// base holds what every content service needs.
type base struct {
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
	inv      Invalidator
}

func newBase(inv Invalidator) base {
	if inv == nil {
		inv = noopInvalidator{}
	}
	return base{
		validate: newValidator(),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
		inv:      inv,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so messages match what clients sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

func (b base) check(in interface{}) error {
	err := b.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return invalid(fe.Field(), describe(fe))
	}
	return err
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "url":
		return fe.Field() + " must be a valid URL"
	default:
		return fe.Field() + " is invalid"
	}
}

// translate maps repository not-found errors onto ErrNotFound.
func translate(err error) error {
	if errors.Is(err, data.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// nullable turns blank optional strings into NULL.
func nullable(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// orNow returns t, or now when t is unset.
func orNow(t *time.Time, now time.Time) time.Time {
	if t == nil || t.IsZero() {
		return now
	}
	return t.UTC()
}

// ParseList normalizes a tag-like field. Values stored as a JSON array are decoded;
// anything else is treated as comma separated. Blank entries are dropped.
func ParseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	out := []string{}
	if raw == "" {
		return out
	}
	if strings.HasPrefix(raw, "[") {
		var items []string
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			for _, it := range items {
				if it = strings.TrimSpace(it); it != "" {
					out = append(out, it)
				}
			}
			return out
		}
	}
	for _, it := range strings.Split(raw, ",") {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
