package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a row addressed by id, slug or email does not exist.
var ErrNotFound = errors.New("record not found")

// ListOptions are the filters shared by every content listing.
type ListOptions struct {
	// Published restricts rows to the given flag; nil returns both.
	Published *bool
	Search    string
	Tag       string
	Offset    int
	// Limit of 0 returns every matching row.
	Limit int
	// NewestFirst orders by creation time instead of the listing's usual order.
	NewestFirst bool
}

// OnlyPublished returns a pointer to true, for ListOptions.Published.
func OnlyPublished() *bool {
	t := true
	return &t
}

// conditions accumulates AND-ed WHERE clauses and their bind arguments.
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(clause string, args ...interface{}) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, args...)
}

func (c *conditions) published(p *bool) {
	if p != nil {
		c.add("published = ?", *p)
	}
}

func (c *conditions) equals(column, value string) {
	if value != "" {
		c.add(column+" = ?", value)
	}
}

func (c *conditions) contains(column, term string) {
	if term != "" {
		c.anyContains([]string{column}, term)
	}
}

// anyContains matches rows where at least one column contains term, ignoring case.
func (c *conditions) anyContains(columns []string, term string) {
	if term == "" || len(columns) == 0 {
		return
	}
	pattern := likePattern(term)
	parts := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		parts[i] = "LOWER(" + col + ") LIKE ? ESCAPE '!'"
		args[i] = pattern
	}
	c.add("("+strings.Join(parts, " OR ")+")", args...)
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// likePattern lower-cases term and escapes LIKE wildcards with '!'.
func likePattern(term string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

func (o ListOptions) apply(c *conditions, searchColumns []string) {
	c.published(o.Published)
	c.anyContains(searchColumns, o.Search)
	c.contains("tags", o.Tag)
}

// orderBy is def unless the caller asked for the newest rows first.
func (o ListOptions) orderBy(def string) string {
	if o.NewestFirst {
		return "created_at DESC"
	}
	return def
}

// selectPage runs a COUNT over the filtered rows followed by the paged SELECT.
func selectPage[T any](ctx context.Context, db *sqlx.DB, table, columns, orderBy string, c *conditions, offset, limit int) ([]*T, int, error) {
	var total int
	countQuery := "SELECT COUNT(*) FROM " + table + c.where()
	if err := db.GetContext(ctx, &total, countQuery, c.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", table, err)
	}

	query := "SELECT " + columns + " FROM " + table + c.where() + " ORDER BY " + orderBy
	args := append([]interface{}{}, c.args...)
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	items := []*T{}
	if err := db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", table, err)
	}
	return items, total, nil
}

// getOne loads a single row into dest, mapping sql.ErrNoRows to ErrNotFound.
func getOne(ctx context.Context, db *sqlx.DB, dest interface{}, query string, args ...interface{}) error {
	if err := db.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// execAffecting runs a named statement and reports ErrNotFound when no row matched.
func execAffecting(ctx context.Context, db *sqlx.DB, query string, arg interface{}) error {
	result, err := db.NamedExecContext(ctx, query, arg)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// deleteByID removes one row from table.
func deleteByID(ctx context.Context, db *sqlx.DB, table, id string) error {
	result, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
