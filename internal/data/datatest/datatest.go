// Package datatest provides an in-memory SQLite database carrying the portal schema, for tests.
package datatest

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Schema mirrors the MySQL migrations in SQLite dialect.
const Schema = `
CREATE TABLE articles (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	authors TEXT NOT NULL,
	journal_or_book TEXT NULL,
	year INTEGER NULL,
	summary TEXT NOT NULL,
	tags TEXT NOT NULL DEFAULT '',
	external_url TEXT NULL,
	image_url TEXT NULL,
	published BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE analyses (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	short_summary TEXT NOT NULL,
	content TEXT NOT NULL,
	author TEXT NOT NULL,
	reading_time_minutes INTEGER NOT NULL DEFAULT 0,
	categories TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '',
	published_at DATETIME NOT NULL,
	published BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE news_items (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	region TEXT NOT NULL,
	category TEXT NOT NULL,
	tags TEXT NOT NULL DEFAULT '',
	published_at DATETIME NOT NULL,
	related_analysis_id TEXT NULL REFERENCES analyses (id) ON DELETE SET NULL,
	source_url TEXT NULL,
	published BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE podcasts (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	duration_minutes INTEGER NOT NULL DEFAULT 0,
	topic TEXT NOT NULL,
	tags TEXT NOT NULL DEFAULT '',
	video_url TEXT NOT NULL,
	thumbnail_url TEXT NULL,
	published_at DATETIME NOT NULL,
	featured BOOLEAN NOT NULL DEFAULT 0,
	published BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE concepts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	short_definition TEXT NOT NULL,
	detailed_explanation TEXT NULL,
	related_theory TEXT NULL,
	published BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE resources (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	description TEXT NOT NULL,
	related_theory TEXT NULL,
	external_url TEXT NULL,
	published BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE learning_modules (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	short_description TEXT NOT NULL,
	learning_objectives TEXT NOT NULL DEFAULT '[]',
	key_concepts TEXT NOT NULL DEFAULT '[]',
	content TEXT NOT NULL,
	recommended_readings TEXT NOT NULL DEFAULT '[]',
	quiz_questions TEXT NOT NULL DEFAULT '[]',
	order_index INTEGER NOT NULL DEFAULT 0,
	published BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE admin_users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE sessions (
	token TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expiry REAL NOT NULL
);
CREATE INDEX sessions_expiry_idx ON sessions(expiry);
`

// NewDB opens a private in-memory database with the schema applied and closes it when t ends.
// The pool is pinned to one connection so every query sees the same memory database.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Failed to connect to sqlite test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	db.MustExec(Schema)

	t.Cleanup(func() {
		db.Close()
	})
	return db
}
