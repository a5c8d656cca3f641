package project

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"blueprint/internal/errors"
)

// Store keeps named projects in a local SQLite database.
type Store struct {
	db *sql.DB
}

// Entry describes one stored project.
type Entry struct {
	ID        string
	Name      string
	Size      int
	UpdatedAt time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	data       TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

// OpenStore opens (creating if needed) baseDir/projects.db.
func OpenStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	dsn := filepath.Join(baseDir, "projects.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores doc under name, replacing any previous version, and returns the
// project's id.
func (s *Store) Save(name string, doc *Document) (string, error) {
	if name == "" {
		return "", errors.NewInvalidFormat(fmt.Errorf("project name is required"))
	}
	data, err := Encode(doc)
	if err != nil {
		return "", fmt.Errorf("encode project: %w", err)
	}
	now := time.Now().UnixMilli()
	_, err = s.db.Exec(`
		INSERT INTO projects (id, name, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		uuid.NewString(), name, string(data), now, now)
	if err != nil {
		return "", fmt.Errorf("save project: %w", err)
	}
	var id string
	if err := s.db.QueryRow(`SELECT id FROM projects WHERE name = ?`, name).Scan(&id); err != nil {
		return "", fmt.Errorf("save project: %w", err)
	}
	return id, nil
}

// Load returns the project stored under name.
func (s *Store) Load(name string) (*Document, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM projects WHERE name = ?`, name).Scan(&data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFound("project", name)
	}
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	return Parse([]byte(data))
}

// List returns stored projects, most recently updated first.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(`SELECT id, name, length(data), updated_at FROM projects ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var updated int64
		if err := rows.Scan(&e.ID, &e.Name, &e.Size, &updated); err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		e.UpdatedAt = time.UnixMilli(updated)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes the project stored under name.
func (s *Store) Delete(name string) error {
	res, err := s.db.Exec(`DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFound("project", name)
	}
	return nil
}
