package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/aviralrabbit1/nextNotes/internal/models"
	"github.com/aviralrabbit1/nextNotes/internal/storage"
	"github.com/aviralrabbit1/nextNotes/internal/storage/postgres/migrations"
)

// uniqueViolation is the postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"
	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}
	if err := runMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("%s: migrations: %w", op, err)
	}

	return &Storage{
		db: db,
	}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *Storage) SaveUser(ctx context.Context, name, email, password string) (*models.User, error) {
	const op = "storage.postgres.SaveUser"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%s: hash password: %w", op, err)
	}
	u := models.User{ID: uuid.New(), Name: name, Email: email}
	err = s.db.QueryRowContext(ctx,
		"INSERT INTO users(id, name, email, password) VALUES($1, $2, $3, $4) RETURNING created_at, updated_at",
		u.ID, name, email, string(hashedPassword),
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, storage.ErrUserExists
		}
		return nil, fmt.Errorf("%s: insert user: %w", op, err)
	}

	return &u, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgres.GetUserByEmail"

	var u models.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password, created_at, updated_at FROM users WHERE email=$1",
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}
	return &u, nil
}

func (s *Storage) SaveNote(ctx context.Context, ownerID uuid.UUID, title, content string) (*models.Note, error) {
	const op = "storage.postgres.SaveNote"
	n := models.Note{ID: uuid.New(), UserID: ownerID, Title: title, Content: content}
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO notes(id, user_id, title, content) VALUES($1, $2, $3, $4) RETURNING created_at, updated_at",
		n.ID, ownerID, title, content,
	).Scan(&n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: insert note: %w", op, err)
	}
	return &n, nil
}

// GetNote filters by owner in the query itself: a note that exists but
// belongs to someone else is indistinguishable from a missing one.
func (s *Storage) GetNote(ctx context.Context, ownerID, noteID uuid.UUID) (*models.Note, error) {
	const op = "storage.postgres.GetNote"

	var n models.Note
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, title, content, created_at, updated_at FROM notes WHERE id=$1 AND user_id=$2",
		noteID, ownerID,
	).Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}
	return &n, nil
}

func (s *Storage) GetAllNotes(ctx context.Context, ownerID uuid.UUID, limit, offset int, sort string) ([]models.Note, error) {
	const op = "storage.postgres.GetAllNotes"
	if sort != "asc" && sort != "desc" {
		sort = "desc"
	}
	query := "SELECT id, user_id, title, content, created_at, updated_at FROM notes WHERE user_id = $1 ORDER BY updated_at " + sort
	args := []any{ownerID}
	if limit > 0 {
		query += " LIMIT $2 OFFSET $3"
		args = append(args, limit, offset)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	notes := make([]models.Note, 0)
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return notes, nil
}

// UpdateNote mutates title and content only; nil fields keep their stored
// value. A single scoped statement keeps the owner check and the write atomic.
func (s *Storage) UpdateNote(ctx context.Context, ownerID, noteID uuid.UUID, title, content *string) (*models.Note, error) {
	const op = "storage.postgres.UpdateNote"

	n := models.Note{ID: noteID, UserID: ownerID}
	err := s.db.QueryRowContext(ctx,
		`UPDATE notes
		 SET title = COALESCE($3, title), content = COALESCE($4, content), updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING title, content, created_at, updated_at`,
		noteID, ownerID, title, content,
	).Scan(&n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: update: %w", op, err)
	}
	return &n, nil
}

func (s *Storage) DeleteNote(ctx context.Context, ownerID, noteID uuid.UUID) error {
	const op = "storage.postgres.DeleteNote"
	res, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = $1 AND user_id = $2", noteID, ownerID)
	if err != nil {
		return fmt.Errorf("%s: delete exec: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if affected == 0 {
		return storage.ErrNoteNotFound
	}
	return nil
}
