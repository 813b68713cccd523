package save

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	JWTMiddleware "github.com/aviralrabbit1/nextNotes/internal/middleware"
	"github.com/aviralrabbit1/nextNotes/internal/models"
	"github.com/aviralrabbit1/nextNotes/pkg/auth"
)

type noteSaverMock struct {
	gotOwner uuid.UUID
}

func (m *noteSaverMock) SaveNote(_ context.Context, ownerID uuid.UUID, title, content string) (*models.Note, error) {
	m.gotOwner = ownerID
	now := time.Now()
	return &models.Note{
		ID:        uuid.New(),
		UserID:    ownerID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func newRouter(tm *auth.TokenManager, saver *noteSaverMock) chi.Router {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	router.Route("/notes", func(r chi.Router) {
		r.Use(JWTMiddleware.JWT(tm))
		r.Post("/", New(log, saver))
	})
	return router
}

func TestSaveNote_OwnerComesFromToken(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Minute)
	ownerID := uuid.New()
	token, err := tm.GenerateToken(ownerID)
	require.NoError(t, err)

	saver := &noteSaverMock{}
	router := newRouter(tm, saver)

	// The body tries to smuggle an owner; only title and content are read.
	body := `{"title":"T","content":"C","user_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, ownerID, saver.gotOwner)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "T", got["title"])
	assert.Equal(t, "C", got["content"])
	assert.NotEmpty(t, got["id"])
	assert.NotContains(t, got, "user_id")
}

func TestSaveNote_NoToken(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Minute)
	router := newRouter(tm, &noteSaverMock{})

	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewBufferString(`{"title":"T"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSaveNote_MissingTitle(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Minute)
	token, err := tm.GenerateToken(uuid.New())
	require.NoError(t, err)
	router := newRouter(tm, &noteSaverMock{})

	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewBufferString(`{"content":"C"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}
