package delete

import (
	"context"
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
	"github.com/aviralrabbit1/nextNotes/internal/storage"
	"github.com/aviralrabbit1/nextNotes/pkg/auth"
)

// noteDeleterMock deletes at most once, like the real storage: the second
// delete of the same id reports not found.
type noteDeleterMock struct {
	ownerID uuid.UUID
	noteID  uuid.UUID
	deleted bool
}

func (m *noteDeleterMock) DeleteNote(_ context.Context, ownerID, noteID uuid.UUID) error {
	if m.deleted || noteID != m.noteID || ownerID != m.ownerID {
		return storage.ErrNoteNotFound
	}
	m.deleted = true
	return nil
}

func newRouter(tm *auth.TokenManager, deleter *noteDeleterMock) chi.Router {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	router.Route("/notes", func(r chi.Router) {
		r.Use(JWTMiddleware.JWT(tm))
		r.Delete("/{id}", New(log, deleter))
	})
	return router
}

func doDelete(t *testing.T, router chi.Router, token, noteID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, "/notes/"+noteID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestDeleteNote(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Minute)
	ownerID := uuid.New()
	ownerToken, err := tm.GenerateToken(ownerID)
	require.NoError(t, err)
	strangerToken, err := tm.GenerateToken(uuid.New())
	require.NoError(t, err)

	noteID := uuid.New()

	t.Run("owner deletes, repeat is not found", func(t *testing.T) {
		deleter := &noteDeleterMock{ownerID: ownerID, noteID: noteID}
		router := newRouter(tm, deleter)

		rec := doDelete(t, router, ownerToken, noteID.String())
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		rec = doDelete(t, router, ownerToken, noteID.String())
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "not_found")
	})

	t.Run("other user's delete looks missing", func(t *testing.T) {
		deleter := &noteDeleterMock{ownerID: ownerID, noteID: noteID}
		router := newRouter(tm, deleter)

		rec := doDelete(t, router, strangerToken, noteID.String())
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, deleter.deleted)
	})

	t.Run("malformed id", func(t *testing.T) {
		deleter := &noteDeleterMock{ownerID: ownerID, noteID: noteID}
		rec := doDelete(t, newRouter(tm, deleter), ownerToken, "not-a-uuid")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
