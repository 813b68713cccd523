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

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aviralrabbit1/nextNotes/internal/models"
	"github.com/aviralrabbit1/nextNotes/internal/storage"
)

type userSaverMock struct {
	err error

	gotName  string
	gotEmail string
}

func (m *userSaverMock) SaveUser(_ context.Context, name, email, password string) (*models.User, error) {
	m.gotName = name
	m.gotEmail = email
	if m.err != nil {
		return nil, m.err
	}
	now := time.Now()
	return &models.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Password:  "$2a$10$secret-hash",
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doRequest(t *testing.T, saver *userSaverMock, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	New(discardLogger(), saver)(rec, req)
	return rec
}

func TestSaveUser_Success(t *testing.T) {
	saver := &userSaverMock{}
	rec := doRequest(t, saver, `{"name":"Alice","email":"alice@example.com","password":"secret123"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Alice", saver.gotName)
	assert.Equal(t, "alice@example.com", saver.gotEmail)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Alice", got["name"])
	assert.Equal(t, "alice@example.com", got["email"])
	assert.NotEmpty(t, got["id"])
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "secret-hash")
}

func TestSaveUser_DuplicateEmail(t *testing.T) {
	saver := &userSaverMock{err: storage.ErrUserExists}
	rec := doRequest(t, saver, `{"name":"Alice","email":"alice@example.com","password":"secret123"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "duplicate_email")
}

func TestSaveUser_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "missing name", body: `{"email":"alice@example.com","password":"secret123"}`},
		{name: "bad email", body: `{"name":"Alice","email":"not-an-email","password":"secret123"}`},
		{name: "short password", body: `{"name":"Alice","email":"alice@example.com","password":"abc"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, &userSaverMock{}, tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "validation_error")
		})
	}
}

func TestSaveUser_BadJSON(t *testing.T) {
	rec := doRequest(t, &userSaverMock{}, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad_request")
}
