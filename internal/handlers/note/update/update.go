package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	JWTMiddleware "github.com/aviralrabbit1/nextNotes/internal/middleware"
	"github.com/aviralrabbit1/nextNotes/internal/models"
	"github.com/aviralrabbit1/nextNotes/internal/storage"
	"github.com/aviralrabbit1/nextNotes/pkg/api/response"
	"github.com/aviralrabbit1/nextNotes/pkg/logger/sl"
)

// Request fields are pointers so an absent field keeps its stored value.
// Only title and content are client-writable.
type Request struct {
	Title   *string `json:"title" validate:"omitempty,min=1"`
	Content *string `json:"content"`
}

type NoteUpdater interface {
	UpdateNote(ctx context.Context, ownerID, noteID uuid.UUID, title, content *string) (*models.Note, error)
}

func New(log *slog.Logger, noteUpdater NoteUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.update.New"
		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		ownerID, ok := JWTMiddleware.UserID(r.Context())
		if !ok {
			log.Error("unauthorized: no user id in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error(response.CodeUnauthenticated, "unauthenticated"))
			return
		}
		noteID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			log.Info("invalid note id", sl.Err(err))
			notFound(w, r)
			return
		}
		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.CodeBadRequest, "failed to decode request body"))
			return
		}
		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		note, err := noteUpdater.UpdateNote(r.Context(), ownerID, noteID, req.Title, req.Content)
		if errors.Is(err, storage.ErrNoteNotFound) {
			log.Info("note not found", slog.String("note_id", noteID.String()))
			notFound(w, r)
			return
		}
		if err != nil {
			log.Error("failed to update note", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.CodeInternal, "failed to update note"))
			return
		}

		log.Info("note successfully updated", slog.String("note_id", noteID.String()))
		render.JSON(w, r, note)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, response.Error(response.CodeNotFound, "note not found"))
}
