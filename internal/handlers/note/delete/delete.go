package delete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	JWTMiddleware "github.com/aviralrabbit1/nextNotes/internal/middleware"
	"github.com/aviralrabbit1/nextNotes/internal/storage"
	"github.com/aviralrabbit1/nextNotes/pkg/api/response"
	"github.com/aviralrabbit1/nextNotes/pkg/logger/sl"
)

type NoteDeleter interface {
	DeleteNote(ctx context.Context, ownerID, noteID uuid.UUID) error
}

func New(log *slog.Logger, noteDeleter NoteDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.delete.New"

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

		err = noteDeleter.DeleteNote(r.Context(), ownerID, noteID)
		if errors.Is(err, storage.ErrNoteNotFound) {
			// Deleting twice stays a 404: failure is idempotent, not success.
			log.Info("note not found", slog.String("note_id", noteID.String()))
			notFound(w, r)
			return
		}
		if err != nil {
			log.Error("failed to delete note", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.CodeInternal, "failed to delete note"))
			return
		}

		log.Info("note successfully deleted", slog.String("note_id", noteID.String()))
		render.NoContent(w, r)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, response.Error(response.CodeNotFound, "note not found"))
}
