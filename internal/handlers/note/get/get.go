package get

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
	"github.com/aviralrabbit1/nextNotes/internal/models"
	"github.com/aviralrabbit1/nextNotes/internal/storage"
	"github.com/aviralrabbit1/nextNotes/pkg/api/response"
	"github.com/aviralrabbit1/nextNotes/pkg/logger/sl"
)

type NoteGetter interface {
	GetNote(ctx context.Context, ownerID, noteID uuid.UUID) (*models.Note, error)
}

func New(log *slog.Logger, noteGetter NoteGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.get.New"

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
			// Malformed ids get the same answer as missing ones.
			log.Info("invalid note id", sl.Err(err))
			notFound(w, r)
			return
		}

		note, err := noteGetter.GetNote(r.Context(), ownerID, noteID)
		if errors.Is(err, storage.ErrNoteNotFound) {
			log.Info("note not found", slog.String("note_id", noteID.String()))
			notFound(w, r)
			return
		}
		if err != nil {
			log.Error("failed to get note", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.CodeInternal, "failed to get note"))
			return
		}

		log.Info("note was delivered successfully", slog.String("note_id", noteID.String()))
		render.JSON(w, r, note)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, response.Error(response.CodeNotFound, "note not found"))
}
