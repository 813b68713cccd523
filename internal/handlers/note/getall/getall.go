package getall

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	JWTMiddleware "github.com/aviralrabbit1/nextNotes/internal/middleware"
	"github.com/aviralrabbit1/nextNotes/internal/models"
	"github.com/aviralrabbit1/nextNotes/pkg/api/response"
	"github.com/aviralrabbit1/nextNotes/pkg/logger/sl"
)

type AllNoteGetter interface {
	GetAllNotes(ctx context.Context, ownerID uuid.UUID, limit, offset int, sort string) ([]models.Note, error)
}

func New(log *slog.Logger, allNoteGetter AllNoteGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.getall.New"

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

		// limit=0 means no pagination; default order is newest update first.
		limit := 0
		offset := 0
		sort := "desc"

		if l := r.URL.Query().Get("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v > 0 {
				limit = v
			}
		}
		if o := r.URL.Query().Get("offset"); o != "" {
			if v, err := strconv.Atoi(o); err == nil && v > 0 {
				offset = v
			}
		}
		if s := r.URL.Query().Get("sort"); s == "asc" {
			sort = "asc"
		}

		notes, err := allNoteGetter.GetAllNotes(r.Context(), ownerID, limit, offset, sort)
		if err != nil {
			log.Error("failed to get notes", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.CodeInternal, "failed to get notes"))
			return
		}

		log.Info("notes were delivered successfully", slog.Int("count", len(notes)))
		render.JSON(w, r, notes)
	}
}
