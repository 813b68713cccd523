package save

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	JWTMiddleware "github.com/aviralrabbit1/nextNotes/internal/middleware"
	"github.com/aviralrabbit1/nextNotes/internal/models"
	"github.com/aviralrabbit1/nextNotes/pkg/api/response"
	"github.com/aviralrabbit1/nextNotes/pkg/logger/sl"
)

// Request carries no owner field: the owner is always the authenticated user.
type Request struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

type NoteSaver interface {
	SaveNote(ctx context.Context, ownerID uuid.UUID, title, content string) (*models.Note, error)
}

func New(log *slog.Logger, noteSaver NoteSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.note.save.New"
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
		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(response.CodeBadRequest, "failed to decode request"))
			return
		}
		log.Info("decoded request", slog.Any("request", req))
		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		note, err := noteSaver.SaveNote(r.Context(), ownerID, req.Title, req.Content)
		if err != nil {
			log.Error("failed to create note", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.CodeInternal, "failed to create note"))
			return
		}
		log.Info("note successfully created", slog.String("title", req.Title))
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, note)
	}
}
