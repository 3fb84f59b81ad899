package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"comments-backend/application/commands"
	"comments-backend/application/commands/bus"
	"comments-backend/application/queries"
	querybus "comments-backend/application/queries/bus"
	"comments-backend/domain/core/entities"
	"comments-backend/pkg/auth"
	"comments-backend/pkg/common"
	pkgerrors "comments-backend/pkg/errors"
	"comments-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CommentHandler serves the comment thread endpoints
type CommentHandler struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	defaultSort  string
	actorID      string
	logger       *zap.Logger
}

// NewCommentHandler creates a new comment handler. actorID identifies
// requests that reach the handler without a resolved requester.
func NewCommentHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	defaultSort string,
	actorID string,
	logger *zap.Logger,
) *CommentHandler {
	return &CommentHandler{
		commandBus:   commandBus,
		queryBus:     queryBus,
		errorHandler: errorHandler,
		defaultSort:  defaultSort,
		actorID:      actorID,
		logger:       logger,
	}
}

// AddCommentRequest is the body of POST /comments
type AddCommentRequest struct {
	Body *string `json:"body" validate:"required"`
}

// ListComments handles GET /comments
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	sort := r.URL.Query().Get("sort")
	if sort == "" {
		sort = h.defaultSort
	}

	query := queries.ListCommentsQuery{
		Sort:        sort,
		RequesterID: h.requesterID(r),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, result)
}

// AddComment handles POST /comments
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req AddCommentRequest
	if err := common.ParseJSONBody(w, r, &req, common.DefaultMaxBodyBytes); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	result, err := h.commandBus.Send(r.Context(), commands.AddCommentCommand{Body: *req.Body})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	comment, ok := result.(*entities.Comment)
	if !ok {
		h.errorHandler.Handle(w, r, fmt.Errorf("unexpected add comment result %T", result))
		return
	}

	h.logger.Info("Comment added",
		zap.Int64("comment_id", comment.ID().Int64()),
		zap.String("author_id", comment.Author().ID()),
	)

	h.respond(w, http.StatusCreated, queries.NewCommentView(comment, h.requesterID(r)))
}

// RemoveComment handles DELETE /comments/{commentID}
func (h *CommentHandler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "commentID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.errorHandler.Handle(w, r,
			pkgerrors.NewValidationError(fmt.Sprintf("invalid comment id %q", raw)).
				WithDetail("commentID", raw))
		return
	}

	cmd := commands.RemoveCommentCommand{
		CommentID:   id,
		RequesterID: h.requesterID(r),
	}

	if _, err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondNoContent(w)
}

// GetSession handles GET /session
func (h *CommentHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetSessionQuery{})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, result)
}

func (h *CommentHandler) requesterID(r *http.Request) string {
	return auth.RequesterID(r.Context(), h.actorID)
}

func (h *CommentHandler) respond(w http.ResponseWriter, status int, data interface{}) {
	if err := common.RespondJSON(w, status, data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
