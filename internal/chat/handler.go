package chat

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kb-backend/internal/llm"
	"kb-backend/internal/retrieval"
	"kb-backend/internal/shared/server/middleware"
	"kb-backend/internal/shared/server/respond"
)

// Handler wires the chat endpoint to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches chat routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, extra ...gin.HandlerFunc) {
	handlers := append([]gin.HandlerFunc{}, extra...)
	handlers = append(handlers, h.chat)
	rg.POST("/chat", handlers...)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (h *Handler) chat(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "message is required", nil)
		return
	}

	answer, err := h.Svc.Ask(c.Request.Context(), userID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, llm.ErrEmbeddingUnavailable), errors.Is(err, llm.ErrCompletionUnavailable):
			code, message := ClassifyFailure(err)
			respond.Error(c, http.StatusBadGateway, code, message, nil)
		case errors.Is(err, retrieval.ErrDimensionMismatch):
			respond.Error(c, http.StatusInternalServerError, "internal_error", "stored embeddings are inconsistent", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate response", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, chatResponse{Response: answer})
}
