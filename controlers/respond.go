package controlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RayaSatriatama/dicoding-genai-backend/model"
)

// respondError maps domain errors to HTTP responses. NotFound and
// validation failures carry enough detail to retry correctly; storage and
// upstream failures are logged in full and reported opaquely.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrChatNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
	case errors.Is(err, model.ErrDocumentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
	case errors.Is(err, model.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, model.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "This email address is already registered."})
	case errors.Is(err, model.ErrUpstream):
		slog.Error("generation failed", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed, turn not recorded"})
	default:
		slog.Error("internal error", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error. Please try again later."})
	}
}
