package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/credit_ledger/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps err onto a status code. Client errors echo the error text;
// server errors are logged and answered with fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}
