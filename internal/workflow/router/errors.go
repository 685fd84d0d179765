package router

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OpenMSDQ/msdq/internal/workflow/model"
)

// writeError maps domain errors to HTTP status codes. Business-rule
// rejections are 4xx and not logged as faults; anything unrecognized is an
// infrastructure failure.
func writeError(c *gin.Context, err error) {
	var (
		invalidTransition *model.InvalidTransitionError
		openQueries       *model.OpenQueriesRemainError
		invalidContext    *model.InvalidQueryContextError
		alreadyResolved   *model.AlreadyResolvedError
		duplicate         *model.DuplicateWorkflowError
		notFound          *model.NotFoundError
	)

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &invalidTransition),
		errors.As(err, &openQueries),
		errors.As(err, &invalidContext),
		errors.As(err, &alreadyResolved),
		errors.As(err, &duplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), "request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
