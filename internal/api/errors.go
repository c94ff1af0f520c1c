package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vecdb-go/internal/apierr"
)

// statusForKind maps an apierr.Kind onto its HTTP status.
func statusForKind(kind apierr.Kind) int {
	switch kind {
	case apierr.KindInvalidArgument:
		return http.StatusBadRequest
	case apierr.KindNotFound:
		return http.StatusNotFound
	case apierr.KindConflict:
		return http.StatusConflict
	case apierr.KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case apierr.KindResourceExhausted:
		return http.StatusTooManyRequests
	case apierr.KindFailedPrecondition:
		return http.StatusPreconditionFailed
	case apierr.KindRequestTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err *apierr.Error) {
	c.JSON(statusForKind(err.Kind), gin.H{"error": err.Message, "kind": err.Kind})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": apierr.KindInvalidArgument})
}
