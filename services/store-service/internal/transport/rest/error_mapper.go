// services/store-service/internal/transport/rest/error_mapper.go
package rest

import (
	stdErrors "errors"
	"net/http"

	domainErr "github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/domain/errors"
	"github.com/gin-gonic/gin"
)

// Domain errors → HTTP. Messages are fixed strings so driver or SQL details
// never reach the client; the full error is logged instead.
func statusFor(err error) (int, string) {
	switch {
	case stdErrors.Is(err, domainErr.ErrInvalidArgument):
		return http.StatusBadRequest, err.Error()
	case stdErrors.Is(err, domainErr.ErrNotFound):
		return http.StatusNotFound, "not found"
	case stdErrors.Is(err, domainErr.ErrDuplicateEmail):
		return http.StatusConflict, "email already exists"
	case stdErrors.Is(err, domainErr.ErrInsufficientStock):
		return http.StatusConflict, "insufficient stock"
	case stdErrors.Is(err, domainErr.ErrSaleAlreadyReversed):
		return http.StatusConflict, "sale already reversed"
	case stdErrors.Is(err, domainErr.ErrReferentialIntegrity):
		return http.StatusConflict, "still referenced by sell history"
	case stdErrors.Is(err, domainErr.ErrTransient):
		return http.StatusServiceUnavailable, "temporarily unavailable, retry later"
	}
	return http.StatusInternalServerError, "internal error"
}

func writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	} else {
		log.Debugf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": msg})
}
