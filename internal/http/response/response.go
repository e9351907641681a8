package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anchorrisk/anchorrisk-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// AbortError writes the envelope and stops the handler chain.
func AbortError(c *gin.Context, status int, code string, err error) {
	RespondError(c, status, code, err)
	c.Abort()
}

// RespondFailure resolves err through apierr, falling back to 500/fallbackCode.
func RespondFailure(c *gin.Context, err error, fallbackCode string) {
	status, code, cause := apierr.Resolve(err, http.StatusInternalServerError, fallbackCode)
	RespondError(c, status, code, cause)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
