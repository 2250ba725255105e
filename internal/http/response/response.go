package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/landcontract-backend/internal/platform/apierr"
	"github.com/yungbote/landcontract-backend/internal/platform/ctxutil"
)

const errorCodeKey = "response.error_code"

type APIError struct {
	Message   string   `json:"message"`
	Code      string   `json:"code,omitempty"`
	Fields    []string `json:"fields,omitempty"`
	RequestID string   `json:"requestId,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	respond(c, status, code, nil, err)
}

func respond(c *gin.Context, status int, code string, fields []string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	if code != "" {
		c.Set(errorCodeKey, code)
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message:   msg,
			Code:      code,
			Fields:    fields,
			RequestID: requestID(c),
		},
	})
}

func requestID(c *gin.Context) string {
	if c.Request == nil {
		return ""
	}
	return ctxutil.RequestID(c.Request.Context())
}

// RespondErr derives status and code from err.
func RespondErr(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "internal", nil)
	}
	_ = c.Error(err)
	respond(c, ae.Status, ae.Code, ae.Fields, ae.Err)
}

// AbortErr is RespondErr for middleware.
func AbortErr(c *gin.Context, err error) {
	RespondErr(c, err)
	c.Abort()
}

// ErrorCode is the envelope code written for this request, if any.
func ErrorCode(c *gin.Context) string {
	return c.GetString(errorCodeKey)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
