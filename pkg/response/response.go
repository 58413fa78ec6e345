package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"KidFlex/pkg/errors"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Details map[string]interface{} `json:"details,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
}

// SuccessResponse is the uniform success envelope.
type SuccessResponse struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

func asDefinition(err error) (errors.Definition, bool) {
	switch e := err.(type) {
	case errors.Definition:
		return e, true
	case *errors.Definition:
		return *e, true
	default:
		return errors.Definition{}, false
	}
}

func errorToHTTPStatus(err error) int {
	def, ok := asDefinition(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch def.Code {
	case "TOO_MANY_REQUESTS":
		return http.StatusTooManyRequests
	case "UNAUTHORIZED", "INVALID_TOKEN":
		return http.StatusUnauthorized
	case "INVALID_REQUEST", "INVALID_PARTICIPANT", "INVALID_DAY", "FLEX_AT_MAX":
		return http.StatusBadRequest
	case "FLEX_ENTRY_NOT_FOUND", "NO_WEEK_DATA":
		return http.StatusNotFound
	case "VOTING_LOCKED":
		return http.StatusConflict
	case "STORE_UNAVAILABLE":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error writes the error envelope with the mapped HTTP status.
func Error(ctx context.Context, c *app.RequestContext, err error) {
	ErrorWithDetails(ctx, c, err, nil)
}

func ErrorWithDetails(ctx context.Context, c *app.RequestContext, err error, details map[string]interface{}) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	if def, ok := asDefinition(err); ok {
		code = def.Code
		message = def.Message
	} else {
		code = "INTERNAL_ERROR"
		message = err.Error()
	}

	c.JSON(statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
	})
}

func SuccessWithMeta(ctx context.Context, c *app.RequestContext, data interface{}, meta map[string]interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}
