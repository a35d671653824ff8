package serializer

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// Response is the envelope for failures and message-only successes.
type Response struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Err builds a failure response. Error detail is attached only outside
// release mode.
func Err(msg string, err error) Response {
	res := Response{Message: msg}
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Error = fmt.Sprintf("%+v", err)
	}
	return res
}

// ParamErr -> 400
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "invalid request"
	}
	return Err(msg, err)
}

// AuthErr -> 401
func AuthErr(msg string) Response {
	if msg == "" {
		msg = "unauthorized"
	}
	return Err(msg, nil)
}

// NotFoundErr -> 404. Absent and not-owned resources share one message so
// existence is never leaked.
func NotFoundErr(msg string) Response {
	if msg == "" {
		msg = "resource not found"
	}
	return Err(msg, nil)
}

// DBErr -> 500
func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "server error"
	}
	return Err(msg, err)
}
