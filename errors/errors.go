package errors

import (
	"fmt"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error carries the HTTP status a failure should surface with. Every
// recoverable domain failure is one of these; anything else is a 500.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(message string, status int) *Error {
	return &Error{Message: message, Status: status}
}

var (
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
)

// ValidationError flags malformed input, e.g. message content that
// trims to empty or a self-addressed message.
func ValidationError(message string) *Error {
	return New(message, http.StatusBadRequest)
}

// ConflictError flags a duplicate connection request for a pair that
// already has one in either direction.
func ConflictError(message string) *Error {
	return New(message, http.StatusConflict)
}

// AuthorizationError flags an actor not permitted to perform a state
// change, or not connected for messaging.
func AuthorizationError(message string) *Error {
	return New(message, http.StatusForbidden)
}

func NotFoundError(message string) *Error {
	return New(message, http.StatusNotFound)
}

// ErrorHandler renders the rate limiter's rejection.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"errors": fmt.Sprintf("too many requests, try again in %s", time.Until(info.ResetTime).Round(time.Second)),
	})
	c.Abort()
}
