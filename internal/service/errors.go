package service

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"gitlab.com/dirk.krummacker/contacts-api/internal/validation"
)

// StatusError is a failure that maps directly to an HTTP status code and a
// message for the error envelope.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// errUnauthorized is returned for missing or invalid tokens and for failed
// logins. Wrong-username and wrong-password logins share it so that the
// response does not reveal which usernames exist.
var errUnauthorized = &StatusError{Code: http.StatusUnauthorized, Message: "Unauthorized"}

// errInvalidJSON is returned when a request body cannot be parsed at all.
var errInvalidJSON = &StatusError{Code: http.StatusBadRequest, Message: "invalid JSON"}

// notFound builds the failure for a resource that does not exist or is not
// owned by the requesting user. Both cases produce the same response.
func notFound(resource string) *StatusError {
	return &StatusError{Code: http.StatusNotFound, Message: resource + " not found"}
}

// conflict builds the failure for a violated unique constraint.
func conflict(message string) *StatusError {
	return &StatusError{Code: http.StatusConflict, Message: message}
}

// badRequest builds the failure for a request that is syntactically valid but
// cannot be processed.
func badRequest(message string) *StatusError {
	return &StatusError{Code: http.StatusBadRequest, Message: message}
}

// abort records the error on the context and stops the handler chain. The
// errorHandler middleware renders it afterwards.
func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// errorHandler converts every recorded failure into the uniform error
// envelope. Validation failures carry the full list of field errors; typed
// status errors carry their message; anything unrecognized becomes a generic
// 500 so that internals never leak to the client.
func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var validationErr *validation.Error
		if errors.As(err, &validationErr) {
			c.IndentedJSON(http.StatusBadRequest, gin.H{"errors": validationErr.Fields})
			return
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			c.IndentedJSON(statusErr.Code, gin.H{"errors": statusErr.Message})
			return
		}
		log.Println("internal error:", err)
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"errors": "internal server error"})
	}
}

// recovery turns panics into the generic 500 envelope.
func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"errors": "internal server error"})
	})
}
