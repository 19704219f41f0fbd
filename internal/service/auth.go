package service

import (
	"github.com/gin-gonic/gin"

	"gitlab.com/dirk.krummacker/contacts-api/internal/model"
)

// tokenHeader is the request header carrying the opaque session token.
const tokenHeader = "X-API-TOKEN"

// principalKey is the context key under which the authenticated user is
// stored for the duration of a request.
const principalKey = "principal"

// authenticate resolves the session token to its owning user and stores the
// user on the request context. A missing or unknown token stops the request
// with 401 before any other resource is touched. Lookup is by exact token
// match; the token is a bearer capability with no expiry or signature.
func authenticate(c *gin.Context) {
	token := c.GetHeader(tokenHeader)
	if token == "" {
		abort(c, errUnauthorized)
		return
	}
	var users []model.User
	if err := selectUserWhereToken.Select(&users, token); err != nil {
		abort(c, err)
		return
	}
	if len(users) == 0 {
		abort(c, errUnauthorized)
		return
	}
	c.Set(principalKey, users[0])
	c.Next()
}

// principal returns the authenticated user of the current request. It must
// only be called from handlers behind the authenticate middleware.
func principal(c *gin.Context) model.User {
	return c.MustGet(principalKey).(model.User)
}
