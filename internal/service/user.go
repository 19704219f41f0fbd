package service

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gitlab.com/dirk.krummacker/contacts-api/internal/model"
	"gitlab.com/dirk.krummacker/contacts-api/internal/passwordutil"
	"gitlab.com/dirk.krummacker/contacts-api/internal/validation"
)

// registerUser creates a new account. The password is stored as a bcrypt
// hash. An already taken username is rejected without creating a second row.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/users --request "POST" --header "Content-Type: application/json" --data '{"username": "erika", "password": "secret", "name": "Erika Mustermann"}'
func registerUser(c *gin.Context) {
	var request model.RegisterUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		abort(c, errInvalidJSON)
		return
	}
	if err := validation.Struct(&request); err != nil {
		abort(c, err)
		return
	}

	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users WHERE username = ?", request.Username); err != nil {
		abort(c, err)
		return
	}
	if count > 0 {
		abort(c, conflict("username already registered"))
		return
	}

	hash, err := passwordutil.HashPassword(request.Password)
	if err != nil {
		abort(c, err)
		return
	}
	user := model.User{Username: request.Username, Password: hash, Name: request.Name}
	if _, err := insertUser.Exec(&user); err != nil {
		abort(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"data": model.ToUserResponse(user)})
}

// loginUser checks the credentials and hands out a fresh opaque session
// token. Unknown usernames and wrong passwords produce the identical 401.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/users/login --request "POST" --header "Content-Type: application/json" --data '{"username": "erika", "password": "secret"}'
func loginUser(c *gin.Context) {
	var request model.LoginUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		abort(c, errInvalidJSON)
		return
	}
	if err := validation.Struct(&request); err != nil {
		abort(c, err)
		return
	}

	var users []model.User
	if err := selectUserWhereUsername.Select(&users, request.Username); err != nil {
		abort(c, err)
		return
	}
	if len(users) == 0 || !passwordutil.CheckPasswordHash(request.Password, users[0].Password) {
		abort(c, errUnauthorized)
		return
	}

	token := uuid.NewString()
	if _, err := db.Exec("UPDATE users SET token = ? WHERE username = ?", token, users[0].Username); err != nil {
		abort(c, err)
		return
	}
	response := model.ToUserResponse(users[0])
	response.Token = token
	c.IndentedJSON(http.StatusOK, gin.H{"data": response})
}

// getCurrentUser responds with the authenticated user.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/users/current --header "X-API-TOKEN: ..."
func getCurrentUser(c *gin.Context) {
	user := principal(c)
	c.IndentedJSON(http.StatusOK, gin.H{"data": model.ToUserResponse(user)})
}

// updateCurrentUser updates the name and/or password of the authenticated
// user. Only the submitted fields are changed.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/users/current --request "PATCH" --header "X-API-TOKEN: ..." --data '{"name": "Erika M."}'
func updateCurrentUser(c *gin.Context) {
	user := principal(c)

	var submitted model.UpdateUserRequest
	if err := c.ShouldBindJSON(&submitted); err != nil {
		abort(c, errInvalidJSON)
		return
	}
	if err := validation.Struct(&submitted); err != nil {
		abort(c, err)
		return
	}

	var args []interface{}
	sql := "UPDATE users SET "
	if submitted.Name != nil {
		args = append(args, submitted.Name)
		sql += "name=?, "
	}
	if submitted.Password != nil {
		hash, err := passwordutil.HashPassword(*submitted.Password)
		if err != nil {
			abort(c, err)
			return
		}
		args = append(args, hash)
		sql += "password=?, "
	}

	// It only makes sense to continue if we have at least one value to update.
	if len(args) == 0 {
		abort(c, badRequest("no values to be updated"))
		return
	}

	sql = sql[:len(sql)-2]
	sql += " WHERE username=?"
	args = append(args, user.Username)
	if _, err := db.Exec(sql, args...); err != nil {
		abort(c, err)
		return
	}

	// In the HTTP response, return the full user after the update.
	var users []model.User
	if err := selectUserWhereUsername.Select(&users, user.Username); err != nil {
		abort(c, err)
		return
	}
	if len(users) == 0 {
		abort(c, notFound("user"))
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"data": model.ToUserResponse(users[0])})
}

// logoutUser invalidates the session by clearing the stored token. The old
// token fails authentication from this point on.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/users/current --request "DELETE" --header "X-API-TOKEN: ..."
func logoutUser(c *gin.Context) {
	user := principal(c)
	if _, err := db.Exec("UPDATE users SET token = NULL WHERE username = ?", user.Username); err != nil {
		abort(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"data": "OK"})
}
