package service

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

// createMockObjects builds a mock database handle and a mock object for defining our expected SQL
// calls.
func createMockObjects(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	return db, mock
}

// expectPreparedStatements instructs the mock object to expect that several statements are being
// prepared.
func expectPreparedStatements(mock sqlmock.Sqlmock) {
	mock.ExpectPrepare("INSERT INTO users")
	mock.ExpectPrepare("SELECT \\* FROM users WHERE username = \\?")
	mock.ExpectPrepare("SELECT \\* FROM users WHERE token = \\?")
	mock.ExpectPrepare("INSERT INTO contacts")
	mock.ExpectPrepare("SELECT \\* FROM contacts WHERE id = \\? AND username = \\?")
	mock.ExpectPrepare("DELETE FROM contacts WHERE id = \\? AND username = \\?")
}

// expectTokenResolution instructs the mock object to expect the token lookup
// performed by the authentication middleware and to resolve it to the given
// user.
func expectTokenResolution(mock sqlmock.Sqlmock, username string, name string, token string) {
	rows := mock.NewRows([]string{"username", "password", "name", "token"}).
		AddRow(username, "$2a$10$irrelevant", name, token)
	mock.ExpectQuery("SELECT \\* FROM users WHERE token = \\?").
		WithArgs(token).
		WillReturnRows(rows)
}

// expectOwnedContactSelect instructs the mock object to expect the ownership
// lookup of a contact and to return one matching row.
func expectOwnedContactSelect(mock sqlmock.Sqlmock, id int64, username string, firstName string) {
	rows := mock.NewRows([]string{"id", "username", "first_name", "last_name", "email", "phone"}).
		AddRow(id, username, firstName, nil, nil, nil)
	mock.ExpectQuery("SELECT \\* FROM contacts WHERE id = \\? AND username = \\?").
		WithArgs(id, username).
		WillReturnRows(rows)
}

// initializeContactsService sets up the contacts service with the mock database and returns a
// handle to the gin engine against which requests can be executed.
func initializeContactsService(db *sql.DB) *gin.Engine {
	SetupDatabaseWrapper(db)
	gin.SetMode(gin.ReleaseMode)
	return SetupHttpRouter(false)
}

// runTest executes the HTTP request with the specified arguments and returns the response.
func runTest(db *sql.DB, method string, url string, body *strings.Reader) *httptest.ResponseRecorder {
	return runTestWithToken(db, method, url, "", body)
}

// runTestWithToken executes the HTTP request with the specified arguments and the session token
// header set, and returns the response.
func runTestWithToken(db *sql.DB, method string, url string, token string, body *strings.Reader) *httptest.ResponseRecorder {
	router := initializeContactsService(db)
	recorder := httptest.NewRecorder()
	if body == nil {
		body = strings.NewReader("")
	}
	request, _ := http.NewRequest(method, url, body)
	if token != "" {
		request.Header.Set(tokenHeader, token)
	}
	router.ServeHTTP(recorder, request)
	return recorder
}
