package service

import (
	"database/sql"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"gitlab.com/dirk.krummacker/contacts-api/internal/config"
)

// db is a handle to the database.
var db *sqlx.DB

// insertUser is a prepared statement for creating a user on the database.
var insertUser *sqlx.NamedStmt

// selectUserWhereUsername is a prepared statement for selecting the user with
// a given username.
var selectUserWhereUsername *sqlx.Stmt

// selectUserWhereToken is a prepared statement for selecting the user holding
// a given session token. It backs the authentication middleware.
var selectUserWhereToken *sqlx.Stmt

// insertContact is a prepared statement for creating a contact on the
// database.
var insertContact *sqlx.NamedStmt

// selectContactWhereIdAndOwner is a prepared statement for selecting a
// contact by id, scoped to its owner. Scoping by both columns is the only
// authorization mechanism: a contact of another user is indistinguishable
// from a nonexistent one.
var selectContactWhereIdAndOwner *sqlx.Stmt

// deleteContactWhereIdAndOwner is a prepared statement for deleting a contact
// by id, scoped to its owner.
var deleteContactWhereIdAndOwner *sqlx.Stmt

// CreateDatabase initializes and returns a database connection with the
// specified connection parameters.
func CreateDatabase(cfg config.DatabaseConfig) *sql.DB {
	sqlDB, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	return sqlDB
}

// SetupDatabaseWrapper initializes the sqlx database wrapper with the specified sql database. It
// then prepares all statements. The database argument can be a real database for production use
// or a mock database within unit tests.
func SetupDatabaseWrapper(sqlDB *sql.DB) {
	var err error
	db = sqlx.NewDb(sqlDB, "mysql")

	// Prepared statements offer a significant speed increase if executed many times.
	insertUser, err = db.PrepareNamed(`
		INSERT INTO users (username, password, name)
		VALUES (:username, :password, :name)
	`)
	if err != nil {
		log.Fatal(err)
	}
	selectUserWhereUsername, err = db.Preparex(`
		SELECT * FROM users WHERE username = ?
	`)
	if err != nil {
		log.Fatal(err)
	}
	selectUserWhereToken, err = db.Preparex(`
		SELECT * FROM users WHERE token = ?
	`)
	if err != nil {
		log.Fatal(err)
	}
	insertContact, err = db.PrepareNamed(`
		INSERT INTO contacts (username, first_name, last_name, email, phone)
		VALUES (:username, :first_name, :last_name, :email, :phone)
	`)
	if err != nil {
		log.Fatal(err)
	}
	selectContactWhereIdAndOwner, err = db.Preparex(`
		SELECT * FROM contacts WHERE id = ? AND username = ?
	`)
	if err != nil {
		log.Fatal(err)
	}
	deleteContactWhereIdAndOwner, err = db.Preparex(`
		DELETE FROM contacts WHERE id = ? AND username = ?
	`)
	if err != nil {
		log.Fatal(err)
	}
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
// Registration and login are reachable without a token; every other endpoint
// sits behind the authentication middleware.
func SetupHttpRouter(httpLogging bool) *gin.Engine {
	router := gin.New()
	if httpLogging {
		router.Use(gin.Logger())
	}
	router.Use(recovery(), errorHandler())

	api := router.Group("/api")
	api.POST("/users", registerUser)
	api.POST("/users/login", loginUser)

	authenticated := api.Group("", authenticate)
	authenticated.GET("/users/current", getCurrentUser)
	authenticated.PATCH("/users/current", updateCurrentUser)
	authenticated.DELETE("/users/current", logoutUser)
	authenticated.POST("/contacts", createContact)
	authenticated.GET("/contacts", searchContacts)
	authenticated.GET("/contacts/:contactId", findContactByID)
	authenticated.PUT("/contacts/:contactId", updateContactByID)
	authenticated.DELETE("/contacts/:contactId", deleteContactByID)
	authenticated.POST("/contacts/:contactId/addresses", createAddress)
	authenticated.GET("/contacts/:contactId/addresses", listAddresses)
	authenticated.GET("/contacts/:contactId/addresses/:addressId", findAddressByID)
	authenticated.PUT("/contacts/:contactId/addresses/:addressId", updateAddressByID)
	authenticated.DELETE("/contacts/:contactId/addresses/:addressId", deleteAddressByID)
	return router
}
