package service

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

// addressColumns are the columns of the addresses table in select results.
var addressColumns = []string{"id", "contact_id", "street", "city", "province", "country", "postal_code"}

// TestCreateAddress executes a POST request with a valid body. It expects the ownership check on
// the parent contact to run first and the address to be returned with its new id.
func TestCreateAddress(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	expectTokenResolution(mock, "erika", "Erika Mustermann", "token-1")
	expectOwnedContactSelect(mock, 56, "erika", "Hans")
	mock.ExpectExec("INSERT INTO addresses").
		WithArgs(int64(56), "Hauptstr. 1", "Berlin", nil, "Germany", "10115").
		WillReturnResult(sqlmock.NewResult(3, 1))

	// Run test and compare results
	recorder := runTestWithToken(db, "POST", "/api/contacts/56/addresses", "token-1", strings.NewReader(`
		{
			"street": "Hauptstr. 1",
			"city": "Berlin",
			"country": "Germany",
			"postal_code": "10115"
		}
	`))
	assert.Equal(t, http.StatusOK, recorder.Code)
	var body map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &body)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, 3.0, data["id"])
	assert.Equal(t, "Hauptstr. 1", data["street"])
	assert.Equal(t, "Berlin", data["city"])
	assert.Equal(t, "Germany", data["country"])
	assert.Equal(t, "10115", data["postal_code"])
	assert.Nil(t, data["contact_id"])
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestCreateAddressInvalidBody executes a POST request without the mandatory country and postal
// code. It expects a BAD REQUEST status listing both violations before any database access beyond
// authentication.
func TestCreateAddressInvalidBody(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock) // we expect that the call will fail before the SQL statements
	expectTokenResolution(mock, "erika", "Erika Mustermann", "token-1")

	// Run test and compare results
	recorder := runTestWithToken(db, "POST", "/api/contacts/56/addresses", "token-1", strings.NewReader(`
		{
			"street": "Hauptstr. 1"
		}
	`))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	var body map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &body)
	violations := body["errors"].([]interface{})
	assert.Equal(t, 2, len(violations))
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestCreateAddressContactNotOwned executes a POST request under a contact of a different user.
// It expects a NOT FOUND status for the contact and no insert.
func TestCreateAddressContactNotOwned(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	expectTokenResolution(mock, "erika", "Erika Mustermann", "token-1")
	mock.ExpectQuery("SELECT \\* FROM contacts WHERE id = \\? AND username = \\?").
		WithArgs(56, "erika").
		WillReturnRows(mock.NewRows([]string{"id", "username", "first_name", "last_name", "email", "phone"}))

	// Run test and compare results
	recorder := runTestWithToken(db, "POST", "/api/contacts/56/addresses", "token-1", strings.NewReader(`
		{
			"country": "Germany",
			"postal_code": "10115"
		}
	`))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	var body map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &body)
	assert.Equal(t, "contact not found", body["errors"])
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestListAddresses executes a GET request for all addresses of an owned contact. It expects the
// full list in insertion order.
func TestListAddresses(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	expectTokenResolution(mock, "erika", "Erika Mustermann", "token-1")
	expectOwnedContactSelect(mock, 56, "erika", "Hans")
	rows := mock.NewRows(addressColumns).
		AddRow(3, 56, "Hauptstr. 1", "Berlin", nil, "Germany", "10115").
		AddRow(4, 56, nil, "München", "Bayern", "Germany", "80331")
	mock.ExpectQuery("SELECT \\* FROM addresses WHERE contact_id = \\? ORDER BY id").
		WithArgs(int64(56)).
		WillReturnRows(rows)

	// Run test and compare results
	recorder := runTestWithToken(db, "GET", "/api/contacts/56/addresses", "token-1", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	var body map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &body)
	data := body["data"].([]interface{})
	assert.Equal(t, 2, len(data))
	first := data[0].(map[string]interface{})
	assert.Equal(t, 3.0, first["id"])
	assert.Equal(t, "Berlin", first["city"])
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestGetAddress executes a GET request for a single address of an owned contact. It expects the
// address as a response.
func TestGetAddress(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	expectTokenResolution(mock, "erika", "Erika Mustermann", "token-1")
	expectOwnedContactSelect(mock, 56, "erika", "Hans")
	rows := mock.NewRows(addressColumns).
		AddRow(3, 56, "Hauptstr. 1", "Berlin", nil, "Germany", "10115")
	mock.ExpectQuery("SELECT \\* FROM addresses WHERE id = \\? AND contact_id = \\?").
		WithArgs(int64(3), int64(56)).
		WillReturnRows(rows)

	// Run test and compare results
	recorder := runTestWithToken(db, "GET", "/api/contacts/56/addresses/3", "token-1", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	var body map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &body)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, 3.0, data["id"])
	assert.Equal(t, "Hauptstr. 1", data["street"])
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestGetAddressNotFound executes a GET request for an address id that does not exist under the
// owned contact. It expects a NOT FOUND status.
func TestGetAddressNotFound(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	expectTokenResolution(mock, "erika", "Erika Mustermann", "token-1")
	expectOwnedContactSelect(mock, 56, "erika", "Hans")
	mock.ExpectQuery("SELECT \\* FROM addresses WHERE id = \\? AND contact_id = \\?").
		WithArgs(int64(9999), int64(56)).
		WillReturnRows(mock.NewRows(addressColumns))

	// Run test and compare results
	recorder := runTestWithToken(db, "GET", "/api/contacts/56/addresses/9999", "token-1", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	var body map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &body)
	assert.Equal(t, "address not found", body["errors"])
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestGetAddressContactNotOwned executes a GET request for an existing address whose parent
// contact belongs to a different user. It expects the contact lookup to fail and the address
// table to stay untouched.
func TestGetAddressContactNotOwned(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	expectTokenResolution(mock, "erika", "Erika Mustermann", "token-1")
	mock.ExpectQuery("SELECT \\* FROM contacts WHERE id = \\? AND username = \\?").
		WithArgs(56, "erika").
		WillReturnRows(mock.NewRows([]string{"id", "username", "first_name", "last_name", "email", "phone"}))

	// Run test and compare results
	recorder := runTestWithToken(db, "GET", "/api/contacts/56/addresses/3", "token-1", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	var body map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &body)
	assert.Equal(t, "contact not found", body["errors"])
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestUpdateAddress executes a PUT request with a valid body. It expects both ownership lookups
// to run before the update and the new version of the address to be returned.
func TestUpdateAddress(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	expectTokenResolution(mock, "erika", "Erika Mustermann", "token-1")
	expectOwnedContactSelect(mock, 56, "erika", "Hans")
	rows := mock.NewRows(addressColumns).
		AddRow(3, 56, "Hauptstr. 1", "Berlin", nil, "Germany", "10115")
	mock.ExpectQuery("SELECT \\* FROM addresses WHERE id = \\? AND contact_id = \\?").
		WithArgs(int64(3), int64(56)).
		WillReturnRows(rows)
	mock.ExpectExec("UPDATE addresses SET country=\\?, postal_code=\\?").
		WithArgs("Germany", "80331", "München", int64(3), int64(56)).
		WillReturnResult(sqlmock.NewResult(-1, 1))
	updated := mock.NewRows(addressColumns).
		AddRow(3, 56, "Hauptstr. 1", "München", nil, "Germany", "80331")
	mock.ExpectQuery("SELECT \\* FROM addresses WHERE id = \\? AND contact_id = \\?").
		WithArgs(int64(3), int64(56)).
		WillReturnRows(updated)

	// Run test and compare results
	recorder := runTestWithToken(db, "PUT", "/api/contacts/56/addresses/3", "token-1", strings.NewReader(`
		{
			"city": "München",
			"country": "Germany",
			"postal_code": "80331"
		}
	`))
	assert.Equal(t, http.StatusOK, recorder.Code)
	var body map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &body)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, 3.0, data["id"])
	assert.Equal(t, "München", data["city"])
	assert.Equal(t, "80331", data["postal_code"])
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestDeleteAddress executes a DELETE request for an address of an owned contact. It expects the
// status OK and the confirmation envelope.
func TestDeleteAddress(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	expectTokenResolution(mock, "erika", "Erika Mustermann", "token-1")
	expectOwnedContactSelect(mock, 56, "erika", "Hans")
	mock.ExpectExec("DELETE FROM addresses WHERE id = \\? AND contact_id = \\?").
		WithArgs(int64(3), int64(56)).
		WillReturnResult(sqlmock.NewResult(-1, 1))

	// Run test and compare results
	recorder := runTestWithToken(db, "DELETE", "/api/contacts/56/addresses/3", "token-1", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	var body map[string]interface{}
	json.Unmarshal(recorder.Body.Bytes(), &body)
	assert.Equal(t, "OK", body["data"])
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestDeleteAddressNotFound executes a DELETE request for an address id that does not exist under
// the owned contact. It expects a NOT FOUND status.
func TestDeleteAddressNotFound(t *testing.T) {
	db, mock := createMockObjects(t)
	defer db.Close()

	// Define expectations on SQL statements
	expectPreparedStatements(mock)
	expectTokenResolution(mock, "erika", "Erika Mustermann", "token-1")
	expectOwnedContactSelect(mock, 56, "erika", "Hans")
	mock.ExpectExec("DELETE FROM addresses WHERE id = \\? AND contact_id = \\?").
		WithArgs(int64(9999), int64(56)).
		WillReturnResult(sqlmock.NewResult(-1, 0))

	// Run test and compare results
	recorder := runTestWithToken(db, "DELETE", "/api/contacts/56/addresses/9999", "token-1", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
