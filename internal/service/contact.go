package service

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"gitlab.com/dirk.krummacker/contacts-api/internal/model"
	"gitlab.com/dirk.krummacker/contacts-api/internal/validation"
)

// defaultPage and defaultSize apply when the paging URL parameters are
// omitted.
const (
	defaultPage = 1
	defaultSize = 10
)

// parseContactId reads the contact id from the request URL. A non-numeric id
// is answered like a missing contact so that the endpoint reveals nothing
// about which ids exist.
func parseContactId(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("contactId"), 10, 64)
	if err != nil {
		abort(c, notFound("contact"))
		return 0, false
	}
	return id, true
}

// findOwnedContact looks up a contact filtered by both id and owner. Zero
// rows means "not found", regardless of whether the contact exists under a
// different owner.
func findOwnedContact(c *gin.Context, id int64, username string) (model.Contact, bool) {
	var contacts []model.Contact
	if err := selectContactWhereIdAndOwner.Select(&contacts, id, username); err != nil {
		abort(c, err)
		return model.Contact{}, false
	}
	if len(contacts) == 0 {
		abort(c, notFound("contact"))
		return model.Contact{}, false
	}
	return contacts[0], true
}

// createContact inserts the contact specified in the request's JSON into the
// database, owned by the authenticated user. It responds with the full
// contact data including the newly assigned id.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts --request "POST" --header "X-API-TOKEN: ..." --header "Content-Type: application/json" --data '{"first_name": "Hans", "last_name": "Wurst", "email": "hans@example.com", "phone": "0815"}'
func createContact(c *gin.Context) {
	user := principal(c)

	var request model.CreateContactRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		abort(c, errInvalidJSON)
		return
	}
	if err := validation.Struct(&request); err != nil {
		abort(c, err)
		return
	}

	contact := model.Contact{
		Username:  user.Username,
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Email:     request.Email,
		Phone:     request.Phone,
	}
	result, err := insertContact.Exec(&contact)
	if err != nil {
		abort(c, err)
		return
	}
	id, err := result.LastInsertId()
	if err != nil {
		abort(c, err)
		return
	}
	contact.Id = id
	c.IndentedJSON(http.StatusOK, gin.H{"data": model.ToContactResponse(contact)})
}

// findContactByID locates the contact whose ID value matches the id parameter
// of the request URL, scoped to the authenticated owner, then returns that
// contact as a response.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56 --header "X-API-TOKEN: ..."
func findContactByID(c *gin.Context) {
	user := principal(c)
	id, ok := parseContactId(c)
	if !ok {
		return
	}
	contact, ok := findOwnedContact(c, id, user.Username)
	if !ok {
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"data": model.ToContactResponse(contact)})
}

// updateContactByID updates the contact whose ID value matches the id
// parameter of the request URL. The first name is mandatory; optional fields
// keep their stored values when absent from the JSON. It responds with the
// new version of the contact.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56 --request "PUT" --header "X-API-TOKEN: ..." --header "Content-Type: application/json" --data '{"first_name": "Hans", "phone": "81970"}'
func updateContactByID(c *gin.Context) {
	user := principal(c)
	id, ok := parseContactId(c)
	if !ok {
		return
	}

	var submitted model.UpdateContactRequest
	if err := c.ShouldBindJSON(&submitted); err != nil {
		abort(c, errInvalidJSON)
		return
	}
	if err := validation.Struct(&submitted); err != nil {
		abort(c, err)
		return
	}

	if _, ok := findOwnedContact(c, id, user.Username); !ok {
		return
	}

	args := []interface{}{submitted.FirstName}
	sql := "UPDATE contacts SET first_name=?, "
	if submitted.LastName != nil {
		args = append(args, submitted.LastName)
		sql += "last_name=?, "
	}
	if submitted.Email != nil {
		args = append(args, submitted.Email)
		sql += "email=?, "
	}
	if submitted.Phone != nil {
		args = append(args, submitted.Phone)
		sql += "phone=?, "
	}
	sql = sql[:len(sql)-2]
	sql += " WHERE id=? AND username=?"
	args = append(args, id, user.Username)
	if _, err := db.Exec(sql, args...); err != nil {
		abort(c, err)
		return
	}

	// In the HTTP response, return the full contact after the update.
	contact, ok := findOwnedContact(c, id, user.Username)
	if !ok {
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"data": model.ToContactResponse(contact)})
}

// deleteContactByID deletes the contact whose ID value matches the id
// parameter of the request URL from the database, scoped to the authenticated
// owner.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56 --request "DELETE" --header "X-API-TOKEN: ..."
func deleteContactByID(c *gin.Context) {
	user := principal(c)
	id, ok := parseContactId(c)
	if !ok {
		return
	}

	result, err := deleteContactWhereIdAndOwner.Exec(id, user.Username)
	if err != nil {
		abort(c, err)
		return
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		abort(c, err)
		return
	}
	if rowsAffected == 0 {
		abort(c, notFound("contact"))
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"data": "OK"})
}

// parseSearchRequest inspects the URL parameters of a contact search and
// normalizes them into a request value. Page and size fall back to their
// defaults when omitted; values that are not positive numbers (or a size
// above the maximum) are rejected, not clamped.
func parseSearchRequest(c *gin.Context) (model.SearchContactRequest, bool) {
	request := model.SearchContactRequest{
		Name:  c.Query("name"),
		Email: c.Query("email"),
		Phone: c.Query("phone"),
		Page:  defaultPage,
		Size:  defaultSize,
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			abort(c, validation.NewError("page", "must be a positive number"))
			return request, false
		}
		request.Page = page
	}
	if raw := c.Query("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			abort(c, validation.NewError("size", "must be a positive number"))
			return request, false
		}
		request.Size = size
	}
	if err := validation.Struct(&request); err != nil {
		abort(c, err)
		return request, false
	}
	return request, true
}

// searchContacts responds with the contacts of the authenticated user that
// match all given filters, as one page of results.
//
// The URL parameter 'name' is a case-insensitive substring match against the
// concatenation of first and last name. The URL parameters 'email' and
// 'phone' are substring matches against their columns.
//
// The URL parameters 'page' and 'size' select the result page. A page beyond
// the last one yields an empty list, not an error; the paging block echoes
// the requested page verbatim.
//
// Example REST API calls:
//
//	> curl "http://localhost:8080/api/contacts" --header "X-API-TOKEN: ..."
//	> curl "http://localhost:8080/api/contacts?name=must" --header "X-API-TOKEN: ..."
//	> curl "http://localhost:8080/api/contacts?email=example.com&page=2&size=20" --header "X-API-TOKEN: ..."
func searchContacts(c *gin.Context) {
	user := principal(c)
	request, ok := parseSearchRequest(c)
	if !ok {
		return
	}

	where := "WHERE username = ?"
	args := []interface{}{user.Username}
	if request.Name != "" {
		where += " AND LOWER(CONCAT(first_name, ' ', COALESCE(last_name, ''))) LIKE ?"
		args = append(args, "%"+strings.ToLower(request.Name)+"%")
	}
	if request.Email != "" {
		where += " AND email LIKE ?"
		args = append(args, "%"+request.Email+"%")
	}
	if request.Phone != "" {
		where += " AND phone LIKE ?"
		args = append(args, "%"+request.Phone+"%")
	}

	var total int
	if err := db.Get(&total, "SELECT COUNT(*) FROM contacts "+where, args...); err != nil {
		abort(c, err)
		return
	}

	var contacts []model.Contact
	sql := fmt.Sprintf("SELECT * FROM contacts %s ORDER BY id LIMIT ? OFFSET ?", where)
	args = append(args, request.Size, (request.Page-1)*request.Size)
	if err := db.Select(&contacts, sql, args...); err != nil {
		abort(c, err)
		return
	}

	responses := make([]model.ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		responses = append(responses, model.ToContactResponse(contact))
	}
	totalPage := (total + request.Size - 1) / request.Size
	c.IndentedJSON(http.StatusOK, gin.H{
		"data": responses,
		"paging": model.Paging{
			CurrentPage: request.Page,
			TotalPage:   totalPage,
			Size:        request.Size,
		},
	})
}
