package service

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gitlab.com/dirk.krummacker/contacts-api/internal/model"
	"gitlab.com/dirk.krummacker/contacts-api/internal/validation"
)

// parseAddressId reads the address id from the request URL. A non-numeric id
// is answered like a missing address.
func parseAddressId(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("addressId"), 10, 64)
	if err != nil {
		abort(c, notFound("address"))
		return 0, false
	}
	return id, true
}

// findAddressOfContact looks up an address filtered by both id and owning
// contact. The contact itself must already have passed the ownership check.
func findAddressOfContact(c *gin.Context, id int64, contactId int64) (model.Address, bool) {
	var addresses []model.Address
	err := db.Select(&addresses, "SELECT * FROM addresses WHERE id = ? AND contact_id = ?", id, contactId)
	if err != nil {
		abort(c, err)
		return model.Address{}, false
	}
	if len(addresses) == 0 {
		abort(c, notFound("address"))
		return model.Address{}, false
	}
	return addresses[0], true
}

// createAddress inserts a new address under a contact of the authenticated
// user. It responds with the full address data including the newly assigned
// id.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56/addresses --request "POST" --header "X-API-TOKEN: ..." --header "Content-Type: application/json" --data '{"street": "Hauptstr. 1", "city": "Berlin", "country": "Germany", "postal_code": "10115"}'
func createAddress(c *gin.Context) {
	user := principal(c)
	contactId, ok := parseContactId(c)
	if !ok {
		return
	}

	var request model.CreateAddressRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		abort(c, errInvalidJSON)
		return
	}
	if err := validation.Struct(&request); err != nil {
		abort(c, err)
		return
	}

	if _, ok := findOwnedContact(c, contactId, user.Username); !ok {
		return
	}

	address := model.Address{
		ContactId:  contactId,
		Street:     request.Street,
		City:       request.City,
		Province:   request.Province,
		Country:    request.Country,
		PostalCode: request.PostalCode,
	}
	result, err := db.NamedExec(`
		INSERT INTO addresses (contact_id, street, city, province, country, postal_code)
		VALUES (:contact_id, :street, :city, :province, :country, :postal_code)
	`, &address)
	if err != nil {
		abort(c, err)
		return
	}
	id, err := result.LastInsertId()
	if err != nil {
		abort(c, err)
		return
	}
	address.Id = id
	c.IndentedJSON(http.StatusOK, gin.H{"data": model.ToAddressResponse(address)})
}

// listAddresses responds with all addresses of a contact owned by the
// authenticated user.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56/addresses --header "X-API-TOKEN: ..."
func listAddresses(c *gin.Context) {
	user := principal(c)
	contactId, ok := parseContactId(c)
	if !ok {
		return
	}
	if _, ok := findOwnedContact(c, contactId, user.Username); !ok {
		return
	}

	var addresses []model.Address
	err := db.Select(&addresses, "SELECT * FROM addresses WHERE contact_id = ? ORDER BY id", contactId)
	if err != nil {
		abort(c, err)
		return
	}
	responses := make([]model.AddressResponse, 0, len(addresses))
	for _, address := range addresses {
		responses = append(responses, model.ToAddressResponse(address))
	}
	c.IndentedJSON(http.StatusOK, gin.H{"data": responses})
}

// findAddressByID locates one address of a contact owned by the authenticated
// user and returns it as a response.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56/addresses/3 --header "X-API-TOKEN: ..."
func findAddressByID(c *gin.Context) {
	user := principal(c)
	contactId, ok := parseContactId(c)
	if !ok {
		return
	}
	addressId, ok := parseAddressId(c)
	if !ok {
		return
	}
	if _, ok := findOwnedContact(c, contactId, user.Username); !ok {
		return
	}
	address, ok := findAddressOfContact(c, addressId, contactId)
	if !ok {
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"data": model.ToAddressResponse(address)})
}

// updateAddressByID updates one address of a contact owned by the
// authenticated user. Country and postal code are mandatory; the optional
// fields keep their stored values when absent from the JSON. It responds with
// the new version of the address.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56/addresses/3 --request "PUT" --header "X-API-TOKEN: ..." --header "Content-Type: application/json" --data '{"country": "Germany", "postal_code": "80331", "city": "München"}'
func updateAddressByID(c *gin.Context) {
	user := principal(c)
	contactId, ok := parseContactId(c)
	if !ok {
		return
	}
	addressId, ok := parseAddressId(c)
	if !ok {
		return
	}

	var submitted model.UpdateAddressRequest
	if err := c.ShouldBindJSON(&submitted); err != nil {
		abort(c, errInvalidJSON)
		return
	}
	if err := validation.Struct(&submitted); err != nil {
		abort(c, err)
		return
	}

	if _, ok := findOwnedContact(c, contactId, user.Username); !ok {
		return
	}
	if _, ok := findAddressOfContact(c, addressId, contactId); !ok {
		return
	}

	args := []interface{}{submitted.Country, submitted.PostalCode}
	sql := "UPDATE addresses SET country=?, postal_code=?, "
	if submitted.Street != nil {
		args = append(args, submitted.Street)
		sql += "street=?, "
	}
	if submitted.City != nil {
		args = append(args, submitted.City)
		sql += "city=?, "
	}
	if submitted.Province != nil {
		args = append(args, submitted.Province)
		sql += "province=?, "
	}
	sql = sql[:len(sql)-2]
	sql += " WHERE id=? AND contact_id=?"
	args = append(args, addressId, contactId)
	if _, err := db.Exec(sql, args...); err != nil {
		abort(c, err)
		return
	}

	address, ok := findAddressOfContact(c, addressId, contactId)
	if !ok {
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"data": model.ToAddressResponse(address)})
}

// deleteAddressByID deletes one address of a contact owned by the
// authenticated user.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/56/addresses/3 --request "DELETE" --header "X-API-TOKEN: ..."
func deleteAddressByID(c *gin.Context) {
	user := principal(c)
	contactId, ok := parseContactId(c)
	if !ok {
		return
	}
	addressId, ok := parseAddressId(c)
	if !ok {
		return
	}
	if _, ok := findOwnedContact(c, contactId, user.Username); !ok {
		return
	}

	result, err := db.Exec("DELETE FROM addresses WHERE id = ? AND contact_id = ?", addressId, contactId)
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
		abort(c, notFound("address"))
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"data": "OK"})
}
