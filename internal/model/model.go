// Package model defines the database rows, the request payloads and the
// response shapes of the contacts API. Optional columns are pointer-typed so
// that NULL survives the round trip through sqlx.
package model

// User is the database row for an account. The password column holds a bcrypt
// hash, never the plaintext. The token column is the opaque session token; it
// is NULL while the user is logged out.
type User struct {
	Username string  `db:"username"`
	Password string  `db:"password"`
	Name     string  `db:"name"`
	Token    *string `db:"token"`
}

// Contact is the database row for a contact. The username column references
// the owning user; it never leaves the service.
type Contact struct {
	Id        int64   `db:"id"`
	Username  string  `db:"username"`
	FirstName string  `db:"first_name"`
	LastName  *string `db:"last_name"`
	Email     *string `db:"email"`
	Phone     *string `db:"phone"`
}

// Address is the database row for an address attached to a contact.
type Address struct {
	Id         int64   `db:"id"`
	ContactId  int64   `db:"contact_id"`
	Street     *string `db:"street"`
	City       *string `db:"city"`
	Province   *string `db:"province"`
	Country    string  `db:"country"`
	PostalCode string  `db:"postal_code"`
}

// RegisterUserRequest is the payload of POST /api/users. The password bound
// is the 72 byte input limit of bcrypt.
type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=72"`
	Name     string `json:"name"     validate:"required,max=100"`
}

// LoginUserRequest is the payload of POST /api/users/login.
type LoginUserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=72"`
}

// UpdateUserRequest is the payload of PATCH /api/users/current. Both fields
// are optional but at least one must be present.
type UpdateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=1,max=100"`
	Password *string `json:"password" validate:"omitempty,min=1,max=72"`
}

// CreateContactRequest is the payload of POST /api/contacts.
type CreateContactRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=100"`
	Email     *string `json:"email"      validate:"omitempty,email,max=100"`
	Phone     *string `json:"phone"      validate:"omitempty,max=20"`
}

// UpdateContactRequest is the payload of PUT /api/contacts/:id. Optional
// fields that are absent keep their stored values.
type UpdateContactRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=100"`
	Email     *string `json:"email"      validate:"omitempty,email,max=100"`
	Phone     *string `json:"phone"      validate:"omitempty,max=20"`
}

// SearchContactRequest carries the normalized query parameters of
// GET /api/contacts.
type SearchContactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Page  int    `json:"page" validate:"min=1"`
	Size  int    `json:"size" validate:"min=1,max=100"`
}

// CreateAddressRequest is the payload of POST /api/contacts/:contactId/addresses.
type CreateAddressRequest struct {
	Street     *string `json:"street"      validate:"omitempty,max=255"`
	City       *string `json:"city"        validate:"omitempty,max=255"`
	Province   *string `json:"province"    validate:"omitempty,max=255"`
	Country    string  `json:"country"     validate:"required,max=100"`
	PostalCode string  `json:"postal_code" validate:"required,max=10"`
}

// UpdateAddressRequest is the payload of PUT .../addresses/:addressId.
type UpdateAddressRequest struct {
	Street     *string `json:"street"      validate:"omitempty,max=255"`
	City       *string `json:"city"        validate:"omitempty,max=255"`
	Province   *string `json:"province"    validate:"omitempty,max=255"`
	Country    string  `json:"country"     validate:"required,max=100"`
	PostalCode string  `json:"postal_code" validate:"required,max=10"`
}

// UserResponse is the outward shape of a user. The password hash is stripped;
// the session token only appears in the login response.
type UserResponse struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Token    string `json:"token,omitempty"`
}

// ContactResponse is the outward shape of a contact. The owner key is
// stripped.
type ContactResponse struct {
	Id        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// AddressResponse is the outward shape of an address. The contact key is
// stripped.
type AddressResponse struct {
	Id         int64   `json:"id"`
	Street     *string `json:"street,omitempty"`
	City       *string `json:"city,omitempty"`
	Province   *string `json:"province,omitempty"`
	Country    string  `json:"country"`
	PostalCode string  `json:"postal_code"`
}

// Paging is the metadata block accompanying search results.
type Paging struct {
	CurrentPage int `json:"current_page"`
	TotalPage   int `json:"total_page"`
	Size        int `json:"size"`
}

// ToUserResponse maps a user row to its outward shape.
func ToUserResponse(user User) UserResponse {
	return UserResponse{Username: user.Username, Name: user.Name}
}

// ToContactResponse maps a contact row to its outward shape.
func ToContactResponse(contact Contact) ContactResponse {
	return ContactResponse{
		Id:        contact.Id,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Email:     contact.Email,
		Phone:     contact.Phone,
	}
}

// ToAddressResponse maps an address row to its outward shape.
func ToAddressResponse(address Address) AddressResponse {
	return AddressResponse{
		Id:         address.Id,
		Street:     address.Street,
		City:       address.City,
		Province:   address.Province,
		Country:    address.Country,
		PostalCode: address.PostalCode,
	}
}
