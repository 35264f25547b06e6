package dto

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// CreateContactRequest is the public contact form payload.
type CreateContactRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Service   *string `json:"service"`
	Message   *string `json:"message"`
}

func (r CreateContactRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required.Error("first name is required"), notBlank, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required.Error("last name is required"), notBlank, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required.Error("email is required"), is.EmailFormat.Error("invalid email format")),
		validation.Field(&r.Phone, phoneRule),
		validation.Field(&r.Message, validation.Length(0, 5000)),
	)
}
