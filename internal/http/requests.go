package http

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"contact-keeper/internal/domain"
	"contact-keeper/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r registerRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("input valid email"),
			is.Email.Error("input valid email"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password length at least 6 characters"),
			validation.Length(6, 0).Error("password length at least 6 characters"),
		),
	))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("input valid email"),
			is.Email.Error("input valid email"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
	))
}

type contactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Type  string `json:"type"`
}

func (r contactRequest) Validate() error {
	return toValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
		),
	))
}

func (r contactRequest) fields() service.ContactFields {
	return service.ContactFields{
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
		Type:  r.Type,
	}
}

// toValidationError converts ozzo's per-field error map into the domain's
// field-level validation error.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validation.Errors)
	if !ok {
		return err
	}

	out := &domain.ValidationError{}
	for param, ferr := range fieldErrs {
		out.Fields = append(out.Fields, domain.FieldError{
			Param: param,
			Msg:   ferr.Error(),
		})
	}
	return out
}
