package contact

import (
	"github.com/pkg/errors"
)

// Messages shown to the visitor after a submission.
const (
	SuccessMessage = "Thank you for your message! I'll get back to you soon."
	FailureMessage = "Sorry, there was an error sending your message. Please try again later."
)

// Field names, in the order they are validated.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldSubject = "subject"
	FieldMessage = "message"
)

// ErrMissingField is returned when a required form field is empty.
var ErrMissingField = errors.New("required field is empty")

// Form is the contact form payload.
type Form struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

// Validate checks that every field is non-empty. Whitespace counts as a value
// and the email address is not checked for shape.
func (f *Form) Validate() (err error) {
	fields := []struct {
		name  string
		value string
	}{
		{FieldName, f.Name},
		{FieldEmail, f.Email},
		{FieldSubject, f.Subject},
		{FieldMessage, f.Message},
	}

	for _, field := range fields {
		if field.value == "" {
			err = errors.Wrapf(ErrMissingField, "%s", field.name)
			return err
		}
	}

	return err
}

// Set assigns a field by name.
func (f *Form) Set(field, value string) (err error) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldSubject:
		f.Subject = value
	case FieldMessage:
		f.Message = value
	default:
		err = errors.Errorf("unknown contact form field: %s", field)
	}
	return err
}
