package provisioning

import "errors"

var (
	// ErrInvalidSchema wraps every template validation failure
	ErrInvalidSchema = errors.New("invalid provisioning template")

	// ErrInvalidFieldXML occurs when a field definition is not a <Field> element with ID and Name
	ErrInvalidFieldXML = errors.New("invalid field xml")
)
