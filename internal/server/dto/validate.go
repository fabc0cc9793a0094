// Defines the validation interface for requests.

package dto

// Validatable is implemented by request types that can validate their fields.
// The Wrap function in handler_wrapper.go uses this interface as a type
// constraint to ensure all request types provide validation.
type Validatable interface {
	Validate() error
}

// StatusCoder is implemented by response types that are not sent with 200 OK.
type StatusCoder interface {
	StatusCode() int
}

// BodyRequest is implemented by request types decoded from the JSON body.
// Requests without it never read the body.
type BodyRequest interface {
	decodesBody()
}
