package model

type Health struct {
	Healthy bool `json:"healthy"`
}

type HelloRequest struct {
	Name string `json:"name" validate:"min=2,max=50"`
}

// Message is the envelope of every greeting response.
type Message struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

const (
	ErrorCodeValidation  = "validation_error"
	ErrorCodeInvalidBody = "invalid_body"
)
