package types

// MessageResponse is the body of every successful mutation. Extra fields are
// merged alongside the message by the responses package.
type MessageResponse struct {
	Message string `json:"message"`
}

// APIError is the body of every failed request.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}
