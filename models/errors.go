package models

// Error codes of API error bodies.
const (
	CodeInternalServerError = 1
	CodeObjectNotFound      = 101
	CodeInvalidClassName    = 103
	CodeInvalidKeyName      = 105
	CodeInvalidJSON         = 107
	CodeOperationForbidden  = 119
	CodeDuplicateValue      = 137
	CodeValidationError     = 142
	CodeUsernameMissing     = 200
	CodePasswordMissing     = 201
	CodeUsernameTaken       = 202
	CodeEmailNotFound       = 205
)

// APIError is the JSON body of every failed API request.
type APIError struct {
	Code  int    `json:"code,omitempty"`
	Error string `json:"error"`
}
