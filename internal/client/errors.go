package client

import (
	"errors"

	"github.com/aws/smithy-go"
)

// ErrorCode returns the AWS API error code when err wraps a smithy.APIError
// (e.g. "ThrottlingException", "ResourceNotFoundException"), or "" otherwise.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
