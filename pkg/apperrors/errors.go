package apperrors

import "errors"

var (
	ErrNoSession             = errors.New("no active warehouse session")
	ErrInvalidTableName      = errors.New("invalid qualified table name")
	ErrPolicyAlreadyAttached = errors.New("row access policy already attached")
)
