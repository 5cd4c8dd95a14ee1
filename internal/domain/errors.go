package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserInactive        = errors.New("user is inactive")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrDuplicateFarmerID   = errors.New("farmer id already exists")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrNoFieldsProvided    = errors.New("at least one field must be provided")
	ErrRegistryEmpty       = errors.New("farmer registry snapshot is empty")
)
