package appshelf

import "errors"

var (
	// ErrNotFound is returned when a file is not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrTemplateNotFound is returned when a page template does not exist
	ErrTemplateNotFound = errors.New("template not found")
	// ErrAppsRootMissing is returned when the apps root directory does not exist
	ErrAppsRootMissing = errors.New("apps root missing")
	// ErrInvalidCatalog is returned when the metadata catalog cannot be parsed
	ErrInvalidCatalog = errors.New("invalid catalog")
)
