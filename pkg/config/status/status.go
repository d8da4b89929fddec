// Package status declares error constants returned by the config package.
package status

import "github.com/oneconcern/cmsctl/pkg/errors"

var (
	// ErrConfigNotFound indicates that the gitana configuration file does not exist
	ErrConfigNotFound = errors.New("gitana configuration file not found")

	// ErrConfigInvalid indicates that the gitana configuration file could not be parsed
	ErrConfigInvalid = errors.New("invalid gitana configuration file")

	// ErrMissingBaseURL indicates that no API base URL is configured
	ErrMissingBaseURL = errors.New("baseURL is required in gitana configuration")

	// ErrCredentials indicates that credentials could not be loaded or prompted for
	ErrCredentials = errors.New("could not resolve credentials")

	// ErrMissingPath indicates that a required file path was not provided
	ErrMissingPath = errors.New("file path is required")

	// ErrFileNotFound indicates that a JSON document file does not exist
	ErrFileNotFound = errors.New("file not found")

	// ErrReadFile indicates that a JSON document file could not be read
	ErrReadFile = errors.New("could not read file")

	// ErrInvalidDocument indicates that a file does not hold a valid JSON object
	ErrInvalidDocument = errors.New("invalid JSON document")

	// ErrHomeDirectory indicates that the user's home directory could not be determined
	ErrHomeDirectory = errors.New("could not determine home directory")
)
