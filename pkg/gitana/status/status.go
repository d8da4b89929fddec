// Package status declares error constants returned by the gitana client.
//
// NOTE: such constants are located in a separate package so that callers
// may test errors without importing the client itself.
package status

import "github.com/oneconcern/cmsctl/pkg/errors"

var (
	// ErrAuthentication indicates that no access token could be obtained
	ErrAuthentication = errors.New("could not authenticate against Cloud CMS")

	// ErrTransport indicates that the request did not reach the API
	ErrTransport = errors.New("request to Cloud CMS failed")

	// ErrDecode indicates that the API responded with an unexpected payload
	ErrDecode = errors.New("could not decode Cloud CMS response")

	// ErrNotFound indicates that the API did not find the target resource
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates that the credentials are not allowed to access the target resource
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRemote indicates any other API error
	ErrRemote = errors.New("Cloud CMS API error")

	// ErrNoProject indicates that gitana.json names neither a project, an application nor a repository
	ErrNoProject = errors.New("gitana configuration must specify a project, an application or a repository")

	// ErrNoContentRepository indicates that the project stack has no content repository
	ErrNoContentRepository = errors.New("no content repository found for project")

	// ErrInvalidNode indicates that a node lookup was attempted without an id or a path
	ErrInvalidNode = errors.New("a node id or path is required")
)
