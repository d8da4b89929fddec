// Package status declares error constants returned by the touch pipeline.
package status

import "github.com/oneconcern/cmsctl/pkg/errors"

var (
	// ErrQuery indicates that the nodes to touch could not be retrieved
	ErrQuery = errors.New("query nodes failed")

	// ErrTouch indicates that a node could not be touched: remaining nodes were skipped
	ErrTouch = errors.New("touch nodes failed")

	// ErrMissingQuery indicates that the pipeline was started without a query
	ErrMissingQuery = errors.New("a query is required to touch nodes")
)
