package gitana

import (
	"context"

	"github.com/oneconcern/cmsctl/pkg/config"
)

// Node is a content record in a branch.
//
// Its content is not interpreted: Object exposes the raw JSON record.
type Node interface {
	ID() string
	Object() Object
	Touch(context.Context) error
}

// Branch is a line of content within a project, holding nodes
type Branch interface {
	ID() string
	Title() string
	RepositoryID() string
	Project() Project

	ReadNode(ctx context.Context, id, path string, opts ReadOptions) (Node, error)
	CreateNode(ctx context.Context, data Object) (Node, error)
	QueryNodes(ctx context.Context, query Query, opts QueryOptions) ([]Node, error)
}

// ConnectFunc connects to Cloud CMS and returns a handle on some branch
type ConnectFunc func(ctx context.Context, cfg *config.Gitana, branchID string, opts ...Option) (Branch, error)

// PingFunc pings a Cloud CMS API server, returning the response body
type PingFunc func(ctx context.Context, baseURL, username, password string, opts ...Option) (string, error)

var (
	_ ConnectFunc = Connect
	_ PingFunc    = Ping
)
