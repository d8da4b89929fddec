package gitana

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/oneconcern/cmsctl/pkg/gitana/status"
)

// NoLimit asks a query for all matching nodes
const NoLimit = -1

// RootNode is the id alias of the root node of a branch
const RootNode = "root"

// ReadOptions for reading a node
type ReadOptions struct {
	// Paths includes the "_paths" of the node in the response
	Paths bool
}

// QueryOptions for querying nodes
type QueryOptions struct {
	// Limit on the number of results. NoLimit (or zero) means all results.
	Limit int
}

// Project is the Cloud CMS project holding the branch
type Project struct {
	ID    string
	Title string
}

type branch struct {
	*client
	object       Object
	repositoryID string
	project      Project
}

func (b *branch) ID() string {
	return b.object.ID()
}

func (b *branch) Title() string {
	return b.object.String("title")
}

func (b *branch) RepositoryID() string {
	return b.repositoryID
}

func (b *branch) Project() Project {
	return b.project
}

func (b *branch) nodesPath() string {
	return escape("repositories", b.repositoryID, "branches", b.ID(), "nodes")
}

func (b *branch) nodePath(id string, action ...string) string {
	return b.nodesPath() + escape(append([]string{id}, action...)...)
}

// ReadNode reads a node by id, or by path relative to the node with this id when path is not empty.
func (b *branch) ReadNode(ctx context.Context, id, path string, opts ReadOptions) (Node, error) {
	if id == "" {
		if path == "" {
			return nil, status.ErrInvalidNode
		}
		id = RootNode
	}
	params := url.Values{}
	if path != "" {
		params.Set("path", path)
	}
	if opts.Paths {
		params.Set("paths", "true")
	}
	var obj Object
	if err := b.do(ctx, http.MethodGet, b.nodePath(id), params, nil, &obj); err != nil {
		return nil, err
	}
	return &node{object: obj, branch: b}, nil
}

// CreateNode creates a node then reads it back, with its paths
func (b *branch) CreateNode(ctx context.Context, data Object) (Node, error) {
	var created Object
	if err := b.do(ctx, http.MethodPost, b.nodesPath(), nil, data, &created); err != nil {
		return nil, err
	}
	id := created.ID()
	if id == "" {
		return nil, status.ErrDecode.Wrapf("create node: no id returned")
	}
	return b.ReadNode(ctx, id, "", ReadOptions{Paths: true})
}

// QueryNodes retrieves all nodes matching a query, in the order returned by the API
func (b *branch) QueryNodes(ctx context.Context, query Query, opts QueryOptions) ([]Node, error) {
	limit := opts.Limit
	if limit == 0 {
		limit = NoLimit
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if query == nil {
		query = Query{}
	}

	var result resultMap
	if err := b.do(ctx, http.MethodPost, b.nodesPath()+"/query", params, query, &result); err != nil {
		return nil, err
	}
	nodes := make([]Node, 0, len(result.Rows))
	for _, row := range result.Rows {
		nodes = append(nodes, &node{object: row, branch: b})
	}
	return nodes, nil
}
