package gitana

import (
	"context"
	"net/http"
	"net/url"

	"github.com/oneconcern/cmsctl/pkg/config"
	"github.com/oneconcern/cmsctl/pkg/gitana/status"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultBranch is the branch used when none is specified
const DefaultBranch = "master"

// contentDatastore is the key of the content repository in a project stack
const contentDatastore = "content"

// Connect authenticates against Cloud CMS with the OAuth2 password flow,
// then resolves the branch of the project content repository.
//
// The project is resolved from the "project" setting, or else from the stack
// the "application" belongs to. The "repository" setting, when present, skips
// the lookup of the content repository.
func Connect(ctx context.Context, cfg *config.Gitana, branchID string, opts ...Option) (Branch, error) {
	s := defaultSettings()
	for _, apply := range opts {
		apply(&s)
	}
	if branchID == "" {
		branchID = DefaultBranch
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientKey,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.BaseURL + "/oauth/token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	base := s.client()
	octx := context.WithValue(ctx, oauth2.HTTPClient, base)
	token, err := oauthConfig.PasswordCredentialsToken(octx, cfg.Username, cfg.Password)
	if err != nil {
		return nil, status.ErrAuthentication.Wrap(err)
	}
	s.logger.Debug("authenticated", zap.String("baseURL", cfg.BaseURL), zap.String("username", cfg.Username))

	api := oauthConfig.Client(octx, token)
	api.Timeout = base.Timeout
	c := &client{
		baseURL: cfg.BaseURL,
		http:    api,
		logger:  s.logger,
	}

	project, stackID, err := c.resolveProject(ctx, cfg)
	if err != nil {
		return nil, err
	}

	repositoryID := cfg.Repository
	if repositoryID == "" {
		if repositoryID, err = c.contentRepository(ctx, stackID); err != nil {
			return nil, err
		}
	}

	var obj Object
	if err = c.do(ctx, http.MethodGet, escape("repositories", repositoryID, "branches", branchID), nil, nil, &obj); err != nil {
		return nil, err
	}
	s.logger.Debug("resolved branch",
		zap.String("project", project.ID),
		zap.String("repository", repositoryID),
		zap.String("branch", obj.ID()),
	)
	return &branch{
		client:       c,
		object:       obj,
		repositoryID: repositoryID,
		project:      project,
	}, nil
}

// resolveProject returns the project and the id of its stack
func (c *client) resolveProject(ctx context.Context, cfg *config.Gitana) (Project, string, error) {
	var project Object
	switch {
	case cfg.Project != "":
		if err := c.do(ctx, http.MethodGet, escape("projects", cfg.Project), nil, nil, &project); err != nil {
			return Project{}, "", err
		}

	case cfg.Application != "":
		var stack Object
		if err := c.do(ctx, http.MethodGet, escape("stacks", "find", "application", cfg.Application), nil, nil, &stack); err != nil {
			return Project{}, "", err
		}
		var result resultMap
		params := url.Values{}
		params.Set("limit", "1")
		if err := c.do(ctx, http.MethodPost, "/projects/query", params, Object{"stackId": stack.ID()}, &result); err != nil {
			return Project{}, "", err
		}
		if len(result.Rows) == 0 {
			return Project{}, "", status.ErrNotFound.Wrapf("no project for application %q", cfg.Application)
		}
		project = result.Rows[0]

	case cfg.Repository != "":
		return Project{}, "", nil

	default:
		return Project{}, "", status.ErrNoProject
	}

	return Project{ID: project.ID(), Title: project.String("title")}, project.String("stackId"), nil
}

// contentRepository finds the id of the content repository attached to a stack
func (c *client) contentRepository(ctx context.Context, stackID string) (string, error) {
	if stackID == "" {
		return "", status.ErrNoContentRepository.Wrapf("project has no stack")
	}
	var result resultMap
	if err := c.do(ctx, http.MethodGet, escape("stacks", stackID, "datastores"), nil, nil, &result); err != nil {
		return "", err
	}
	for _, row := range result.Rows {
		if row.String("key") == contentDatastore {
			if id := row.String("datastoreId"); id != "" {
				return id, nil
			}
		}
	}
	return "", status.ErrNoContentRepository.Wrapf("stack %s", stackID)
}
