package gitana

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/oneconcern/cmsctl/internal/fakecms"
	"github.com/oneconcern/cmsctl/pkg/config"
	"github.com/oneconcern/cmsctl/pkg/errors"
	"github.com/oneconcern/cmsctl/pkg/gitana/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *config.Gitana {
	return &config.Gitana{
		BaseURL:      baseURL,
		ClientKey:    fakecms.ClientKey,
		ClientSecret: fakecms.ClientSecret,
		Application:  fakecms.ApplicationID,
		Credentials: config.Credentials{
			Username: fakecms.Username,
			Password: fakecms.Password,
		},
	}
}

func TestConnect(t *testing.T) {
	srv := fakecms.New()
	defer srv.Close()
	ctx := context.Background()

	t.Run("by application", func(t *testing.T) {
		b, err := Connect(ctx, testConfig(srv.URL), "")
		require.NoError(t, err)
		assert.Equal(t, fakecms.BranchID, b.ID())
		assert.Equal(t, fakecms.BranchTitle, b.Title())
		assert.Equal(t, fakecms.RepositoryID, b.RepositoryID())
		assert.Equal(t, Project{ID: fakecms.ProjectID, Title: fakecms.ProjectTitle}, b.Project())
	})

	t.Run("by project", func(t *testing.T) {
		cfg := testConfig(srv.URL)
		cfg.Application = ""
		cfg.Project = fakecms.ProjectID
		b, err := Connect(ctx, cfg, fakecms.BranchID)
		require.NoError(t, err)
		assert.Equal(t, fakecms.ProjectTitle, b.Project().Title)
		assert.Equal(t, fakecms.RepositoryID, b.RepositoryID())
	})

	t.Run("by repository", func(t *testing.T) {
		cfg := testConfig(srv.URL)
		cfg.Application = ""
		cfg.Repository = fakecms.RepositoryID
		b, err := Connect(ctx, cfg, fakecms.BranchID)
		require.NoError(t, err)
		assert.Empty(t, b.Project().Title)
		assert.Equal(t, fakecms.BranchID, b.ID())
	})

	t.Run("no project", func(t *testing.T) {
		cfg := testConfig(srv.URL)
		cfg.Application = ""
		_, err := Connect(ctx, cfg, fakecms.BranchID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrNoProject))
	})

	t.Run("bad password", func(t *testing.T) {
		cfg := testConfig(srv.URL)
		cfg.Password = "wrong"
		_, err := Connect(ctx, cfg, fakecms.BranchID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrAuthentication))
	})

	t.Run("unknown branch", func(t *testing.T) {
		_, err := Connect(ctx, testConfig(srv.URL), "feature-x")
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrNotFound))

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, http.MethodGet, apiErr.Method)
		assert.Contains(t, apiErr.Error(), "no such resource")
	})
}

func TestConnectTLS(t *testing.T) {
	srv := fakecms.NewTLS()
	defer srv.Close()
	ctx := context.Background()

	_, err := Connect(ctx, testConfig(srv.URL), "")
	require.Error(t, err, "a self-signed certificate must be rejected by default")
	assert.True(t, errors.Is(err, status.ErrAuthentication))

	b, err := Connect(ctx, testConfig(srv.URL), "", WithInsecureSkipVerify(true), WithTimeout(10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, fakecms.BranchID, b.ID())

	b, err = Connect(ctx, testConfig(srv.URL), "", WithHTTPClient(srv.Client()))
	require.NoError(t, err, "a client trusting the server certificate needs no verification bypass")
	assert.Equal(t, fakecms.ProjectTitle, b.Project().Title)

	defaultTransport := http.DefaultTransport.(*http.Transport)
	if defaultTransport.TLSClientConfig != nil {
		assert.False(t, defaultTransport.TLSClientConfig.InsecureSkipVerify, "the process-wide transport must not be altered")
	}
}

func TestNodes(t *testing.T) {
	srv := fakecms.New()
	defer srv.Close()
	srv.AddNode("a", "my:item", "/items/a")
	srv.AddNode("b", "my:item", "")
	srv.AddNode("c", "my:other", "")
	ctx := context.Background()

	b, err := Connect(ctx, testConfig(srv.URL), "")
	require.NoError(t, err)

	t.Run("read by path", func(t *testing.T) {
		n, err := b.ReadNode(ctx, RootNode, "/items/a", ReadOptions{Paths: true})
		require.NoError(t, err)
		assert.Equal(t, "a", n.ID())
		assert.Equal(t, []string{"/items/a"}, n.Object().Paths())
	})

	t.Run("read by id", func(t *testing.T) {
		n, err := b.ReadNode(ctx, "b", "", ReadOptions{})
		require.NoError(t, err)
		assert.Equal(t, "node b", n.Object().String("title"))
	})

	t.Run("read missing", func(t *testing.T) {
		_, err := b.ReadNode(ctx, "zz", "", ReadOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrNotFound))

		_, err = b.ReadNode(ctx, "", "", ReadOptions{})
		assert.True(t, errors.Is(err, status.ErrInvalidNode))
	})

	t.Run("create", func(t *testing.T) {
		n, err := b.CreateNode(ctx, Object{"title": "new one", "_filePath": "/items/new"})
		require.NoError(t, err)
		assert.NotEmpty(t, n.ID())
		assert.Equal(t, []string{"/items/new"}, n.Object().Paths())

		_, err = b.CreateNode(ctx, Object{"title": "again", "_filePath": "/items/new"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, status.ErrRemote))
	})

	t.Run("query then touch", func(t *testing.T) {
		nodes, err := b.QueryNodes(ctx, Query{"_type": "my:item"}, QueryOptions{Limit: NoLimit})
		require.NoError(t, err)
		require.Len(t, nodes, 2)
		assert.Equal(t, "a", nodes[0].ID())
		assert.Equal(t, "b", nodes[1].ID())

		for _, n := range nodes {
			require.NoError(t, n.Touch(ctx))
		}
		assert.Equal(t, []string{"a", "b"}, srv.Touched())
	})

	t.Run("touch failure", func(t *testing.T) {
		srv.FailTouch("c", http.StatusInternalServerError)
		nodes, err := b.QueryNodes(ctx, Query{"_type": "my:other"}, QueryOptions{})
		require.NoError(t, err)
		require.Len(t, nodes, 1)

		err = nodes[0].Touch(ctx)
		require.Error(t, err)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Contains(t, err.Error(), "touch failed for node c")
	})
}

func TestPing(t *testing.T) {
	srv := fakecms.New()
	defer srv.Close()
	ctx := context.Background()

	body, err := Ping(ctx, srv.URL, fakecms.Username, fakecms.Password)
	require.NoError(t, err)
	assert.Contains(t, body, "pong")

	body, err = Ping(ctx, srv.URL, fakecms.Username, "nope")
	require.Error(t, err)
	assert.Contains(t, body, "bad credentials")
	assert.True(t, errors.Is(err, status.ErrUnauthorized))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, err = Ping(ctx, "http://127.0.0.1:1", "u", "p", WithTimeout(time.Second))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrTransport))
}
