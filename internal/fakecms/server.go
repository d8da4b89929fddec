// Package fakecms provides an in-memory Cloud CMS API for tests.
//
// It serves the subset of the API used by cmsctl and records the touch
// calls it receives, in order.
package fakecms

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// ClientKey expected from the OAuth2 client
	ClientKey = "test-client-key"
	// ClientSecret expected from the OAuth2 client
	ClientSecret = "test-client-secret"
	// Username of the only known user
	Username = "tester"
	// Password of the only known user
	Password = "tester-password"

	// ApplicationID and the following identify the objects served by the fake
	ApplicationID = "app-1"
	StackID       = "stack-1"
	ProjectID     = "project-1"
	ProjectTitle  = "Test Project"
	RepositoryID  = "repo-1"
	BranchID      = "master"
	BranchTitle   = "Master"
	RootNodeID    = "root-node"

	token = "test-access-token"
)

// Server is a fake Cloud CMS API
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	nodes     []map[string]interface{}
	touched   []string
	failTouch map[string]int
	inflight  int
	overlap   bool
	requests  []string
	nextID    int
}

// New starts a fake API over plain HTTP. Close it when done.
func New() *Server {
	s := newServer()
	s.Server = httptest.NewServer(s)
	return s
}

// NewTLS starts a fake API over HTTPS, with a self-signed certificate.
func NewTLS() *Server {
	s := newServer()
	s.Server = httptest.NewTLSServer(s)
	return s
}

func newServer() *Server {
	return &Server{failTouch: make(map[string]int)}
}

// GitanaJSON renders a gitana.json pointing to this server
func (s *Server) GitanaJSON() string {
	return fmt.Sprintf(`{
  "clientKey": %q,
  "clientSecret": %q,
  "username": %q,
  "password": %q,
  "baseURL": %q,
  "application": %q
}`, ClientKey, ClientSecret, Username, Password, s.URL, ApplicationID)
}

// AddNode stores a node in the master branch. The node must have an "_doc" id.
// When path is not empty, the node is reachable by this path from the root node.
func (s *Server) AddNode(id, typ, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := map[string]interface{}{
		"_doc":  id,
		"_type": typ,
		"title": "node " + id,
	}
	if path != "" {
		n["_paths"] = map[string]interface{}{RootNodeID: path}
	}
	s.nodes = append(s.nodes, n)
}

// FailTouch makes touch calls on this node fail with an HTTP status code
func (s *Server) FailTouch(id string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failTouch[id] = code
}

// Touched lists the ids of the nodes touched so far, in call order (failed calls included)
func (s *Server) Touched() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.touched...)
}

// Overlapped tells if two touch calls were ever in flight at the same time
func (s *Server) Overlapped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlap
}

// Requests lists "METHOD /path" for all requests received
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Node returns a copy of a stored node
func (s *Server) Node(id string) (map[string]interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.find(id)
	if n == nil {
		return nil, false
	}
	c := make(map[string]interface{}, len(n))
	for k, v := range n {
		c[k] = v
	}
	return c, true
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	s.mu.Unlock()

	switch r.URL.Path {
	case "/oauth/token":
		s.token(w, r)
		return
	case "/ping":
		s.ping(w, r)
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+token {
		writeError(w, http.StatusUnauthorized, "invalid access token")
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.Method == http.MethodGet && match(parts, "projects", ProjectID):
		writeJSON(w, http.StatusOK, project())
	case r.Method == http.MethodGet && match(parts, "stacks", "find", "application", ApplicationID):
		writeJSON(w, http.StatusOK, map[string]interface{}{"_doc": StackID, "title": "Test Stack"})
	case r.Method == http.MethodPost && match(parts, "projects", "query"):
		s.queryProjects(w, r)
	case r.Method == http.MethodGet && match(parts, "stacks", StackID, "datastores"):
		writeJSON(w, http.StatusOK, rows([]map[string]interface{}{
			{"key": "principals", "datastoreId": "domain-1", "datastoreTypeId": "domain"},
			{"key": "content", "datastoreId": RepositoryID, "datastoreTypeId": "repository"},
		}))
	case r.Method == http.MethodGet && match(parts, "repositories", RepositoryID, "branches", BranchID):
		writeJSON(w, http.StatusOK, map[string]interface{}{"_doc": BranchID, "title": BranchTitle})
	case len(parts) >= 5 && match(parts[:5], "repositories", RepositoryID, "branches", BranchID, "nodes"):
		s.nodesAPI(w, r, parts[5:])
	default:
		writeError(w, http.StatusNotFound, "no such resource: "+r.URL.Path)
	}
}

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	key, secret, ok := r.BasicAuth()
	if !ok || key != ClientKey || secret != ClientSecret {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_client"})
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}
	if r.PostForm.Get("grant_type") != "password" ||
		r.PostForm.Get("username") != Username || r.PostForm.Get("password") != Password {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   3600,
	})
}

func (s *Server) ping(w http.ResponseWriter, r *http.Request) {
	user, pass, ok := r.BasicAuth()
	if !ok || user != Username || pass != Password {
		writeError(w, http.StatusUnauthorized, "bad credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"ok": "pong"})
}

func (s *Server) queryProjects(w http.ResponseWriter, r *http.Request) {
	var q map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q["stackId"] != StackID {
		writeJSON(w, http.StatusOK, rows(nil))
		return
	}
	writeJSON(w, http.StatusOK, rows([]map[string]interface{}{project()}))
}

func (s *Server) nodesAPI(w http.ResponseWriter, r *http.Request, parts []string) {
	switch {
	case r.Method == http.MethodPost && len(parts) == 0:
		s.createNode(w, r)
	case r.Method == http.MethodPost && match(parts, "query"):
		s.queryNodes(w, r)
	case r.Method == http.MethodGet && len(parts) == 1:
		s.readNode(w, r, parts[0])
	case r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "touch":
		s.touch(w, parts[0])
	default:
		writeError(w, http.StatusNotFound, "no such resource: "+r.URL.Path)
	}
}

func (s *Server) readNode(w http.ResponseWriter, r *http.Request, id string) {
	s.mu.Lock()
	var n map[string]interface{}
	if path := r.URL.Query().Get("path"); path != "" && id == "root" {
		n = s.findByPath(path)
	} else {
		n = s.find(id)
	}
	s.mu.Unlock()
	if n == nil {
		writeError(w, http.StatusNotFound, "node not found")
		return
	}
	out := make(map[string]interface{}, len(n))
	for k, v := range n {
		if k == "_paths" && r.URL.Query().Get("paths") != "true" {
			continue
		}
		out[k] = v
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createNode(w http.ResponseWriter, r *http.Request) {
	var n map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil || n == nil {
		writeError(w, http.StatusBadRequest, "invalid node")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := "created-" + strconv.Itoa(s.nextID)
	n["_doc"] = id
	if p, ok := n["_filePath"].(string); ok && p != "" {
		if s.findByPath(p) != nil {
			writeError(w, http.StatusConflict, "a node already exists at path "+p)
			return
		}
		n["_paths"] = map[string]interface{}{RootNodeID: p}
	}
	s.nodes = append(s.nodes, n)
	writeJSON(w, http.StatusOK, map[string]interface{}{"_doc": id})
}

// queryNodes matches nodes with string properties equal to the query's, in insertion order
func (s *Server) queryNodes(w http.ResponseWriter, r *http.Request) {
	var q map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid query")
		return
	}
	if r.URL.Query().Get("limit") != "-1" {
		writeError(w, http.StatusBadRequest, "this fake only serves unlimited queries")
		return
	}
	s.mu.Lock()
	var found []map[string]interface{}
	for _, n := range s.nodes {
		if matches(n, q) {
			found = append(found, n)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, rows(found))
}

func (s *Server) touch(w http.ResponseWriter, id string) {
	s.mu.Lock()
	s.touched = append(s.touched, id)
	s.inflight++
	if s.inflight > 1 {
		s.overlap = true
	}
	code, fails := s.failTouch[id]
	exists := s.find(id) != nil
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()

	switch {
	case fails:
		writeError(w, code, "touch failed for node "+id)
	case !exists:
		writeError(w, http.StatusNotFound, "node not found")
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
	}
}

func (s *Server) find(id string) map[string]interface{} {
	for _, n := range s.nodes {
		if n["_doc"] == id {
			return n
		}
	}
	return nil
}

func (s *Server) findByPath(path string) map[string]interface{} {
	for _, n := range s.nodes {
		paths, _ := n["_paths"].(map[string]interface{})
		for _, p := range paths {
			if p == path {
				return n
			}
		}
	}
	return nil
}

// matches only checks string criteria: operators such as $in are ignored
func matches(n, q map[string]interface{}) bool {
	for k, v := range q {
		expected, ok := v.(string)
		if !ok {
			continue
		}
		if n[k] != expected {
			return false
		}
	}
	return true
}

func match(parts []string, expected ...string) bool {
	if len(parts) != len(expected) {
		return false
	}
	for i := range parts {
		if parts[i] != expected[i] {
			return false
		}
	}
	return true
}

func project() map[string]interface{} {
	return map[string]interface{}{"_doc": ProjectID, "title": ProjectTitle, "stackId": StackID}
}

func rows(r []map[string]interface{}) map[string]interface{} {
	if r == nil {
		r = []map[string]interface{}{}
	}
	return map[string]interface{}{"total_rows": len(r), "rows": r}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]interface{}{"error": true, "message": msg})
}
