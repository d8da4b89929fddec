package touch

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/oneconcern/cmsctl/pkg/errors"
	"github.com/oneconcern/cmsctl/pkg/gitana"
	"github.com/oneconcern/cmsctl/pkg/touch/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recorder tracks touch calls and detects overlapping calls
type recorder struct {
	mu       sync.Mutex
	calls    []string
	inflight int
	overlap  bool
}

func (r *recorder) enter(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, id)
	r.inflight++
	if r.inflight > 1 {
		r.overlap = true
	}
}

func (r *recorder) leave() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inflight--
}

type fakeNode struct {
	id  string
	err error
	rec *recorder
}

func (n *fakeNode) ID() string            { return n.id }
func (n *fakeNode) Object() gitana.Object { return gitana.Object{"_doc": n.id} }
func (n *fakeNode) Touch(_ context.Context) error {
	n.rec.enter(n.id)
	defer n.rec.leave()
	return n.err
}

type branchMock struct {
	mock.Mock
}

func (m *branchMock) QueryNodes(ctx context.Context, q gitana.Query, opts gitana.QueryOptions) ([]gitana.Node, error) {
	args := m.Called(q, opts)
	nodes, _ := args.Get(0).([]gitana.Node)
	return nodes, args.Error(1)
}

func makeNodes(rec *recorder, ids ...string) []gitana.Node {
	nodes := make([]gitana.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, &fakeNode{id: id, rec: rec})
	}
	return nodes
}

var testQuery = gitana.Query{"_type": "my:item"}

func TestRunTouchesAllInOrder(t *testing.T) {
	rec := &recorder{}
	branch := new(branchMock)
	branch.On("QueryNodes", testQuery, gitana.QueryOptions{Limit: gitana.NoLimit}).
		Return(makeNodes(rec, "a", "b", "c"), nil).Once()

	core, logs := observer.New(zapcore.DebugLevel)
	var states []State
	p := New(branch, Logger(zap.New(core)), Observer(func(e Event) { states = append(states, e.State) }))

	res, err := p.Run(context.Background(), testQuery)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Touched)
	assert.Equal(t, []string{"a", "b", "c"}, rec.calls)
	assert.False(t, rec.overlap)
	assert.Equal(t, []State{Idle, Querying, Touching, Touching, Touching, Done}, states)
	branch.AssertExpectations(t)

	assert.Equal(t, 1, logs.FilterMessage("touching b").Len())
	assert.Equal(t, 1, logs.FilterMessage("touch complete").Len())
}

func TestRunStopsOnFirstFailure(t *testing.T) {
	rec := &recorder{}
	nodes := makeNodes(rec, "a", "b", "c", "d")
	cause := stderrors.New("network error")
	nodes[1].(*fakeNode).err = cause

	branch := new(branchMock)
	branch.On("QueryNodes", testQuery, mock.Anything).Return(nodes, nil)

	core, logs := observer.New(zapcore.InfoLevel)
	var last Event
	p := New(branch, Logger(zap.New(core)), Observer(func(e Event) { last = e }))

	res, err := p.Run(context.Background(), testQuery)
	require.Error(t, err)
	assert.Equal(t, []string{"a", "b"}, rec.calls, "nodes after the failing one must never be touched")
	assert.Equal(t, 1, res.Touched)

	assert.True(t, errors.Is(err, status.ErrTouch))
	assert.True(t, errors.Is(err, cause))
	var nodeErr *NodeError
	require.True(t, errors.As(err, &nodeErr))
	assert.Equal(t, "b", nodeErr.NodeID)
	assert.Equal(t, 1, nodeErr.Index)

	assert.Equal(t, Failed, last.State)
	assert.Equal(t, "b", last.NodeID)
	assert.Equal(t, 1, logs.FilterMessage("Error touching nodes").Len())
}

func TestRunFailureAtEachPosition(t *testing.T) {
	ids := []string{"n1", "n2", "n3", "n4", "n5"}
	for k := range ids {
		rec := &recorder{}
		nodes := makeNodes(rec, ids...)
		nodes[k].(*fakeNode).err = stderrors.New("boom")

		branch := new(branchMock)
		branch.On("QueryNodes", testQuery, mock.Anything).Return(nodes, nil)

		_, err := New(branch).Run(context.Background(), testQuery)
		require.Error(t, err)
		assert.Equalf(t, ids[:k+1], rec.calls, "failure at call %d", k+1)
	}
}

func TestRunEmptyResult(t *testing.T) {
	branch := new(branchMock)
	branch.On("QueryNodes", testQuery, mock.Anything).Return([]gitana.Node{}, nil)

	var states []State
	res, err := New(branch, Observer(func(e Event) { states = append(states, e.State) })).Run(context.Background(), testQuery)
	require.NoError(t, err)
	assert.Zero(t, res.Touched)
	assert.Equal(t, []State{Idle, Querying, Done}, states)
}

func TestRunQueryFailure(t *testing.T) {
	cause := stderrors.New("query rejected")
	branch := new(branchMock)
	branch.On("QueryNodes", testQuery, mock.Anything).Return(nil, cause)

	var last Event
	_, err := New(branch, Observer(func(e Event) { last = e })).Run(context.Background(), testQuery)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrQuery))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, Failed, last.State)
}

func TestRunWithoutQuery(t *testing.T) {
	branch := new(branchMock)
	_, err := New(branch).Run(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrMissingQuery))
	branch.AssertNotCalled(t, "QueryNodes", mock.Anything, mock.Anything)
}

func TestRunCancelled(t *testing.T) {
	rec := &recorder{}
	branch := new(branchMock)
	branch.On("QueryNodes", testQuery, mock.Anything).Return(makeNodes(rec, "a", "b"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	p := New(branch, Observer(func(e Event) {
		if e.State == Touching && e.NodeID == "a" {
			cancel()
		}
	}))
	_, err := p.Run(ctx, testQuery)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, []string{"a"}, rec.calls)
}

func TestRunRateLimited(t *testing.T) {
	rec := &recorder{}
	branch := new(branchMock)
	branch.On("QueryNodes", testQuery, mock.Anything).Return(makeNodes(rec, "a", "b", "c"), nil)

	result, err := New(branch, Rate(1000)).Run(context.Background(), testQuery)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Touched)
	assert.Equal(t, []string{"a", "b", "c"}, rec.calls)

	// the second touch would only be allowed after the deadline
	rec = &recorder{}
	branch = new(branchMock)
	branch.On("QueryNodes", testQuery, mock.Anything).Return(makeNodes(rec, "a", "b"), nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	result, err = New(branch, Rate(0.01)).Run(ctx, testQuery)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrTouch))
	assert.Equal(t, 1, result.Touched)
	assert.Equal(t, []string{"a"}, rec.calls)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "touching", Touching.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", State(42).String())
}
