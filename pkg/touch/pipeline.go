// Package touch marks as modified every node matching a query, one node at a time.
//
// A run goes through the states:
//
//	Idle -> Querying -> Touching(0) ... Touching(n-1) -> Done
//
// and stops at Failed on the first error. Touch calls never overlap: each call
// completes before the next one starts, and nodes after a failed one are not touched.
package touch

import (
	"context"
	"fmt"
	"time"

	"github.com/oneconcern/cmsctl/pkg/gitana"
	"github.com/oneconcern/cmsctl/pkg/touch/status"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Querier retrieves nodes, as a gitana.Branch does
type Querier interface {
	QueryNodes(context.Context, gitana.Query, gitana.QueryOptions) ([]gitana.Node, error)
}

// Result of a successful run
type Result struct {
	Touched int
	Elapsed time.Duration
}

// NodeError tells which node failed to be touched
type NodeError struct {
	Index  int
	NodeID string
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s (#%d): %v", e.NodeID, e.Index+1, e.Err)
}

// Unwrap the touch error
func (e *NodeError) Unwrap() error {
	return e.Err
}

// Pipeline touches nodes on a branch
type Pipeline struct {
	branch   Querier
	logger   *zap.Logger
	observer func(Event)
	limiter  *rate.Limiter
	now      func() time.Time
}

// Option for the pipeline
type Option func(*Pipeline)

// Logger for progress messages
func Logger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// Observer is called synchronously on every state transition
func Observer(fn func(Event)) Option {
	return func(p *Pipeline) {
		p.observer = fn
	}
}

// Rate caps the number of touch calls per second. Zero or less means no cap.
func Rate(perSecond float64) Option {
	return func(p *Pipeline) {
		if perSecond > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// New touch pipeline on some branch
func New(branch Querier, opts ...Option) *Pipeline {
	p := &Pipeline{
		branch: branch,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, apply := range opts {
		apply(p)
	}
	return p
}

func (p *Pipeline) emit(e Event) {
	if p.observer != nil {
		p.observer(e)
	}
}

func (p *Pipeline) fail(e Event) error {
	e.State = Failed
	p.emit(e)
	return e.Err
}

// Run the pipeline. It returns once every node is touched, or on the first failure.
func (p *Pipeline) Run(ctx context.Context, query gitana.Query) (Result, error) {
	start := p.now()
	p.emit(Event{State: Idle})
	if query == nil {
		return Result{}, p.fail(Event{Err: status.ErrMissingQuery})
	}

	p.emit(Event{State: Querying})
	p.logger.Info("getNodesFromQuery()")
	nodes, err := p.branch.QueryNodes(ctx, query, gitana.QueryOptions{Limit: gitana.NoLimit})
	if err != nil {
		return Result{}, p.fail(Event{Err: status.ErrQuery.Wrap(err)})
	}

	total := len(nodes)
	p.logger.Info("touchNodes()", zap.Int("count", total))
	for i, node := range nodes {
		id := node.ID()
		if err = ctx.Err(); err != nil {
			return Result{Touched: i}, p.fail(Event{Index: i, Total: total, NodeID: id, Err: status.ErrTouch.Wrap(err)})
		}

		if p.limiter != nil {
			if err = p.limiter.Wait(ctx); err != nil {
				return Result{Touched: i}, p.fail(Event{Index: i, Total: total, NodeID: id, Err: status.ErrTouch.Wrap(err)})
			}
		}

		p.emit(Event{State: Touching, Index: i, Total: total, NodeID: id})
		p.logger.Info("touching "+id, zap.Int("index", i+1), zap.Int("total", total))

		if err = node.Touch(ctx); err != nil {
			p.logger.Error("Error touching nodes", zap.String("node", id), zap.Error(err))
			nodeErr := &NodeError{Index: i, NodeID: id, Err: err}
			return Result{Touched: i}, p.fail(Event{Index: i, Total: total, NodeID: id, Err: status.ErrTouch.Wrap(nodeErr)})
		}
	}

	p.logger.Debug("touch complete")
	result := Result{Touched: total, Elapsed: p.now().Sub(start)}
	p.emit(Event{State: Done, Index: total, Total: total})
	return result, nil
}
