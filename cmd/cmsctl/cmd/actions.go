package cmd

import (
	"context"
	"fmt"
)

// action is the single operation carried out by an invocation
type action uint8

// actions, by decreasing priority when several action flags are set
const (
	actionNone action = iota
	actionTest
	actionTouch
	actionPing
	actionCreate
	actionFindByPath
	actionFindByID
)

func (a action) String() string {
	switch a {
	case actionTest:
		return "test"
	case actionTouch:
		return "touch"
	case actionPing:
		return "ping"
	case actionCreate:
		return "create"
	case actionFindByPath:
		return "node-by-path"
	case actionFindByID:
		return "node-by-id"
	default:
		return "none"
	}
}

// selectAction picks the action to run. When several action flags are set,
// the first one in this order wins: test, touch, ping, create, node-by-path, node-by-id.
func selectAction(flags *flagsT) action {
	switch {
	case flags.action.test:
		return actionTest
	case flags.action.touch:
		return actionTouch
	case flags.action.ping:
		return actionPing
	case flags.action.create:
		return actionCreate
	case flags.action.nodeByPath:
		return actionFindByPath
	case flags.action.nodeByID:
		return actionFindByID
	default:
		return actionNone
	}
}

// validate the inputs required by an action, before any network activity
func (a action) validate(flags *flagsT) error {
	required := func(value, flag string) error {
		if value == "" {
			return fmt.Errorf("--%s is required by --%s", flag, a)
		}
		return nil
	}
	switch a {
	case actionTouch:
		return required(flags.query.filePath, "query-file-path")
	case actionCreate:
		if err := required(flags.node.path, "node-path"); err != nil {
			return err
		}
		return required(flags.node.dataFilePath, "data-file-path")
	case actionFindByPath:
		return required(flags.node.path, "node-path")
	case actionFindByID:
		return required(flags.node.id, "node-id")
	default:
		return nil
	}
}

type handlerFunc func(context.Context, *invocation) error

func (a action) handler() handlerFunc {
	switch a {
	case actionTest:
		return handleTest
	case actionTouch:
		return handleTouch
	case actionPing:
		return handlePing
	case actionCreate:
		return handleNodePathCreate
	case actionFindByPath:
		return handleFindNodeByPath
	case actionFindByID:
		return handleFindNodeByID
	default:
		return func(context.Context, *invocation) error { return nil }
	}
}
