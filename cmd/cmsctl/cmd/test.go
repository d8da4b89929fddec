package cmd

import (
	"context"
)

// handleTest connects to the branch, and does nothing else
func handleTest(ctx context.Context, inv *invocation) error {
	inv.logger.Debug("handleTest()")
	_, err := inv.branch(ctx)
	return err
}
