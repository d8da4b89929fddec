package cmd

import (
	"context"

	units "github.com/docker/go-units"
	"github.com/oneconcern/cmsctl/pkg/config"
	"github.com/oneconcern/cmsctl/pkg/gitana"
	"github.com/oneconcern/cmsctl/pkg/touch"
	"go.uber.org/zap"
)

// handleTouch touches all nodes matching the query in --query-file-path
func handleTouch(ctx context.Context, inv *invocation) error {
	inv.logger.Debug("handleTouch()")

	query, err := config.LoadDocument(appFs, inv.flags.query.filePath)
	if err != nil {
		inv.logger.Error("could not load query", zap.String("file", inv.flags.query.filePath), zap.Error(err))
		return err
	}

	branch, err := inv.branch(ctx)
	if err != nil {
		return err
	}

	pipeline := touch.New(branch,
		touch.Logger(inv.logger),
		touch.Rate(inv.flags.query.rate),
		touch.Observer(func(e touch.Event) {
			inv.logger.Debug("touch pipeline", zap.Stringer("state", e.State), zap.Int("index", e.Index), zap.Int("total", e.Total))
		}),
	)
	result, err := pipeline.Run(ctx, gitana.Query(query))
	if err != nil {
		inv.logger.Error("Error: "+err.Error(), zap.String("branch", branch.ID()))
		return err
	}

	inv.logger.Info("Touch complete",
		zap.Int("touched", result.Touched),
		zap.String("elapsed", units.HumanDuration(result.Elapsed)),
	)
	return nil
}
