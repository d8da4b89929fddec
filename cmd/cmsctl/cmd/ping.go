package cmd

import (
	"context"

	"github.com/oneconcern/cmsctl/pkg/errors"
	"github.com/oneconcern/cmsctl/pkg/gitana"
	"go.uber.org/zap"
)

// handlePing pings the API server with the credentials given on the command line,
// not the ones from gitana.json.
func handlePing(ctx context.Context, inv *invocation) error {
	inv.logger.Debug("handlePing()")

	body, err := ping(ctx, inv.config.BaseURL, inv.flags.ping.username, inv.flags.ping.password, inv.clientOptions()...)
	if err != nil {
		fields := []zap.Field{zap.Error(err), zap.String("body", body)}
		var apiErr *gitana.APIError
		if errors.As(err, &apiErr) {
			fields = append(fields, zap.Int("status", apiErr.StatusCode))
		}
		inv.logger.Error("error in request", fields...)
		return err
	}

	inv.logger.Info("completed request: " + body)
	return nil
}
