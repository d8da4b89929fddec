package cmd

import (
	"context"
	"fmt"

	"github.com/oneconcern/cmsctl/pkg/config"
	"github.com/oneconcern/cmsctl/pkg/gitana"
	"go.uber.org/zap"
)

// invocation holds what a handler needs: resolved configuration, flags and logger
type invocation struct {
	flags  *flagsT
	config *config.Gitana
	logger *zap.Logger
}

// newInvocation loads gitana.json and resolves the credentials in effect
func newInvocation(flags *flagsT, logger *zap.Logger) (*invocation, error) {
	cfg, err := config.Load(appFs, flags.gitana.filePath)
	if err != nil {
		return nil, err
	}

	overrides := flags.credentialOverrides()
	if overrides.UseCredentialsFile {
		if overrides.CredentialsPath, err = credentialsPath(); err != nil {
			return nil, err
		}
	}
	var prompter config.Prompter
	if overrides.Prompt {
		prompter = newPrompter()
	}
	source, err := config.Resolve(appFs, cfg, overrides, prompter)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded configuration",
		zap.String("file", flags.gitana.filePath),
		zap.Stringer("credentials", source),
		zap.Any("config", cfg.Redacted()),
	)

	return &invocation{
		flags:  flags,
		config: cfg,
		logger: logger,
	}, nil
}

func (inv *invocation) clientOptions() []gitana.Option {
	return []gitana.Option{
		gitana.WithLogger(inv.logger),
		gitana.WithInsecureSkipVerify(inv.flags.root.insecureSkipVerify),
		gitana.WithTimeout(inv.flags.root.timeout),
	}
}

// branch connects to the target branch and reports which project and branch this is
func (inv *invocation) branch(ctx context.Context) (gitana.Branch, error) {
	branch, err := connect(ctx, inv.config, inv.flags.gitana.branch, inv.clientOptions()...)
	if err != nil {
		inv.logger.Error("Error connecting to Cloud CMS branch", zap.String("branch", inv.flags.gitana.branch), zap.Error(err))
		return nil, err
	}

	title := branch.Title()
	if title == "" {
		title = branch.ID()
	}
	inv.logger.Info(fmt.Sprintf("connected to project: %q branch: %s", branch.Project().Title, title))
	return branch, nil
}

// logNode logs the enhanced JSON rendering of a node
func (inv *invocation) logNode(node gitana.Node) error {
	js, err := gitana.MarshalIndent(gitana.Enhance(node.Object()))
	if err != nil {
		inv.logger.Error("could not render node", zap.String("node", node.ID()), zap.Error(err))
		return err
	}
	inv.logger.Info(js)
	return nil
}
