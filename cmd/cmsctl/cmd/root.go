// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/oneconcern/cmsctl/pkg/config"
	"github.com/oneconcern/cmsctl/pkg/dlogger"
	"github.com/oneconcern/cmsctl/pkg/errors"
	"github.com/oneconcern/cmsctl/pkg/gitana"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// collaborators, patched during tests
var (
	connect gitana.ConnectFunc = gitana.Connect
	ping    gitana.PingFunc    = gitana.Ping

	appFs = afero.NewOsFs()

	credentialsPath = config.DefaultCredentialsPath
	newPrompter     = func() config.Prompter { return config.NewTerminalPrompter(os.Stdin, os.Stderr) }
	newLogger       = func(verbose bool) (*zap.Logger, error) { return dlogger.GetLogger(dlogger.LevelFor(verbose)) }
)

func newRootCmd() *cobra.Command {
	flags := &flagsT{}
	root := &cobra.Command{
		Use:   "cmsctl",
		Short: "Touch nodes in a Cloud CMS project branch",
		Long: `cmsctl connects to a Cloud CMS project branch and runs one operation:
test the connection, ping the API server, find a node by path or id, create a node,
or touch all nodes matching a query.

Connection settings are read from a gitana.json file.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// flags parsed fine: from now on, failures are not about usage
			cmd.SilenceUsage = true
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags)
		},
	}
	addRootFlags(root, flags)
	root.SetHelpFunc(helpFunc)
	root.SetUsageFunc(usageFunc)
	root.AddCommand(newVersionCmd())
	return root
}

// rootCmd represents the base command
var rootCmd = newRootCmd()

// Execute runs the root command. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	var code exitCode
	if errors.As(err, &code) {
		osExit(int(code))
		return
	}
	wrapFatalWithCodef(1, "Error: %v", err)
}

// run selects the action to carry out, resolves the configuration then runs the action.
//
// Failures are logged here: the returned error only conveys the exit status.
func run(cmd *cobra.Command, flags *flagsT) error {
	act := selectAction(flags)
	if act == actionNone {
		return usageFunc(cmd)
	}

	logger, err := newLogger(flags.root.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Debug("selected action", zap.Stringer("action", act))

	if err = act.validate(flags); err != nil {
		logger.Error("invalid arguments", zap.Stringer("action", act), zap.Error(err))
		return exitCode(1)
	}

	inv, err := newInvocation(flags, logger)
	if err != nil {
		logger.Error("invalid configuration", zap.String("file", flags.gitana.filePath), zap.Error(err))
		return exitCode(1)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err = act.handler()(ctx, inv); err != nil {
		return exitCode(1)
	}
	return nil
}
