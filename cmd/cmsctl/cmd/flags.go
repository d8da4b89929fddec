// Copyright © 2018 One Concern

package cmd

import (
	"time"

	"github.com/oneconcern/cmsctl/pkg/config"
	"github.com/oneconcern/cmsctl/pkg/gitana"
	"github.com/spf13/cobra"
)

type flagsT struct {
	root struct {
		help               bool
		verbose            bool
		insecureSkipVerify bool
		timeout            time.Duration
	}
	credentials struct {
		prompt  bool
		useFile bool
	}
	action struct {
		test       bool
		touch      bool
		ping       bool
		create     bool
		nodeByPath bool
		nodeByID   bool
	}
	node struct {
		path         string
		id           string
		dataFilePath string
	}
	gitana struct {
		filePath string
		branch   string
	}
	query struct {
		filePath string
		rate     float64
	}
	ping struct {
		username string
		password string
	}
}

func addHelpFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "help"
	cmd.Flags().BoolVarP(&flags.root.help, c, "h", false, "print this usage")
	return c
}

func addVerboseFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "verbose"
	cmd.Flags().BoolVarP(&flags.root.verbose, c, "v", false, "verbose logging")
	return c
}

func addPromptFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "prompt"
	cmd.Flags().BoolVarP(&flags.credentials.prompt, c, "p", false, "prompt for username and password. overrides gitana.json credentials")
	return c
}

func addUseCredentialsFileFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "use-credentials-file"
	cmd.Flags().BoolVarP(&flags.credentials.useFile, c, "c", false, "use credentials file ~/.cloudcms/credentials.json. overrides gitana.json credentials")
	return c
}

func addTouchFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "touch"
	cmd.Flags().BoolVarP(&flags.action.touch, c, "u", false, "touch nodes in query results")
	return c
}

func addCreateFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "create"
	cmd.Flags().BoolVarP(&flags.action.create, c, "r", false, "create node by path")
	return c
}

func addPingFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "ping"
	cmd.Flags().BoolVar(&flags.action.ping, c, false, "ping the api server")
	return c
}

func addNodeByPathFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "node-by-path"
	cmd.Flags().BoolVarP(&flags.action.nodeByPath, c, "n", false, "find a node by path specified in --node-path")
	return c
}

func addNodePathFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "node-path"
	cmd.Flags().StringVarP(&flags.node.path, c, "o", "", "node path")
	return c
}

func addNodeByIDFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "node-by-id"
	cmd.Flags().BoolVarP(&flags.action.nodeByID, c, "i", false, "find a node by ID specified in --node-id")
	return c
}

func addNodeIDFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "node-id"
	cmd.Flags().StringVarP(&flags.node.id, c, "e", "", "node id")
	return c
}

func addDataFilePathFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "data-file-path"
	cmd.Flags().StringVarP(&flags.node.dataFilePath, c, "d", "", "path to a json file to use as the data for node created by --create option")
	return c
}

func addTestFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "test"
	cmd.Flags().BoolVarP(&flags.action.test, c, "t", false, "test connection to cloud cms")
	return c
}

func addGitanaFilePathFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "gitana-file-path"
	cmd.Flags().StringVarP(&flags.gitana.filePath, c, "g", config.DefaultGitanaFile, "path to gitana.json file to use when connecting")
	return c
}

func addBranchFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "branch"
	cmd.Flags().StringVarP(&flags.gitana.branch, c, "b", gitana.DefaultBranch, `branch id (not branch name!) to write content to. branch id or "master"`)
	return c
}

func addQueryFilePathFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "query-file-path"
	cmd.Flags().StringVarP(&flags.query.filePath, c, "y", "", "path to a json file defining the query")
	return c
}

func addTouchRateFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "touch-rate"
	cmd.Flags().Float64Var(&flags.query.rate, c, 0, "maximum number of nodes touched per second. Defaults to no limit")
	return c
}

func addUsernameFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "username"
	cmd.Flags().StringVar(&flags.ping.username, c, "", "username (used by --ping)")
	return c
}

func addPasswordFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "password"
	cmd.Flags().StringVar(&flags.ping.password, c, "", "password (used by --ping)")
	return c
}

func addInsecureSkipVerifyFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "insecure-skip-verify"
	cmd.Flags().BoolVar(&flags.root.insecureSkipVerify, c, false, "do not verify the API server TLS certificate, e.g. when calls go through an intercepting proxy")
	return c
}

func addTimeoutFlag(cmd *cobra.Command, flags *flagsT) string {
	c := "timeout"
	cmd.Flags().DurationVar(&flags.root.timeout, c, 0, "timeout for each API request (e.g. 30s). Defaults to no timeout")
	return c
}

// addRootFlags registers flags in the order they are listed by the usage
func addRootFlags(cmd *cobra.Command, flags *flagsT) {
	cmd.Flags().SortFlags = false

	addHelpFlag(cmd, flags)
	addVerboseFlag(cmd, flags)
	addPromptFlag(cmd, flags)
	addUseCredentialsFileFlag(cmd, flags)
	addTouchFlag(cmd, flags)
	addCreateFlag(cmd, flags)
	addPingFlag(cmd, flags)
	addNodeByPathFlag(cmd, flags)
	addNodePathFlag(cmd, flags)
	addNodeByIDFlag(cmd, flags)
	addNodeIDFlag(cmd, flags)
	addDataFilePathFlag(cmd, flags)
	addTestFlag(cmd, flags)
	addGitanaFilePathFlag(cmd, flags)
	addBranchFlag(cmd, flags)
	addQueryFilePathFlag(cmd, flags)
	addTouchRateFlag(cmd, flags)
	addUsernameFlag(cmd, flags)
	addPasswordFlag(cmd, flags)
	addInsecureSkipVerifyFlag(cmd, flags)
	addTimeoutFlag(cmd, flags)
}

func (flags *flagsT) credentialOverrides() config.Overrides {
	return config.Overrides{
		UseCredentialsFile: flags.credentials.useFile,
		Prompt:             flags.credentials.prompt,
	}
}
