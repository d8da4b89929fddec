package cmd

import (
	"fmt"
	"io"
	"runtime"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

// stamped by release builds, e.g.
//
//	go build -ldflags "-X github.com/oneconcern/cmsctl/cmd/cmsctl/cmd.Version=v1.2.0"
var (
	Version   string
	BuildDate string
	GitCommit string
	GitState  string
)

// VersionInfo describes the build of this binary
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate,omitempty"`
	GitCommit string `json:"gitCommit,omitempty"`
	GitState  string `json:"gitState,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// NewVersionInfo returns the build information. Unstamped builds report "dev".
func NewVersionInfo() VersionInfo {
	ver := VersionInfo{
		Version:   "dev",
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GitState:  GitState,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if Version != "" {
		ver.Version = Version
		if ver.GitState == "" {
			ver.GitState = "clean"
		}
	}
	return ver
}

func (v VersionInfo) String() string {
	s := fmt.Sprintf("cmsctl %s (%s, %s)\n", v.Version, v.GoVersion, v.Platform)
	if v.GitCommit != "" {
		s += fmt.Sprintf("commit %s", v.GitCommit)
		if v.GitState != "" {
			s += " (" + v.GitState + ")"
		}
		s += "\n"
	}
	if v.BuildDate != "" {
		s += "built " + v.BuildDate + "\n"
	}
	return s
}

func printVersion(w io.Writer, asJSON bool) error {
	info := NewVersionInfo()
	if !asJSON {
		_, err := io.WriteString(w, info.String())
		return err
	}
	return jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w).Encode(info)
}

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "prints the version of cmsctl",
		Long: `Prints the version of cmsctl, the go toolchain it was built with and its target platform.

Release builds also report the git commit they were built from and the build date.
Builds from a dirty working tree are flagged as such.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printVersion(cmd.OutOrStdout(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the version as JSON")
	return cmd
}
