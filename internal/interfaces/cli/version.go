package cli

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func currentVersion() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (v VersionInfo) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "refcheck %s\n", v.Version)
	fmt.Fprintf(&sb, "  commit:   %s\n", v.GitCommit)
	fmt.Fprintf(&sb, "  built:    %s\n", v.BuildDate)
	fmt.Fprintf(&sb, "  go:       %s\n", v.GoVersion)
	fmt.Fprintf(&sb, "  platform: %s\n", v.Platform)
	return sb.String()
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return PrintResult(cmd, currentVersion())
		},
	}
}

//Personal.AI order the ending
