package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/msto63/vibescript/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Zeigt die Version an",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("VibeScript v%s\n", version.Platform)
		fmt.Printf("  Sprache:    %s\n", version.ComponentVersion("language"))
		fmt.Printf("  Playground: %s\n", version.ComponentVersion("playground"))
		fmt.Printf("  REPL:       %s\n", version.ComponentVersion("repl"))
		fmt.Printf("  Store:      %s\n", version.ComponentVersion("store"))
		fmt.Printf("  Git Commit: %s\n", version.Commit)
		fmt.Printf("  Build Date: %s\n", version.BuildDate)
		fmt.Printf("  Go Version: %s\n", runtime.Version())
		fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
