package cmd

import (
	"github.com/bnema/liftoff/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Version info set at build time
	Version = "0.1.0-dev"
	Commit  string
	Date    string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		logger.Infof("liftoff %s", Version)
		logger.Infof("commit: %s", Commit)
		logger.Infof("built: %s", Date)
	},
}
