package cmd

import (
	"github.com/bnema/liftoff/internal/config"
	"github.com/bnema/liftoff/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "liftoff",
		Short: "liftoff - KMS plane offloading toolkit",
		Long: `liftoff inspects the layer model used to hand image layers to hardware
planes instead of compositing them: framebuffer metadata caching, GEM handle
cleanup and the priority windows that decide which layers deserve a plane.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to liftoff.toml")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		config.SetConfigPath(configPath)
	}
	if err := config.Init(); err != nil {
		return err
	}

	if level := config.Get().Logging.LogLevel; level != "" {
		logger.SetLevel(level)
	}
	return nil
}
