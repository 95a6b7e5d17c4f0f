package cmd

import (
	"github.com/bnema/liftoff/internal/config"
	"github.com/bnema/liftoff/internal/logger"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage liftoff configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()

		logger.Info("Current Configuration:")
		logger.Infof("Config file: %s\n", config.GetConfigPath())

		logger.Info("[Device]")
		logger.Infof("  Path: %s", cfg.Device.Path)
		if cfg.Device.PlanesCap == 0 {
			logger.Info("  Planes Cap: from kernel")
		} else {
			logger.Infof("  Planes Cap: %d", cfg.Device.PlanesCap)
		}

		logger.Info("\n[Allocator]")
		logger.Infof("  Priority Period: %d page flips", cfg.Allocator.PriorityPeriod)

		logger.Info("\n[Logging]")
		if cfg.Logging.LogLevel == "" {
			logger.Info("  Log Level: from LOG_LEVEL")
		} else {
			logger.Infof("  Log Level: %s", cfg.Logging.LogLevel)
		}

		return nil
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save current configuration to file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(); err != nil {
			return err
		}
		logger.Infof("Configuration saved to: %s", config.GetConfigPath())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(config.GetConfigPath())
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSaveCmd)
	configCmd.AddCommand(configPathCmd)
}
