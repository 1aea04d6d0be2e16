package cmd

import (
	"fmt"
	"os"

	"github.com/frahmantamala/employee-api/internal"
	"github.com/frahmantamala/employee-api/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	clearData  bool
)

var rootCmd = &cobra.Command{
	Use:   "employee-api",
	Short: "Employee API",
	Long:  `HTTP API for employee records and user accounts.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and initialises the process logger from it.
func loadConfig(path string) (*internal.Config, error) {
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	logging := cfg.Observability.Logging
	logger.Init(cfg.App.Env, logging.Level, logging.Format)

	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory holding config.yml and .env")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
