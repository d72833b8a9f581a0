// Package commands implements the CLI commands for washwatch.
package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/washwatch/washwatch/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "washwatch",
	Short: "Scrape laundry machine occupancy into an append-only log",
	Long: `Washwatch reads the live occupancy of washers and dryers from a
status page, normalizes whatever markup the page happens to render
(table, ARIA grid, or card tiles), and appends one observation row per
machine to a sheet web-app and/or a local CSV.

Scheduling is external: run it from cron or a CI workflow.

Examples:
  # Observe the status widget directly
  washwatch observe -u "https://status.example.com/widget?room=1"

  # Observe through a page that lazy-loads the widget in an iframe,
  # posting rows to a Google Sheets web app
  washwatch observe -u "https://example.com/laundry" \
      --sink-url "https://script.google.com/macros/s/.../exec" \
      --csv data/status.csv`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.washwatch.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version.Full())
		},
	})
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".washwatch")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("WASHWATCH")
	viper.AutomaticEnv()

	// Legacy env names from the original cron deployment keep working.
	_ = viper.BindEnv("url", "WASHWATCH_URL", "TARGET_URL")
	_ = viper.BindEnv("sink_url", "WASHWATCH_SINK_URL", "SHEET_WEBAPP_URL")

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
