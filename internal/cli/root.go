package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "labelcheck",
	Short: "Labelcheck - alcohol label verification against application data",
	Long: `Labelcheck reads an alcohol beverage label image, recognizes its text,
and verifies the mandatory label elements against the submitted
application record.

It produces an explainable checklist: every rule reports pass,
needs-review, or fail with a message and, where possible, the bounding
box of the text that produced the finding. The tool flags candidates
for human review; it never issues approvals on its own.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command and maps the outcome to a process exit
// code: 0 clean, 1 critical label issues, 2 operational error. The split
// lets scripts tell a failing label from a broken install.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errCriticalIssues) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errCriticalIssues):
		return 1
	default:
		return 2
	}
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Labelcheck.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("labelcheck v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.labelcheck/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.labelcheck")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match LABELCHECK_*
	viper.SetEnvPrefix("LABELCHECK")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
