package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "credibly",
	Short: "Credibly - short-form video credibility analysis",
	Long: `Credibly ingests a short-form video URL, extracts spoken and on-screen
text, segments it into sentence-level claims, scores each claim's
subjectivity and asks an external fact-check service for a per-claim
accuracy estimate.

Credibly reports a confidence-gated external opinion, not ground truth.`,
	Version:       "0.1.0",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(readConfigFile)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.credibly/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the credibly version",
		Run: func(*cobra.Command, []string) {
			fmt.Println("credibly", rootCmd.Version)
		},
	})
}

// readConfigFile points viper at the --config file, or at the conventional
// ~/.credibly/config.yaml when none was given. A missing file is not an
// error; defaults and CREDIBLY_* environment variables still apply.
func readConfigFile() {
	switch {
	case cfgFile != "":
		viper.SetConfigFile(cfgFile)
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".credibly"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}
}
