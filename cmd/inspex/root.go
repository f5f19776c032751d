package inspex

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/inspex/inspex/internal/logging"
	"github.com/inspex/inspex/internal/prompt"
)

var (
	flagVerbose       bool
	flagNoColor       bool
	flagAWSBin        string
	flagNoCache       bool
	flagSelfUpdate    bool
	flagNoUpdateCheck bool

	version = "0.1.0"

	log = logging.Nop()
)

// rootCmd is the base Cobra command for the inspex CLI.
var rootCmd = &cobra.Command{
	Use:           "inspex",
	Short:         "Export Amazon Inspector findings to CSV",
	Long:          "inspex drives the AWS CLI to pull Inspector vulnerability findings for a chosen profile, region and severity scenario, and writes them to a CSV file.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		l, err := logging.New(flagVerbose)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log = l
		if flagNoColor {
			prompt.SetNoColor(true)
		}
		if flagSelfUpdate {
			if err := selfUpdate(); err == nil {
				fmt.Fprintln(os.Stderr, "updated to latest; re-run command")
				os.Exit(0)
			}
		}
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		syncLog()
	},
}

// Execute runs the inspex CLI. It should be called by the main package.
func Execute() {
	// .env files feed the AWS_DEFAULT_REGION override in local dev.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		syncLog()
		os.Exit(2)
	}
}

func syncLog() {
	// Sync on stderr commonly fails on ttys; nothing to do about it.
	_ = log.Sync()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().StringVar(&flagAWSBin, "aws-bin", "", "path to the aws binary (default \"aws\")")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "disable the region catalog cache")
	rootCmd.PersistentFlags().BoolVar(&flagSelfUpdate, "self-update", false, "update inspex to the latest release")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
}
