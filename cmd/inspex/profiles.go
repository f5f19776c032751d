package inspex

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/inspex/inspex/internal/awsprofile"
	"github.com/inspex/inspex/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List AWS profiles from the shared config files",
		RunE: func(*cobra.Command, []string) error {
			profiles, err := awsprofile.Discover()
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				return errors.New("no AWS profiles found in ~/.aws/credentials or ~/.aws/config")
			}
			return report.PrintList(os.Stdout, "Profile", profiles)
		},
	}
	rootCmd.AddCommand(cmd)
}
