package inspex

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/inspex/inspex/internal/awscli"
	"github.com/inspex/inspex/internal/config"
	"github.com/inspex/inspex/internal/regions"
	"github.com/inspex/inspex/internal/report"
)

var flagRegionsProfile string

func init() {
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List regions available to a profile",
		RunE:  runRegions,
	}
	rootCmd.AddCommand(cmd)
	cmd.Flags().StringVarP(&flagRegionsProfile, "profile", "p", "", "AWS profile to query with")
}

func runRegions(cmd *cobra.Command, _ []string) error {
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if cwd, err := os.Getwd(); err == nil {
		if c, err := config.LoadLocal(cwd); err == nil {
			lcfg = c
		}
	}

	runner := awscli.New(pickString(flagAWSBin, lcfg.AWSBin, gcfg.AWSBin), 0, log)
	catalog := regions.NewCatalog(runner, regionStore(lcfg, gcfg), log)

	ctx := cmd.Context()
	list := annotateDefault(
		catalog.List(ctx, flagRegionsProfile),
		catalog.Default(ctx, flagRegionsProfile, pickString("", lcfg.DefaultRegion, gcfg.DefaultRegion)),
	)
	return report.PrintList(os.Stdout, "Region", list)
}
