package inspex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/inspex/inspex/internal/audit"
	"github.com/inspex/inspex/internal/awscli"
	"github.com/inspex/inspex/internal/awsprofile"
	"github.com/inspex/inspex/internal/cache"
	"github.com/inspex/inspex/internal/config"
	"github.com/inspex/inspex/internal/inspector"
	"github.com/inspex/inspex/internal/prompt"
	"github.com/inspex/inspex/internal/regions"
	"github.com/inspex/inspex/internal/report"
	"github.com/inspex/inspex/internal/types"
	"github.com/inspex/inspex/internal/update"
)

var (
	flagProfile   string
	flagRegion    string
	flagScenario  string
	flagOutputDir string
	flagMaxOutput int64
)

const defaultSuffix = " (default)"

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export Inspector findings to CSV",
		Long:  "Walks through profile, region and scenario selection, pulls the matching Inspector findings and writes them to a timestamped CSV file.",
		RunE:  runExport,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagProfile, "profile", "p", "", "AWS profile (skips the profile prompt)")
	cmd.Flags().StringVarP(&flagRegion, "region", "r", "", "AWS region (skips the region prompt)")
	cmd.Flags().StringVarP(&flagScenario, "scenario", "s", "", "scenario: priority-active|all-active|all-closed (skips the scenario prompt)")
	cmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "", "directory for the CSV file (default current directory)")
	cmd.Flags().Int64Var(&flagMaxOutput, "max-output-bytes", 0, "stdout ceiling per aws invocation (default 64MiB)")
}

// runExport drives the whole pipeline. Pipeline failures are logged rather
// than returned so the process still exits zero after clean teardown; only
// flag misuse surfaces as a command error.
func runExport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !flagNoUpdateCheck {
		if latest, newer := update.Check(version); newer {
			fmt.Fprintf(os.Stderr, "(new version available: v%s)  run 'inspex --self-update' to upgrade\n", latest)
		}
	}

	if err := exportPipeline(ctx); err != nil {
		if errors.Is(err, prompt.ErrAborted) || errors.Is(err, context.Canceled) {
			log.Info("export cancelled")
			return nil
		}
		log.Errorw("export failed", "error", err)
	}
	return nil
}

func exportPipeline(ctx context.Context) error {
	// Config precedence: CLI > local > global.
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if cwd, err := os.Getwd(); err == nil {
		if c, err := config.LoadLocal(cwd); err == nil {
			lcfg = c
		}
	}

	if pickBool(false, lcfg.NoColor, gcfg.NoColor) {
		prompt.SetNoColor(true)
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if !interactive && (flagProfile == "" || flagRegion == "" || flagScenario == "") {
		return errors.New("stdin is not a terminal; pass --profile, --region and --scenario")
	}

	runner := awscli.New(
		pickString(flagAWSBin, lcfg.AWSBin, gcfg.AWSBin),
		pickInt64(flagMaxOutput, lcfg.MaxOutputBytes, gcfg.MaxOutputBytes),
		log,
	)

	profile, err := resolveProfile()
	if err != nil {
		return err
	}

	catalog := regions.NewCatalog(runner, regionStore(lcfg, gcfg), log)
	region, err := resolveRegion(ctx, catalog, profile, pickString("", lcfg.DefaultRegion, gcfg.DefaultRegion))
	if err != nil {
		return err
	}

	insp := inspector.NewClient(runner, log)

	available := false
	err = spin(interactive, fmt.Sprintf("Checking Inspector in %s", region), func() error {
		available = insp.Available(ctx, profile, region)
		return nil
	})
	if err != nil {
		return err
	}
	if !available {
		return fmt.Errorf("Inspector is not available in %s for profile %s", region, profile)
	}

	scenario, err := resolveScenario()
	if err != nil {
		return err
	}

	var findings []types.Finding
	err = spin(interactive, "Retrieving findings", func() error {
		var ferr error
		findings, ferr = insp.Fetch(ctx, profile, region, scenario)
		return ferr
	})
	if err != nil {
		return err
	}

	data, err := report.RenderCSV(findings)
	if err != nil {
		return err
	}
	if data == nil {
		log.Infow("no findings matched; nothing to export",
			"profile", profile, "region", region, "scenario", string(scenario))
		return nil
	}

	path := filepath.Join(
		pickString(flagOutputDir, lcfg.OutputDir, gcfg.OutputDir),
		outputFilename(scenario, time.Now()),
	)
	// A write failure is reported but does not abort teardown.
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Errorw("could not write export file", "path", path, "error", err)
	} else {
		log.Infow("export written", "path", path, "findings", len(findings))
	}

	sum := report.Summarize(findings)
	if err := report.PrintSummary(os.Stdout, sum); err != nil {
		log.Debugw("could not render summary", "error", err)
	}

	if hist, err := audit.NewLog(); err == nil {
		rec := audit.ExportRecord{
			Profile:    profile,
			Region:     region,
			Scenario:   string(scenario),
			Critical:   sum.Critical,
			High:       sum.High,
			OutputFile: path,
		}
		if err := hist.Append(rec); err != nil {
			log.Debugw("could not record export history", "error", err)
		}
	}
	return nil
}

func resolveProfile() (string, error) {
	profiles, err := awsprofile.Discover()
	if err != nil {
		return "", err
	}
	if flagProfile != "" {
		return flagProfile, nil
	}
	if len(profiles) == 0 {
		return "", errors.New("no AWS profiles found in ~/.aws/credentials or ~/.aws/config")
	}
	return prompt.Select("Select AWS profile", profiles, prompt.NumberValidator)
}

func resolveRegion(ctx context.Context, catalog *regions.Catalog, profile, configured string) (string, error) {
	if flagRegion != "" {
		return flagRegion, nil
	}
	options := annotateDefault(catalog.List(ctx, profile), catalog.Default(ctx, profile, configured))
	answer, err := prompt.Select("Select region", options, prompt.NumberValidator)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(answer, defaultSuffix), nil
}

func resolveScenario() (inspector.Scenario, error) {
	if flagScenario != "" {
		sc := inspector.Scenario(flagScenario)
		if !slices.Contains(inspector.Scenarios, sc) {
			return "", fmt.Errorf("unknown scenario %q (expected priority-active, all-active or all-closed)", flagScenario)
		}
		return sc, nil
	}
	labels := make([]string, len(inspector.Scenarios))
	for i, s := range inspector.Scenarios {
		labels[i] = s.Label()
	}
	answer, err := prompt.Select("Select findings to export", labels, prompt.NumberValidator)
	if err != nil {
		return "", err
	}
	sc, ok := inspector.ByLabel(answer)
	if !ok {
		return "", fmt.Errorf("unknown scenario label %q", answer)
	}
	return sc, nil
}

// regionStore builds the region cache unless disabled; cache trouble never
// blocks an export.
func regionStore(lcfg, gcfg config.FileConfig) *cache.Store {
	if pickBool(flagNoCache, lcfg.NoCache, gcfg.NoCache) {
		return nil
	}
	ttl := time.Duration(0)
	if raw := pickString("", lcfg.CacheTTL, gcfg.CacheTTL); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			ttl = d
		}
	}
	store, err := cache.NewStore(ttl)
	if err != nil {
		log.Debugw("region cache unavailable", "error", err)
		return nil
	}
	return store
}

// annotateDefault moves the default region to the front of the option list
// and tags it for display. The tag is stripped again after selection.
func annotateDefault(list []string, def string) []string {
	if def == "" {
		return list
	}
	out := make([]string, 0, len(list))
	found := false
	for _, r := range list {
		if r == def {
			found = true
			continue
		}
		out = append(out, r)
	}
	if !found {
		return list
	}
	return append([]string{def + defaultSuffix}, out...)
}

func outputFilename(sc inspector.Scenario, now time.Time) string {
	ts := strings.ReplaceAll(now.Format("2006-01-02T15:04:05"), ":", "-")
	return fmt.Sprintf("aws_inspector_%s_findings_%s.csv", sc.FileLabel(), ts)
}

func spin(interactive bool, title string, fn func() error) error {
	if !interactive {
		return fn()
	}
	return prompt.Spin(title, fn)
}
