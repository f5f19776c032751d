// Package regions resolves the set of AWS regions offered to the operator.
package regions

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/inspex/inspex/internal/awscli"
	"github.com/inspex/inspex/internal/cache"
)

// Fallback is the fixed region list used when the live query cannot be
// completed. Order is stable so prompts stay deterministic.
var Fallback = []string{
	"us-east-1", "us-east-2", "us-west-1", "us-west-2",
	"af-south-1",
	"ap-south-1", "ap-northeast-1", "ap-northeast-2",
	"ap-southeast-1", "ap-southeast-2",
	"ca-central-1",
	"eu-central-1", "eu-west-1", "eu-west-2", "eu-west-3", "eu-north-1",
	"sa-east-1",
}

// DefaultRegionEnv overrides the default region when set.
const DefaultRegionEnv = "AWS_DEFAULT_REGION"

// Catalog lists regions for a profile, preferring a live
// `ec2 describe-regions` answer and degrading to Fallback on any failure.
type Catalog struct {
	runner awscli.Runner
	store  *cache.Store // nil disables caching
	log    *zap.SugaredLogger
}

// NewCatalog builds a catalog. store may be nil to bypass caching.
func NewCatalog(runner awscli.Runner, store *cache.Store, log *zap.SugaredLogger) *Catalog {
	return &Catalog{runner: runner, store: store, log: log}
}

type describeRegionsOutput struct {
	Regions []struct {
		RegionName string `json:"RegionName"`
	} `json:"Regions"`
}

// List returns the regions available to the profile. It never fails: a
// broken query, empty answer, or unparsable output all degrade to Fallback.
func (c *Catalog) List(ctx context.Context, profile string) []string {
	if c.store != nil {
		if cached, ok := c.store.Get(profile); ok {
			c.log.Debugw("region catalog from cache", "profile", profile, "count", len(cached))
			return cached
		}
	}

	var out describeRegionsOutput
	err := awscli.RunJSON(ctx, c.runner, []string{"ec2", "describe-regions", "--output", "json"}, profile, "", &out)
	if err != nil || len(out.Regions) == 0 {
		c.log.Infow("region query failed, using built-in region list", "error", err)
		return Fallback
	}

	names := make([]string, 0, len(out.Regions))
	for _, r := range out.Regions {
		if r.RegionName != "" {
			names = append(names, r.RegionName)
		}
	}
	if len(names) == 0 {
		c.log.Info("region query returned no names, using built-in region list")
		return Fallback
	}
	c.log.Debugw("region catalog from live query", "count", len(names))
	if c.store != nil {
		if err := c.store.Put(profile, names); err != nil {
			c.log.Debugw("could not cache region catalog", "error", err)
		}
	}
	return names
}

// Default resolves the default region for a profile: the environment
// override wins, then an explicit configured value, then the region the AWS
// CLI itself is configured with. Returns "" when none is set.
func (c *Catalog) Default(ctx context.Context, profile, configured string) string {
	if env := strings.TrimSpace(os.Getenv(DefaultRegionEnv)); env != "" {
		return env
	}
	if configured != "" {
		return configured
	}
	res, err := c.runner.Run(ctx, []string{"configure", "get", "region"}, profile, "")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(res.Stdout))
}
