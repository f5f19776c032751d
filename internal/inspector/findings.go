// Package inspector talks to Amazon Inspector2 through the AWS CLI.
package inspector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/inspex/inspex/internal/awscli"
	"github.com/inspex/inspex/internal/types"
)

// Scenario is one of the predefined severity/status filter combinations the
// operator can pick.
type Scenario string

const (
	// ScenarioPriorityActive selects active critical/high findings with a
	// known exploit.
	ScenarioPriorityActive Scenario = "priority-active"
	// ScenarioAllActive selects all active critical/high findings.
	ScenarioAllActive Scenario = "all-active"
	// ScenarioAllClosed selects all closed critical/high findings.
	ScenarioAllClosed Scenario = "all-closed"
)

// Scenarios lists the selectable scenarios in prompt order.
var Scenarios = []Scenario{ScenarioPriorityActive, ScenarioAllActive, ScenarioAllClosed}

// Label is the human-readable prompt text for a scenario.
func (s Scenario) Label() string {
	switch s {
	case ScenarioPriorityActive:
		return "Critical & High, active, with known exploit"
	case ScenarioAllActive:
		return "Critical & High, all active"
	case ScenarioAllClosed:
		return "Critical & High, all closed"
	}
	panic(fmt.Sprintf("inspector: unknown scenario %q", string(s)))
}

// FileLabel is the scenario token used in output file names.
func (s Scenario) FileLabel() string {
	return strings.ReplaceAll(string(s), "-", "_")
}

// ByLabel maps a prompt label back to its scenario.
func ByLabel(label string) (Scenario, bool) {
	for _, s := range Scenarios {
		if s.Label() == label {
			return s, true
		}
	}
	return "", false
}

// StringFilter is one comparison inside an Inspector filter-criteria block.
type StringFilter struct {
	Comparison string `json:"comparison"`
	Value      string `json:"value"`
}

// FilterCriteria is the JSON document passed to
// `inspector2 list-findings --filter-criteria`.
type FilterCriteria struct {
	Severity         []StringFilter `json:"severity"`
	FindingStatus    []StringFilter `json:"findingStatus"`
	ExploitAvailable []StringFilter `json:"exploitAvailable,omitempty"`
}

func equals(v string) []StringFilter {
	return []StringFilter{{Comparison: "EQUALS", Value: v}}
}

// Filters expands a scenario into its two filter documents, CRITICAL first
// then HIGH, sharing the scenario's status (and exploit) predicate. An
// unknown scenario is a programming error and panics.
func (s Scenario) Filters() [2]FilterCriteria {
	var status types.Status
	exploit := false
	switch s {
	case ScenarioPriorityActive:
		status, exploit = types.StatusActive, true
	case ScenarioAllActive:
		status = types.StatusActive
	case ScenarioAllClosed:
		status = types.StatusClosed
	default:
		panic(fmt.Sprintf("inspector: unknown scenario %q", string(s)))
	}

	var out [2]FilterCriteria
	for i, sev := range []types.Severity{types.SevCritical, types.SevHigh} {
		fc := FilterCriteria{
			Severity:      equals(string(sev)),
			FindingStatus: equals(string(status)),
		}
		if exploit {
			fc.ExploitAvailable = equals("YES")
		}
		out[i] = fc
	}
	return out
}

// Client issues Inspector2 queries through a Runner.
type Client struct {
	runner awscli.Runner
	log    *zap.SugaredLogger
}

// NewClient builds an Inspector2 client.
func NewClient(runner awscli.Runner, log *zap.SugaredLogger) *Client {
	return &Client{runner: runner, log: log}
}

type listFindingsOutput struct {
	Findings  []types.Finding `json:"findings"`
	NextToken string          `json:"nextToken"`
}

// Available probes whether Inspector2 can be used in the region. A clean
// answer means yes. A failure that looks like an access-control rejection
// also means yes: the service is offered there, the caller just lacks
// permission. Anything else means the service is not offered in the region.
func (c *Client) Available(ctx context.Context, profile, region string) bool {
	args := []string{"inspector2", "list-findings", "--max-results", "1", "--output", "json"}
	_, err := c.runner.Run(ctx, args, profile, region)
	if err == nil {
		return true
	}
	if isAccessDenied(err.Error()) {
		c.log.Debugw("probe denied but service present", "region", region)
		return true
	}
	c.log.Debugw("probe failed", "region", region, "error", err)
	return false
}

var accessDeniedMarkers = []string{
	"accessdenied",
	"accessdeniedexception",
	"unauthorizedoperation",
	"unauthorizedexception",
	"is not authorized",
}

func isAccessDenied(msg string) bool {
	msg = strings.ToLower(msg)
	for _, marker := range accessDeniedMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Fetch retrieves findings for a scenario: one query per severity, issued
// sequentially, results concatenated critical-first. Each query follows
// nextToken pagination until the page chain ends.
func (c *Client) Fetch(ctx context.Context, profile, region string, sc Scenario) ([]types.Finding, error) {
	var combined []types.Finding
	filters := sc.Filters()
	for i, fc := range filters {
		found, err := c.listAll(ctx, profile, region, fc)
		if err != nil {
			return nil, err
		}
		c.log.Infow("retrieved findings",
			"severity", fc.Severity[0].Value,
			"status", fc.FindingStatus[0].Value,
			"count", len(found),
			"query", fmt.Sprintf("%d/%d", i+1, len(filters)))
		combined = append(combined, found...)
	}
	return combined, nil
}

func (c *Client) listAll(ctx context.Context, profile, region string, fc FilterCriteria) ([]types.Finding, error) {
	criteria, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("encode filter criteria: %w", err)
	}

	var all []types.Finding
	token := ""
	for {
		args := []string{
			"inspector2", "list-findings",
			"--filter-criteria", string(criteria),
			"--max-results", "100",
			"--output", "json",
		}
		if token != "" {
			args = append(args, "--next-token", token)
		}
		var page listFindingsOutput
		if err := awscli.RunJSON(ctx, c.runner, args, profile, region, &page); err != nil {
			return nil, fmt.Errorf("list findings (severity %s): %w", fc.Severity[0].Value, err)
		}
		all = append(all, page.Findings...)
		if page.NextToken == "" {
			return all, nil
		}
		token = page.NextToken
	}
}
