package inspector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspex/inspex/internal/awscli"
	"github.com/inspex/inspex/internal/logging"
	"github.com/inspex/inspex/internal/types"
)

type scriptedRunner struct {
	responses []awscli.Result
	errs      []error
	calls     [][]string
}

func (s *scriptedRunner) Run(_ context.Context, args []string, profile, region string) (awscli.Result, error) {
	i := len(s.calls)
	s.calls = append(s.calls, args)
	var res awscli.Result
	if i < len(s.responses) {
		res = s.responses[i]
	}
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return res, err
}

func pageOf(severity string, n int, next string) awscli.Result {
	findings := make([]types.Finding, n)
	for i := range findings {
		findings[i] = types.Finding{Severity: types.Severity(severity)}
	}
	b, _ := json.Marshal(map[string]any{"findings": findings, "nextToken": next})
	return awscli.Result{Stdout: b}
}

func criteriaOf(t *testing.T, args []string) FilterCriteria {
	t.Helper()
	for i, a := range args {
		if a == "--filter-criteria" {
			var fc FilterCriteria
			require.NoError(t, json.Unmarshal([]byte(args[i+1]), &fc))
			return fc
		}
	}
	t.Fatalf("no --filter-criteria in %v", args)
	return FilterCriteria{}
}

func TestFilters_AllActive(t *testing.T) {
	filters := ScenarioAllActive.Filters()
	assert.Equal(t, "CRITICAL", filters[0].Severity[0].Value)
	assert.Equal(t, "HIGH", filters[1].Severity[0].Value)
	for _, fc := range filters {
		assert.Equal(t, "ACTIVE", fc.FindingStatus[0].Value)
		assert.Empty(t, fc.ExploitAvailable)
	}
}

func TestFilters_PriorityActiveAddsExploitPredicate(t *testing.T) {
	for _, fc := range ScenarioPriorityActive.Filters() {
		assert.Equal(t, "ACTIVE", fc.FindingStatus[0].Value)
		require.Len(t, fc.ExploitAvailable, 1)
		assert.Equal(t, "YES", fc.ExploitAvailable[0].Value)
	}
}

func TestFilters_AllClosed(t *testing.T) {
	for _, fc := range ScenarioAllClosed.Filters() {
		assert.Equal(t, "CLOSED", fc.FindingStatus[0].Value)
	}
}

func TestFilters_UnknownScenarioPanics(t *testing.T) {
	assert.Panics(t, func() { Scenario("nonsense").Filters() })
}

func TestFetch_TwoQueriesCriticalBeforeHigh(t *testing.T) {
	r := &scriptedRunner{responses: []awscli.Result{
		pageOf("CRITICAL", 2, ""),
		pageOf("HIGH", 3, ""),
	}}
	c := NewClient(r, logging.Nop())

	got, err := c.Fetch(context.Background(), "dev", "eu-west-1", ScenarioAllActive)
	require.NoError(t, err)
	require.Len(t, r.calls, 2)

	first := criteriaOf(t, r.calls[0])
	second := criteriaOf(t, r.calls[1])
	assert.Equal(t, "CRITICAL", first.Severity[0].Value)
	assert.Equal(t, "HIGH", second.Severity[0].Value)
	assert.Equal(t, "ACTIVE", first.FindingStatus[0].Value)
	assert.Equal(t, "ACTIVE", second.FindingStatus[0].Value)

	require.Len(t, got, 5)
	for _, f := range got[:2] {
		assert.Equal(t, types.SevCritical, f.Severity)
	}
	for _, f := range got[2:] {
		assert.Equal(t, types.SevHigh, f.Severity)
	}
}

func TestFetch_FollowsPagination(t *testing.T) {
	r := &scriptedRunner{responses: []awscli.Result{
		pageOf("CRITICAL", 2, "token-a"),
		pageOf("CRITICAL", 1, ""),
		pageOf("HIGH", 0, ""),
	}}
	c := NewClient(r, logging.Nop())

	got, err := c.Fetch(context.Background(), "dev", "eu-west-1", ScenarioAllActive)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	require.Len(t, r.calls, 3)
	assert.Contains(t, r.calls[1], "--next-token")
	assert.Contains(t, r.calls[1], "token-a")
}

func TestFetch_PropagatesQueryFailure(t *testing.T) {
	r := &scriptedRunner{errs: []error{errors.New("aws inspector2 failed: exit status 254")}}
	c := NewClient(r, logging.Nop())

	_, err := c.Fetch(context.Background(), "dev", "eu-west-1", ScenarioAllClosed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "severity CRITICAL")
}

func TestFetch_EmptyResult(t *testing.T) {
	r := &scriptedRunner{responses: []awscli.Result{
		pageOf("CRITICAL", 0, ""),
		pageOf("HIGH", 0, ""),
	}}
	c := NewClient(r, logging.Nop())

	got, err := c.Fetch(context.Background(), "dev", "eu-west-1", ScenarioAllActive)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAvailable_TrueOnSuccess(t *testing.T) {
	r := &scriptedRunner{responses: []awscli.Result{{Stdout: []byte(`{"findings":[]}`)}}}
	c := NewClient(r, logging.Nop())
	assert.True(t, c.Available(context.Background(), "dev", "eu-west-1"))
}

func TestAvailable_TrueOnAccessDenied(t *testing.T) {
	cases := []string{
		"aws inspector2 failed: exit status 254: An error occurred (AccessDeniedException) when calling the ListFindings operation",
		"aws inspector2 failed: exit status 254: User: arn:aws:iam::123:user/x is not authorized to perform inspector2:ListFindings",
		"aws inspector2 failed: exit status 254: UnauthorizedOperation",
	}
	for _, msg := range cases {
		r := &scriptedRunner{errs: []error{fmt.Errorf("%s", msg)}}
		c := NewClient(r, logging.Nop())
		assert.True(t, c.Available(context.Background(), "dev", "eu-west-1"), msg)
	}
}

func TestAvailable_FalseOnGenericFailure(t *testing.T) {
	r := &scriptedRunner{errs: []error{errors.New("aws inspector2 failed: Could not connect to the endpoint URL")}}
	c := NewClient(r, logging.Nop())
	assert.False(t, c.Available(context.Background(), "dev", "mars-north-1"))
}

func TestByLabel_RoundTrip(t *testing.T) {
	for _, s := range Scenarios {
		got, ok := ByLabel(s.Label())
		require.True(t, ok)
		assert.Equal(t, s, got)
	}
	_, ok := ByLabel("no such label")
	assert.False(t, ok)
}

func TestFileLabel(t *testing.T) {
	assert.Equal(t, "priority_active", ScenarioPriorityActive.FileLabel())
	assert.Equal(t, "all_active", ScenarioAllActive.FileLabel())
	assert.Equal(t, "all_closed", ScenarioAllClosed.FileLabel())
}
