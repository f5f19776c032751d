package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspex/inspex/internal/types"
)

func TestSummarize(t *testing.T) {
	findings := []types.Finding{
		{Severity: types.SevCritical},
		{Severity: types.SevCritical},
		{Severity: types.SevHigh},
		{Severity: types.SevMedium},
	}
	s := Summarize(findings)
	assert.Equal(t, 2, s.Critical)
	assert.Equal(t, 1, s.High)
	assert.Equal(t, 1, s.Other)
	assert.Equal(t, 4, s.Total())
}

func TestPrintSummary(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, PrintSummary(&sb, Summary{Critical: 3, High: 7}))
	out := sb.String()
	assert.Contains(t, out, "CRITICAL")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "10")
}

func TestPrintList(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, PrintList(&sb, "Profile", []string{"dev", "prod"}))
	out := sb.String()
	assert.Contains(t, out, "dev")
	assert.Contains(t, out, "prod")
}
