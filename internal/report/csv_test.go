package report

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspex/inspex/internal/types"
)

func float(v float64) *float64 { return &v }

func fullFinding() types.Finding {
	return types.Finding{
		AwsAccountID:     "123456789012",
		Severity:         types.SevCritical,
		ExploitAvailable: "YES",
		Remediation: &types.Remediation{
			Recommendation: &types.Recommendation{Text: "Upgrade openssl to 3.0.9"},
		},
		PackageVulnerabilityDetails: &types.PackageVulnerabilityDetails{
			VulnerabilityID: "CVE-2023-0464",
			Cwes:            []string{"CWE-295", "CWE-400"},
			Cvss:            &types.CvssDetails{Epss: &types.EpssDetails{Score: float(0.973)}},
		},
		Resources: []types.Resource{{
			Type: "AWS_ECR_CONTAINER_IMAGE",
			ID:   "arn:aws:ecr:eu-west-1:123456789012:repository/api/sha256:abc",
			Details: &types.ResourceDetails{
				AwsEcrContainerImage: &types.EcrContainerImage{
					Registry:       "123456789012",
					RepositoryName: "api",
					ImageHash:      "sha256:abc",
					Platform:       "ALPINE_LINUX_3_17",
					ImageTags:      []string{"latest", "v1.2.3"},
					PushedAt:       "2026-07-01T10:00:00Z",
				},
			},
		}},
	}
}

func TestRenderCSV_EmptyInputIsNil(t *testing.T) {
	out, err := RenderCSV(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestRenderCSV_HeaderPlusOneRowPerFinding(t *testing.T) {
	out, err := RenderCSV([]types.Finding{fullFinding(), {}})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Header, records[0])
	for _, rec := range records[1:] {
		assert.Len(t, rec, 15)
	}
}

func TestRow_AllFieldsPresent(t *testing.T) {
	row := Row(fullFinding())
	assert.Equal(t, []string{
		"123456789012",
		"CRITICAL",
		"CVE-2023-0464",
		"CWE-295, CWE-400",
		"0.973",
		"YES",
		"Upgrade openssl to 3.0.9",
		"AWS_ECR_CONTAINER_IMAGE",
		"arn:aws:ecr:eu-west-1:123456789012:repository/api/sha256:abc",
		"123456789012",
		"api",
		"sha256:abc",
		"ALPINE_LINUX_3_17",
		"latest; v1.2.3",
		"2026-07-01T10:00:00Z",
	}, row)
}

func TestRow_AllOptionalFieldsAbsent(t *testing.T) {
	row := Row(types.Finding{})
	require.Len(t, row, 15)
	for i, cell := range row {
		assert.Equal(t, "-", cell, "cell %d (%s)", i, Header[i])
	}
}

func TestRow_EpssAbsentAtIntermediateLevel(t *testing.T) {
	f := types.Finding{
		PackageVulnerabilityDetails: &types.PackageVulnerabilityDetails{
			VulnerabilityID: "CVE-2024-1111",
			Cvss:            &types.CvssDetails{},
		},
	}
	row := Row(f)
	assert.Equal(t, "-", row[4])
}

func TestRow_RemediationCommaBecomesSemicolon(t *testing.T) {
	f := types.Finding{
		Remediation: &types.Remediation{
			Recommendation: &types.Recommendation{Text: "Upgrade curl, then restart the service"},
		},
	}
	out, err := RenderCSV([]types.Finding{f})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Upgrade curl; then restart the service")
	assert.NotContains(t, lines[1], `"Upgrade curl`)
}

func TestRow_RemediationQuoteIsEscaped(t *testing.T) {
	f := types.Finding{
		Remediation: &types.Remediation{
			Recommendation: &types.Recommendation{Text: `Set "safe mode" on`},
		},
	}
	out, err := RenderCSV([]types.Finding{f})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"Set ""safe mode"" on"`)
}

func TestRow_CweListQuotedByGenericPass(t *testing.T) {
	f := fullFinding()
	out, err := RenderCSV([]types.Finding{f})
	require.NoError(t, err)
	// Joined with ", " so the generic pass must quote the cell.
	assert.Contains(t, string(out), `"CWE-295, CWE-400"`)
}

func TestRow_ResourceWithoutImageDetails(t *testing.T) {
	f := types.Finding{
		Resources: []types.Resource{{Type: "AWS_EC2_INSTANCE", ID: "i-0abc"}},
	}
	row := Row(f)
	assert.Equal(t, "AWS_EC2_INSTANCE", row[7])
	assert.Equal(t, "i-0abc", row[8])
	for _, cell := range row[9:] {
		assert.Equal(t, "-", cell)
	}
}
