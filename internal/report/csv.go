// Package report turns findings into the CSV export and the console
// summary.
package report

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/inspex/inspex/internal/types"
)

// placeholder fills cells whose source field is absent.
const placeholder = "-"

// Header is the fixed CSV column order. Every finding produces exactly one
// row in this shape.
var Header = []string{
	"AWS Account ID",
	"Severity",
	"Vulnerability ID",
	"CWEs",
	"EPSS Score",
	"Exploit Available",
	"Remediation",
	"Resource Type",
	"Resource ID",
	"Image Registry",
	"Image Repository",
	"Image ID",
	"Image OS",
	"Image Tags",
	"Image Pushed At",
}

// RenderCSV serializes findings to CSV bytes, or nil when there is nothing
// to write. Quoting follows the usual CSV rules (fields containing commas,
// quotes or newlines are wrapped in double quotes with embedded quotes
// doubled); remediation text has its commas replaced with semicolons before
// that pass so the cell stays unquoted.
func RenderCSV(findings []types.Finding) ([]byte, error) {
	if len(findings) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, f := range findings {
		if err := w.Write(Row(f)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// Row flattens one finding into its 15 cells.
func Row(f types.Finding) []string {
	res := f.FirstResource()

	cells := []string{
		orDash(f.AwsAccountID),
		orDash(string(f.Severity)),
		orDash(f.VulnerabilityID()),
		cwes(f),
		epss(f),
		orDash(f.ExploitAvailable),
		remediation(f),
		orDash(res.Type),
		orDash(res.ID),
	}
	return append(cells, imageCells(res)...)
}

func orDash(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func cwes(f types.Finding) string {
	d := f.PackageVulnerabilityDetails
	if d == nil || len(d.Cwes) == 0 {
		return placeholder
	}
	return strings.Join(d.Cwes, ", ")
}

func epss(f types.Finding) string {
	score, ok := f.EpssScore()
	if !ok {
		return placeholder
	}
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// remediation pre-substitutes commas so the text never triggers quoting on
// its own; semicolons read the same in a spreadsheet.
func remediation(f types.Finding) string {
	text := f.RemediationText()
	if text == "" {
		return placeholder
	}
	return strings.ReplaceAll(text, ",", ";")
}

func imageCells(res types.Resource) []string {
	if res.Details == nil || res.Details.AwsEcrContainerImage == nil {
		return []string{placeholder, placeholder, placeholder, placeholder, placeholder, placeholder}
	}
	img := res.Details.AwsEcrContainerImage
	tags := placeholder
	if len(img.ImageTags) > 0 {
		tags = strings.Join(img.ImageTags, "; ")
	}
	return []string{
		orDash(img.Registry),
		orDash(img.RepositoryName),
		orDash(img.ImageHash),
		orDash(img.Platform),
		tags,
		orDash(img.PushedAt),
	}
}
