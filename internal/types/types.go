package types

// Severity is the Inspector severity bucket attached to a finding.
type Severity string

const (
	SevCritical Severity = "CRITICAL"
	SevHigh     Severity = "HIGH"
	SevMedium   Severity = "MEDIUM"
	SevLow      Severity = "LOW"
)

// Status is the lifecycle state of a finding.
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusClosed Status = "CLOSED"
)

// Finding is a single Inspector vulnerability record as emitted by
// `aws inspector2 list-findings`. Fields we never read are omitted; the
// decoder drops them. Findings are read-only once decoded.
type Finding struct {
	AwsAccountID                string                       `json:"awsAccountId"`
	Severity                    Severity                     `json:"severity"`
	Status                      Status                       `json:"status"`
	Title                       string                       `json:"title"`
	ExploitAvailable            string                       `json:"exploitAvailable"`
	Remediation                 *Remediation                 `json:"remediation"`
	PackageVulnerabilityDetails *PackageVulnerabilityDetails `json:"packageVulnerabilityDetails"`
	Resources                   []Resource                   `json:"resources"`
}

// Remediation carries the recommended fix for a finding.
type Remediation struct {
	Recommendation *Recommendation `json:"recommendation"`
}

type Recommendation struct {
	Text string `json:"text"`
	URL  string `json:"Url"`
}

// PackageVulnerabilityDetails describes the CVE behind a finding.
type PackageVulnerabilityDetails struct {
	VulnerabilityID string       `json:"vulnerabilityId"`
	Cwes            []string     `json:"cwes"`
	Cvss            *CvssDetails `json:"cvss"`
	Source          string       `json:"source"`
	SourceURL       string       `json:"sourceUrl"`
}

// CvssDetails nests the exploit-prediction score under the CVSS block.
type CvssDetails struct {
	Epss *EpssDetails `json:"epss"`
}

// EpssDetails holds the EPSS probability. Score is a pointer so an absent
// score is distinguishable from a literal zero.
type EpssDetails struct {
	Score *float64 `json:"score"`
}

// Resource is the asset a finding applies to.
type Resource struct {
	Type    string           `json:"type"`
	ID      string           `json:"id"`
	Region  string           `json:"region"`
	Details *ResourceDetails `json:"details"`
}

// ResourceDetails carries type-specific metadata; only ECR container images
// contribute CSV columns.
type ResourceDetails struct {
	AwsEcrContainerImage *EcrContainerImage `json:"awsEcrContainerImage"`
}

// EcrContainerImage is the container-image sub-object of a resource detail.
type EcrContainerImage struct {
	Registry       string   `json:"registry"`
	RepositoryName string   `json:"repositoryName"`
	ImageHash      string   `json:"imageHash"`
	Platform       string   `json:"platform"`
	ImageTags      []string `json:"imageTags"`
	PushedAt       string   `json:"pushedAt"`
}

// RemediationText returns the recommendation text, or "" when any level of
// the remediation chain is absent.
func (f Finding) RemediationText() string {
	if f.Remediation == nil || f.Remediation.Recommendation == nil {
		return ""
	}
	return f.Remediation.Recommendation.Text
}

// VulnerabilityID returns the CVE/advisory id, or "" when absent.
func (f Finding) VulnerabilityID() string {
	if f.PackageVulnerabilityDetails == nil {
		return ""
	}
	return f.PackageVulnerabilityDetails.VulnerabilityID
}

// EpssScore returns the EPSS probability and whether one was present.
func (f Finding) EpssScore() (float64, bool) {
	d := f.PackageVulnerabilityDetails
	if d == nil || d.Cvss == nil || d.Cvss.Epss == nil || d.Cvss.Epss.Score == nil {
		return 0, false
	}
	return *d.Cvss.Epss.Score, true
}

// FirstResource returns the first entry of the resource list, or a zero
// Resource when the list is empty.
func (f Finding) FirstResource() Resource {
	if len(f.Resources) == 0 {
		return Resource{}
	}
	return f.Resources[0]
}
