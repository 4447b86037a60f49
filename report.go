package jssec

import "github.com/securejs/jssec/issue"

// ReportInfo this is report information
type ReportInfo struct {
	Errors       map[string][]Error `json:"JavaScript errors"`
	Issues       []*issue.Issue
	Stats        *Metrics
	JssecVersion string
}

// NewReportInfo instantiate a ReportInfo
func NewReportInfo(issues []*issue.Issue, metrics *Metrics, errors map[string][]Error) *ReportInfo {
	return &ReportInfo{
		Errors: errors,
		Issues: issues,
		Stats:  metrics,
	}
}

// WithVersion defines the version of jssec used for the scan
func (r *ReportInfo) WithVersion(version string) *ReportInfo {
	r.JssecVersion = version
	return r
}
