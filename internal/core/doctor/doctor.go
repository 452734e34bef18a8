// Package doctor runs health checks over the local setup.
package doctor

import "context"

// Status is the outcome of one check item.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// CheckItem is a single line within a check result.
type CheckItem struct {
	Label   string `json:"label"`
	Status  Status `json:"status"`
	Detail  string `json:"detail,omitempty"`
	Fixable bool   `json:"fixable,omitempty"`
}

// Result groups the items one check produced.
type Result struct {
	Name  string      `json:"name"`
	Items []CheckItem `json:"items"`
}

func (r *Result) add(status Status, label, detail string) {
	r.Items = append(r.Items, CheckItem{Label: label, Status: status, Detail: detail})
}

// Check is one diagnostic.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// Report is the outcome of a doctor run with its item counts. Fixable counts
// warn or fail items that autofix can repair.
type Report struct {
	Healthy bool     `json:"healthy"`
	Passed  int      `json:"passed"`
	Warned  int      `json:"warned"`
	Failed  int      `json:"failed"`
	Fixable int      `json:"fixable"`
	Checks  []Result `json:"checks"`
}

// NewReport tallies results.
func NewReport(results []Result) Report {
	rep := Report{Checks: results}
	for _, r := range results {
		for _, item := range r.Items {
			switch item.Status {
			case StatusPass:
				rep.Passed++
			case StatusWarn:
				rep.Warned++
			case StatusFail:
				rep.Failed++
			}
			if item.Fixable && item.Status != StatusPass {
				rep.Fixable++
			}
		}
	}
	rep.Healthy = rep.Failed == 0
	return rep
}

// RunAll executes checks in order. Once ctx is done the remaining checks
// are reported as failed without running.
func RunAll(ctx context.Context, checks []Check) Report {
	results := make([]Result, 0, len(checks))
	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			r := Result{Name: check.Name()}
			r.add(StatusFail, "skipped", err.Error())
			results = append(results, r)
			continue
		}
		results = append(results, check.Run(ctx))
	}
	return NewReport(results)
}
