package domain

import "time"

// AssetResult records the outcome of uploading a single asset.
type AssetResult struct {
	Asset     Asset
	SourceURL string
	Err       error
}

// Succeeded returns true if the remote API accepted the asset.
func (r AssetResult) Succeeded() bool {
	return r.Err == nil
}

// Progress is emitted after each asset is processed.
type Progress struct {
	// Index is 1-based.
	Index int
	Total int
	Name  string
	Err   error
}

// Percent returns the completed fraction in the range [0, 1].
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Index) / float64(p.Total)
}

// MigrationReport summarises a migration run.
type MigrationReport struct {
	RunID      string
	State      RunState
	Port       int
	PublicURL  string
	Declined   bool
	Results    []AssetResult
	StartedAt  time.Time
	FinishedAt time.Time
}

// Succeeded returns the number of assets the remote API accepted.
func (r *MigrationReport) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Succeeded() {
			n++
		}
	}
	return n
}

// Failed returns the results whose upload did not succeed.
func (r *MigrationReport) Failed() []AssetResult {
	var failed []AssetResult
	for _, res := range r.Results {
		if !res.Succeeded() {
			failed = append(failed, res)
		}
	}
	return failed
}
