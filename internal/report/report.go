package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/ivlev/censor/internal/engine"
)

const Version = "1.0"

// Report is the manifest of one run
type Report struct {
	Version   string     `yaml:"version"`
	RunID     string     `yaml:"run_id"`
	StartedAt time.Time  `yaml:"started_at"`
	Build     string     `yaml:"build,omitempty"`
	Input     string     `yaml:"input"`
	Detector  string     `yaml:"detector"`
	Model     string     `yaml:"model"`
	Jobs      []JobEntry `yaml:"jobs"`
}

// JobEntry records the outcome of a single input file
type JobEntry struct {
	Input   string   `yaml:"input"`
	Outputs []string `yaml:"outputs,omitempty"`
	Status  string   `yaml:"status"`
	Kind    string   `yaml:"kind,omitempty"`
	Error   string   `yaml:"error,omitempty"`
	Regions int      `yaml:"regions"`
}

// New starts a report with a fresh run id
func New(input, detector, model string, started time.Time) *Report {
	return &Report{
		Version:   Version,
		RunID:     uuid.NewString(),
		StartedAt: started.UTC(),
		Input:     input,
		Detector:  detector,
		Model:     model,
	}
}

// AddResults appends one entry per job result
func (r *Report) AddResults(results []engine.Result) {
	for _, res := range results {
		entry := JobEntry{
			Input:   res.Job.Input,
			Outputs: res.Outputs,
			Status:  res.Status.String(),
			Regions: res.Regions,
		}
		if res.Status == engine.StatusFailed {
			entry.Kind = res.Kind.String()
			entry.Error = res.Err.Error()
		}
		r.Jobs = append(r.Jobs, entry)
	}
}

// AddFailure records a failure that happened before any job existed,
// such as a missing input path.
func (r *Report) AddFailure(input string, kind engine.Kind, err error) {
	r.Jobs = append(r.Jobs, JobEntry{
		Input:  input,
		Status: engine.StatusFailed.String(),
		Kind:   kind.String(),
		Error:  err.Error(),
	})
}
