// Package jobs runs the CRM maintenance jobs (heartbeat, low-stock restock,
// order reminders) against the GraphQL API and reports their outcomes.
package jobs

import (
	"context"
	"time"

	"github.com/gofrs/uuid"
)

type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
	StatusFailed   Status = "failed"
)

// Outcome is the structured result of one job run.
type Outcome struct {
	RunID      uuid.UUID `json:"run_id"`
	Job        string    `json:"job"`
	Status     Status    `json:"status"`
	Detail     string    `json:"detail"`
	Items      int       `json:"items"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func (o Outcome) Duration() time.Duration {
	return o.FinishedAt.Sub(o.StartedAt)
}

// Job is one maintenance task. Run never returns an error: failures are
// reported through the outcome status.
type Job interface {
	Name() string
	Run(ctx context.Context) Outcome
}

// Sink receives every finished outcome.
type Sink interface {
	Record(o Outcome)
}

// Runner executes jobs, stamps their outcomes and fans them out to sinks.
type Runner struct {
	sinks []Sink
	now   func() time.Time
}

func NewRunner(sinks ...Sink) *Runner {
	return &Runner{sinks: sinks, now: time.Now}
}

func (r *Runner) Run(ctx context.Context, job Job) Outcome {
	started := r.now()
	o := job.Run(ctx)

	runID, err := uuid.NewV4()
	if err != nil {
		runID = uuid.Nil
	}
	o.RunID = runID
	o.Job = job.Name()
	o.StartedAt = started
	o.FinishedAt = r.now()
	if o.Status == "" {
		o.Status = StatusOK
	}

	for _, s := range r.sinks {
		s.Record(o)
	}
	return o
}
