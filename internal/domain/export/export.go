// Package export provides the ExportJob domain entity.
package export

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// Target is a destination a playlist can be exported to.
type Target string

const (
	TargetExternalService Target = "externalService"
	TargetShareLink       Target = "shareLink"
	TargetFileM3U         Target = "fileM3U"
	TargetFileJSON        Target = "fileJSON"
)

// Targets returns all known targets.
func Targets() []Target {
	return []Target{TargetExternalService, TargetShareLink, TargetFileM3U, TargetFileJSON}
}

// ParseTarget validates s as an export target.
func ParseTarget(s string) (Target, error) {
	for _, t := range Targets() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", errors.Newf("unknown export target %q", s)
}

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// IsFinished reports whether the status is terminal.
func (s Status) IsFinished() bool {
	return s == StatusSuccess || s == StatusFailed
}

// Result is what an exporter produced.
type Result struct {
	URL         string `json:"url,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Content     []byte `json:"content,omitempty"`
}

// Job tracks a single export run for a (playlist, target) pair.
type Job struct {
	ID         string     `json:"id"`
	PlaylistID string     `json:"playlist_id"`
	Target     Target     `json:"target"`
	Status     Status     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`
	Result     *Result    `json:"result,omitempty"`
}

// Key identifies the (playlist, target) pair a job belongs to.
func (j *Job) Key() string {
	return j.PlaylistID + "/" + string(j.Target)
}

// Clone returns a deep copy of the job.
func (j *Job) Clone() *Job {
	c := *j
	if j.FinishedAt != nil {
		t := *j.FinishedAt
		c.FinishedAt = &t
	}
	if j.Result != nil {
		r := *j.Result
		r.Content = append([]byte(nil), j.Result.Content...)
		c.Result = &r
	}
	return &c
}

// ErrJobNotFound is returned by repositories for unknown job IDs.
var ErrJobNotFound = errors.New("export job not found")

// Repository persists export jobs.
type Repository interface {
	Get(ctx context.Context, id string) (*Job, error)
	Save(ctx context.Context, job *Job) error
	List(ctx context.Context) ([]*Job, error)
	Delete(ctx context.Context, id string) error
}
