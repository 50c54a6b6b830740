package batch

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrPartialFailure is returned by Report.Err when any template failed.
var ErrPartialFailure = errors.New("one or more templates failed")

// Status classifies an Outcome.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusTimeout  Status = "timeout"
	StatusFailed   Status = "error"     // non-zero exit, stderr error marker or spawn failure
	StatusAPIError Status = "api-error" // server started but the endpoint probe failed
)

// Outcome is the result of one template in a batch run.
type Outcome struct {
	Key     string
	Label   string
	Port    int
	Status  Status
	Message string
	Elapsed time.Duration
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}

// Report holds outcomes in processing order.
type Report struct {
	Outcomes []Outcome
}

// Add appends an outcome.
func (r *Report) Add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Total returns the number of outcomes.
func (r *Report) Total() int {
	return len(r.Outcomes)
}

// Succeeded returns the successful outcomes.
func (r *Report) Succeeded() []Outcome {
	return r.filter(true)
}

// Failed returns the unsuccessful outcomes.
func (r *Report) Failed() []Outcome {
	return r.filter(false)
}

func (r *Report) filter(ok bool) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.OK() == ok {
			out = append(out, o)
		}
	}
	return out
}

// Percent returns the success rate rounded to the nearest integer.
func (r *Report) Percent() int {
	if len(r.Outcomes) == 0 {
		return 0
	}
	return int(math.Round(float64(len(r.Succeeded())) / float64(len(r.Outcomes)) * 100))
}

// Err returns nil when every template succeeded.
func (r *Report) Err() error {
	failed := len(r.Failed())
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d", ErrPartialFailure, failed, len(r.Outcomes))
}
