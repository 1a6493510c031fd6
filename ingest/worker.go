package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
)

// scheduledJob is a single scheduled job run
type scheduledJob struct {
	at    time.Time
	job   Job
	jobID xid.ID
}

// Less is utilized to sort scheduled jobs by their due-time (earliest == first)
func (a scheduledJob) Less(b scheduledJob) bool {
	return a.at.Before(b.at)
}

// workerInfo is the work context for the job routine
type workerInfo struct {
	job   Job
	resCh chan<- *workerResponse
	jobID xid.ID
}

// workerResponse is the job routine response
type workerResponse struct {
	error    error         // encountered error, if any
	duration time.Duration // how long the run took
	jobID    xid.ID        // the job ID
}

// handleJob executes a single job run
func handleJob(
	ctx context.Context,
	info *workerInfo,
) {
	start := time.Now()

	err := runJob(ctx, info.job)

	response := &workerResponse{
		error:    err,
		duration: time.Since(start),
		jobID:    info.jobID,
	}

	select {
	case <-ctx.Done():
	case info.resCh <- response:
	}
}

func runJob(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()

	return job.Run(ctx)
}
