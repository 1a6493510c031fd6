package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron"
	"github.com/rs/xid"
	"github.com/sig-0/iq"

	"github.com/sig-0/kpremium/storage/types"
)

// DefaultSchedule runs the collection daily at 00:10 KST
const DefaultSchedule = "10 0 * * *"

var (
	errInvalidJob      = errors.New("invalid job")
	errInvalidSchedule = errors.New("invalid schedule")
)

// ParseSchedule parses a standard 5-field cron expression
// (or a descriptor such as @daily)
func ParseSchedule(expr string) (cron.Schedule, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse schedule %q: %w", expr, err)
	}

	return schedule, nil
}

// registeredJob is a job and the schedule it runs on
type registeredJob struct {
	job      Job
	schedule cron.Schedule
}

// Orchestrator is the main scheduler for registered jobs
type Orchestrator struct {
	logger   *slog.Logger
	location *time.Location

	registeredJobs sync.Map

	q             iq.Queue[scheduledJob]
	queryInterval time.Duration
	qMux          sync.Mutex

	runOnRegister bool
}

// New creates a new Orchestrator instance
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		location:      time.FixedZone("KST", int(types.KSTOffset/time.Second)),
		q:             iq.NewQueue[scheduledJob](),
		queryInterval: time.Second, // every second
	}

	// Apply the options
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Register registers a new job with the orchestrator.
// The job is queued up for its first schedule slot
func (o *Orchestrator) Register(job Job, schedule cron.Schedule) error {
	if job == nil || job.Name() == "" {
		return errInvalidJob
	}

	if schedule == nil {
		return errInvalidSchedule
	}

	now := time.Now()

	at := schedule.Next(now.In(o.location))
	if o.runOnRegister {
		at = now
	}

	if at.IsZero() {
		return errInvalidSchedule
	}

	// Register the job
	id := xid.New()
	o.registeredJobs.Store(id, &registeredJob{
		job:      job,
		schedule: schedule,
	})

	o.logger.Info(
		"registered new job",
		"name", job.Name(),
		"next_run", at.String(),
	)

	o.scheduleJob(at, id, job)

	return nil
}

// Start starts the job orchestration service loop [BLOCKING]
func (o *Orchestrator) Start(ctx context.Context) error {
	resCh := make(chan *workerResponse, 100)

	// Start a listener for monitoring jobs
	ticker := time.NewTicker(o.queryInterval)
	defer ticker.Stop()

	// handleDue starts all jobs that are executable (due)
	handleDue := func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				next := o.nextJob()
				if next == nil {
					return // nothing to run anymore
				}

				o.logger.Info(
					"running job",
					"name", next.job.Name(),
					"id", next.jobID.String(),
				)

				info := &workerInfo{
					job:   next.job,
					jobID: next.jobID,
					resCh: resCh,
				}

				go handleJob(ctx, info)
			}
		}
	}

	// Start the jobs that are already due (on boot)
	handleDue()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("orchestrator service shut down")

			return nil
		case <-ticker.C:
			handleDue()
		case response := <-resCh:
			rjRaw, ok := o.registeredJobs.Load(response.jobID)
			if !ok {
				o.logger.Error(
					"unable to load registered job",
					"id", response.jobID.String(),
				)

				continue
			}

			rj, _ := rjRaw.(*registeredJob)

			if response.error != nil {
				// No retry, the job waits for its next slot
				o.logger.Error(
					"job run failed",
					"name", rj.job.Name(),
					"id", response.jobID.String(),
					"duration", response.duration.String(),
					"err", response.error,
				)
			} else {
				o.logger.Info(
					"job run finished",
					"name", rj.job.Name(),
					"id", response.jobID.String(),
					"duration", response.duration.String(),
				)
			}

			next := rj.schedule.Next(time.Now().In(o.location))
			if next.IsZero() {
				o.logger.Warn(
					"job has no further schedule slots",
					"name", rj.job.Name(),
				)

				continue
			}

			o.scheduleJob(next, response.jobID, rj.job)
		}
	}
}

// scheduleJob queues up a future job run
func (o *Orchestrator) scheduleJob(
	at time.Time,
	jobID xid.ID,
	job Job,
) {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	o.q.Push(scheduledJob{
		at:    at,
		jobID: jobID,
		job:   job,
	})
}

// nextJob fetches the next due job, as of the moment of calling
func (o *Orchestrator) nextJob() *scheduledJob {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	// Check if anything needs to be run
	if o.q.Len() == 0 {
		return nil // nothing to run, all jobs are running
	}

	// Check if the top element is due
	if o.q.Index(0).at.After(time.Now()) {
		return nil // nothing to run, the earliest job is in the future
	}

	return o.q.PopFront()
}
