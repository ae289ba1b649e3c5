package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/recordarr/recordarr/internal/controllers"
	"github.com/sirupsen/logrus"
)

// scanRetryWait is the conservative fallback wake after a failed guide
// scan, so a transient server hiccup does not stall recording for long
const scanRetryWait = time.Minute

// Loop drives the recording cycle: scan the guide, schedule whatever is
// due, sleep until just before the next known broadcast, repeat. Errors
// inside a cycle are logged and isolated; only process cancellation stops
// the loop.
type Loop struct {
	scanCtrl   *controllers.ScanController
	recordCtrl *controllers.RecordController
	logger     *logrus.Logger

	mu        sync.Mutex
	lastScan  time.Time
	nextWake  time.Time
	lastError string
}

// NewLoop creates a new recording loop
func NewLoop(scanCtrl *controllers.ScanController, recordCtrl *controllers.RecordController, logger *logrus.Logger) *Loop {
	return &Loop{
		scanCtrl:   scanCtrl,
		recordCtrl: recordCtrl,
		logger:     logger,
	}
}

// Run executes recording cycles until ctx is cancelled
func (l *Loop) Run(ctx context.Context) error {
	for {
		wake := l.runCycle(ctx)

		sleep := time.Until(wake) - controllers.PreScheduleWindow
		if sleep < 0 {
			sleep = 0
		}

		l.logger.WithFields(logrus.Fields{
			"wake_at":   wake.Format(time.RFC3339),
			"sleep_for": sleep.Round(time.Second).String(),
		}).Debug("Cycle complete, sleeping")

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// runCycle performs one scan/decide/schedule pass and returns the time the
// next cycle should run at
func (l *Loop) runCycle(ctx context.Context) time.Time {
	now := time.Now()

	candidates, err := l.scanCtrl.Scan(ctx, now)
	if err != nil {
		l.logger.WithError(err).Error("Guide scan failed, retrying next cycle")
		wake := now.Add(scanRetryWait)
		l.record(now, wake, err)
		return wake
	}

	decision := controllers.Decide(candidates, time.Now())

	for _, broadcast := range decision.Due {
		l.logger.WithFields(logrus.Fields{
			"title": broadcast.ShowTitle(),
			"guid":  broadcast.GUID,
		}).Info("Beginning automatic recording")

		// One failed broadcast must not block the others due this cycle
		if err := l.recordCtrl.Schedule(ctx, broadcast); err != nil {
			l.logger.WithError(err).WithFields(logrus.Fields{
				"title": broadcast.ShowTitle(),
				"guid":  broadcast.GUID,
			}).Error("Failed to schedule recording")
		}
	}

	if decision.Next != nil {
		l.logger.WithFields(logrus.Fields{
			"title":    decision.Next.ShowTitle(),
			"start_at": time.Unix(decision.Next.BeginsAt(), 0).Format(time.RFC3339),
		}).Info("Next broadcast identified")
	}

	l.record(now, decision.NextWake, nil)
	return decision.NextWake
}

// record updates the status snapshot
func (l *Loop) record(scannedAt, nextWake time.Time, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastScan = scannedAt
	l.nextWake = nextWake
	if err != nil {
		l.lastError = err.Error()
	} else {
		l.lastError = ""
	}
}

// Status is a point-in-time snapshot of the loop for observability
type Status struct {
	LastScan  time.Time
	NextWake  time.Time
	LastError string
}

// Status returns the current loop snapshot
func (l *Loop) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Status{
		LastScan:  l.lastScan,
		NextWake:  l.nextWake,
		LastError: l.lastError,
	}
}
