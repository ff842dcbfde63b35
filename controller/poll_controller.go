package controller

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/longhorn/dsm-exporter/types"
)

const pollControllerName = "poll"

type SnapshotSource interface {
	GetSnapshot(ctx context.Context) (*types.Snapshot, error)
}

type SnapshotPublisher interface {
	Update(snapshot *types.Snapshot)
}

type CycleObserver interface {
	ObserveCycle(duration time.Duration, finished time.Time)
}

// PollController runs one fetch and publish cycle per interval. Cycles never
// overlap and the interval is measured from the start of one cycle to the
// start of the next.
type PollController struct {
	*baseController

	interval  time.Duration
	source    SnapshotSource
	publisher SnapshotPublisher
	observer  CycleObserver

	now func() time.Time
}

func NewPollController(
	logger logrus.FieldLogger,
	interval time.Duration,
	source SnapshotSource,
	publisher SnapshotPublisher,
	observer CycleObserver) *PollController {

	return &PollController{
		baseController: newBaseController(pollControllerName, logger),
		interval:       interval,
		source:         source,
		publisher:      publisher,
		observer:       observer,
		now:            time.Now,
	}
}

// Run polls until ctx is done or a cycle fails. It returns the error of the
// failed cycle, or nil once ctx is done.
func (c *PollController) Run(ctx context.Context) error {
	c.logger.Infof("Starting poll loop with interval %v", c.interval)
	defer c.logger.Info("Stopped poll loop")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		start := c.now()
		if err := c.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		wait := c.interval - c.now().Sub(start)
		if wait < 0 {
			c.logger.Warnf("Poll cycle took longer than the interval %v", c.interval)
			wait = 0
		}
		timer.Reset(wait)
	}
}

// RunOnce fetches one snapshot and publishes it. Nothing is published when
// the fetch fails.
func (c *PollController) RunOnce(ctx context.Context) error {
	start := c.now()

	snapshot, err := c.source.GetSnapshot(ctx)
	if err != nil {
		return errors.Wrap(err, "poll cycle failed")
	}
	c.publisher.Update(snapshot)

	finished := c.now()
	duration := finished.Sub(start)
	if c.observer != nil {
		c.observer.ObserveCycle(duration, finished)
	}
	c.logger.Debugf("Completed poll cycle in %v", duration)
	return nil
}
