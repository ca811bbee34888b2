package match

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mcoot/werewolf-go/internal/model"
)

// countdown is the background task driving one playing match
type countdown struct {
	cancel context.CancelFunc
}

// startCountdown launches the match's countdown task unless one is running
func (c *Controller) startCountdown(code model.JoinCode) {
	if c.config.TickInterval <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if _, ok := c.countdowns[code]; ok {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	cd := &countdown{cancel: cancel}
	c.countdowns[code] = cd
	ticks, stop := c.clock.Ticker(c.config.TickInterval)

	c.wg.Add(1)
	go c.runCountdown(ctx, code, cd, ticks, stop)
	c.observer.CountdownsRunning(len(c.countdowns))
}

// stopCountdown cancels the match's countdown task, if any. It does not wait.
func (c *Controller) stopCountdown(code model.JoinCode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cd, ok := c.countdowns[code]; ok {
		cd.cancel()
		delete(c.countdowns, code)
		c.observer.CountdownsRunning(len(c.countdowns))
	}
}

func (c *Controller) forget(code model.JoinCode, cd *countdown) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.countdowns[code] == cd {
		cd.cancel()
		delete(c.countdowns, code)
		c.observer.CountdownsRunning(len(c.countdowns))
	}
}

func (c *Controller) runCountdown(ctx context.Context, code model.JoinCode, cd *countdown, ticks <-chan time.Time, stop func()) {
	defer c.wg.Done()
	defer stop()
	defer c.forget(code, cd)

	logger := c.logger.With(slog.String("match_code", string(code)))
	sinceSync := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
		}

		withSync := (sinceSync+1)%c.config.SyncEvery == 0
		match, expired, err := c.tick(ctx, code, withSync)
		switch {
		case errors.Is(err, model.ErrMatchNotFound), errors.Is(err, context.Canceled):
			return
		case err != nil:
			logger.Warn("countdown tick failed", slog.Any("error", err))
			continue
		}
		if match.Status != model.MatchStatusPlaying {
			return
		}

		if expired {
			sinceSync = 0
			if _, err := c.advance(ctx, code, match.State.Phase, TriggerTimer, nil); err != nil {
				logger.Warn("countdown advance failed",
					slog.String("phase", string(match.State.Phase)),
					slog.Any("error", err))
			}
			continue
		}

		sinceSync++
	}
}

// RunningCountdowns returns the number of live countdown tasks
func (c *Controller) RunningCountdowns() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.countdowns)
}

// Resume restarts countdowns for every playing match in storage, for use
// after a restart. It returns how many were resumed.
func (c *Controller) Resume(ctx context.Context) (int, error) {
	codes, err := c.storage.ListMatchCodes(ctx)
	if err != nil {
		return 0, err
	}

	resumed := 0
	for _, code := range codes {
		match, err := c.storage.GetMatch(ctx, code)
		if errors.Is(err, model.ErrMatchNotFound) {
			continue
		}
		if err != nil {
			return resumed, err
		}
		if match.Status == model.MatchStatusPlaying {
			c.startCountdown(code)
			resumed++
		}
	}
	if resumed > 0 {
		c.logger.Info("resumed match countdowns", slog.Int("count", resumed))
	}
	return resumed, nil
}

// Close stops every countdown and waits for them to exit
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	for code, cd := range c.countdowns {
		cd.cancel()
		delete(c.countdowns, code)
	}
	c.observer.CountdownsRunning(0)
	c.mu.Unlock()

	c.wg.Wait()
}
