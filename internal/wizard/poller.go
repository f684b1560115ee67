package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatusFetcher reads the current campaign status. done marks a terminal
// state after which polling is pointless.
type StatusFetcher interface {
	FetchStatus(ctx context.Context, campaignID uuid.UUID) (status string, done bool, err error)
}

// StatusPoller polls a campaign's status on an interval and pushes each
// observation to a callback. It stops itself on a terminal state, on Stop,
// or when the context is cancelled, so no ticker leaks past the owning view.
type StatusPoller struct {
	interval time.Duration
	fetcher  StatusFetcher
	log      *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

func NewStatusPoller(interval time.Duration, fetcher StatusFetcher, log *zap.Logger) *StatusPoller {
	if interval <= 0 {
		interval = time.Second
	}
	return &StatusPoller{
		interval: interval,
		fetcher:  fetcher,
		log:      log,
		stop:     make(chan struct{}),
	}
}

// Run blocks until a terminal status, Stop, or context cancellation.
func (p *StatusPoller) Run(ctx context.Context, campaignID uuid.UUID, onUpdate func(status string)) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			status, done, err := p.fetcher.FetchStatus(ctx, campaignID)
			if err != nil {
				p.log.Warn("polling campaign status",
					zap.String("campaign_id", campaignID.String()), zap.Error(err))
				continue
			}
			if onUpdate != nil {
				onUpdate(status)
			}
			if done {
				return
			}
		}
	}
}

// Stop terminates a running poll. Safe to call multiple times.
func (p *StatusPoller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}
