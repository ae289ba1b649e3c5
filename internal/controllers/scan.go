package controllers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/recordarr/recordarr/internal/services/plex"
	"github.com/sirupsen/logrus"
)

const gridDateFormat = "2006-01-02"

// ScanController walks the near-term guide for every tracked channel and
// reduces it to at most one upcoming, not-yet-scheduled broadcast per
// channel
type ScanController struct {
	plex     *plex.Client
	channels []string // allow-list; empty means every lineup channel
	logger   *logrus.Logger
}

// NewScanController creates a new scan controller
func NewScanController(plexClient *plex.Client, channels []string, logger *logrus.Logger) *ScanController {
	return &ScanController{
		plex:     plexClient,
		channels: channels,
		logger:   logger,
	}
}

type channelResult struct {
	channelID string
	candidate *plex.Broadcast
	err       error
}

// Scan fetches the channel lineup and, per channel, the guide grids for
// yesterday, today and tomorrow. Each channel is reduced to its earliest
// eligible broadcast (nil when it has none). Any fetch failure fails the
// whole scan: partial guide data is not trusted for scheduling decisions.
func (c *ScanController) Scan(ctx context.Context, now time.Time) (map[string]*plex.Broadcast, error) {
	channels, err := c.plex.GetChannels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	channels = c.filterChannels(channels)

	c.logger.WithField("channels", len(channels)).Debug("Scanning guide")

	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan channelResult, len(channels))
	for _, channel := range channels {
		go func(channel plex.Channel) {
			candidate, err := c.scanChannel(scanCtx, channel.ID, now)
			results <- channelResult{channelID: channel.ID, candidate: candidate, err: err}
		}(channel)
	}

	candidates := make(map[string]*plex.Broadcast, len(channels))
	var scanErr error
	for range channels {
		result := <-results
		if result.err != nil {
			if scanErr == nil {
				scanErr = fmt.Errorf("channel %s: %w", result.channelID, result.err)
				cancel()
			}
			continue
		}
		candidates[result.channelID] = result.candidate
	}

	if scanErr != nil {
		return nil, scanErr
	}
	return candidates, nil
}

// filterChannels applies the configured allow-list
func (c *ScanController) filterChannels(channels []plex.Channel) []plex.Channel {
	if len(c.channels) == 0 {
		return channels
	}

	allowed := make(map[string]bool, len(c.channels))
	for _, id := range c.channels {
		allowed[id] = true
	}

	filtered := make([]plex.Channel, 0, len(channels))
	for _, channel := range channels {
		if allowed[channel.ID] {
			filtered = append(filtered, channel)
		}
	}
	return filtered
}

// scanChannel merges the channel's three-day grid window and returns its
// earliest broadcast that starts at or after now and has no existing
// subscription at episode or series level
func (c *ScanController) scanChannel(ctx context.Context, channelID string, now time.Time) (*plex.Broadcast, error) {
	dates := []time.Time{
		now.AddDate(0, 0, -1),
		now,
		now.AddDate(0, 0, 1),
	}

	type gridResult struct {
		entries []plex.Broadcast
		err     error
	}

	results := make(chan gridResult, len(dates))
	for _, date := range dates {
		go func(date time.Time) {
			entries, err := c.plex.GetGrid(ctx, channelID, date.UTC().Format(gridDateFormat))
			results <- gridResult{entries: entries, err: err}
		}(date)
	}

	var merged []plex.Broadcast
	var gridErr error
	for range dates {
		result := <-results
		if result.err != nil {
			if gridErr == nil {
				gridErr = result.err
			}
			continue
		}
		merged = append(merged, result.entries...)
	}
	if gridErr != nil {
		return nil, fmt.Errorf("failed to fetch grid: %w", gridErr)
	}

	unixNow := now.Unix()
	eligible := make([]plex.Broadcast, 0, len(merged))
	for _, broadcast := range merged {
		if broadcast.BeginsAt() < unixNow {
			continue
		}
		if broadcast.Scheduled() {
			continue
		}
		eligible = append(eligible, broadcast)
	}

	if len(eligible) == 0 {
		return nil, nil
	}

	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].BeginsAt() < eligible[j].BeginsAt()
	})

	earliest := eligible[0]
	return &earliest, nil
}
