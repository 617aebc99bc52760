// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taibuivan/churchos/internal/platform/constants"
	"github.com/taibuivan/churchos/internal/platform/poll"
)

// Relay owns one poller per upstream feed.
type Relay struct {
	Dashboard      *poll.Poller[Dashboard]
	PrayerSessions *poll.Poller[[]PrayerSession]
	PrayerLogs     *poll.Poller[[]PrayerLog]

	wg sync.WaitGroup
}

// NewRelay wires the pollers to client. Nothing is fetched until [Relay.Start].
func NewRelay(client *Client, logger *slog.Logger) *Relay {
	timeout := constants.UpstreamRequestTimeout
	return &Relay{
		Dashboard:      poll.New("dashboard", constants.DashboardPollInterval, timeout, client.Dashboard, logger),
		PrayerSessions: poll.New("prayer_sessions", constants.PrayerSessionsPollInterval, timeout, client.PrayerSessions, logger),
		PrayerLogs:     poll.New("prayer_logs", constants.PrayerLogsPollInterval, timeout, client.PrayerLogs, logger),
	}
}

// Start launches every poller. They stop when ctx is cancelled.
func (relay *Relay) Start(ctx context.Context) {
	runners := []func(context.Context){relay.Dashboard.Run, relay.PrayerSessions.Run, relay.PrayerLogs.Run}
	for _, run := range runners {
		relay.wg.Add(1)
		go func() {
			defer relay.wg.Done()
			run(ctx)
		}()
	}
}

// Wait blocks until every started poller has returned.
func (relay *Relay) Wait() {
	relay.wg.Wait()
}
