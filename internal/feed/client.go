// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Upstream endpoint paths, relative to the backend base URL.
const (
	dashboardPath      = "/scroll-dashboard"
	prayerSessionsPath = "/api/v1/prayer-sessions"
	prayerLogsPath     = "/api/v1/prayer-logs"
)

// maxPayloadBytes caps a single upstream response body.
const maxPayloadBytes = 4 << 20

// Client fetches the upstream feeds.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for baseURL. A nil httpClient uses [http.DefaultClient].
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Dashboard fetches the scroll dashboard.
func (client *Client) Dashboard(ctx context.Context) (Dashboard, error) {
	return getJSON[Dashboard](ctx, client, dashboardPath)
}

// PrayerSessions fetches the active prayer sessions.
func (client *Client) PrayerSessions(ctx context.Context) ([]PrayerSession, error) {
	sessions, err := getJSON[[]PrayerSession](ctx, client, prayerSessionsPath)
	if err == nil && sessions == nil {
		sessions = []PrayerSession{}
	}
	return sessions, err
}

// PrayerLogs fetches the latest prayer logs.
func (client *Client) PrayerLogs(ctx context.Context) ([]PrayerLog, error) {
	logs, err := getJSON[[]PrayerLog](ctx, client, prayerLogsPath)
	if err == nil && logs == nil {
		logs = []PrayerLog{}
	}
	return logs, err
}

// UpstreamError reports a non-200 answer from the upstream service.
type UpstreamError struct {
	Path       string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("feed: upstream %s answered %d", e.Path, e.StatusCode)
}

func getJSON[T any](ctx context.Context, client *Client, path string) (T, error) {
	var zero T

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+path, nil)
	if err != nil {
		return zero, fmt.Errorf("feed: build request for %s: %w", path, err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return zero, fmt.Errorf("feed: fetch %s: %w", path, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, maxPayloadBytes))
		return zero, &UpstreamError{Path: path, StatusCode: response.StatusCode}
	}

	var payload T
	if err := json.NewDecoder(io.LimitReader(response.Body, maxPayloadBytes)).Decode(&payload); err != nil {
		return zero, fmt.Errorf("feed: decode %s: %w", path, err)
	}
	return payload, nil
}
