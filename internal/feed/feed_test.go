// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feed_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/churchos/internal/access"
	"github.com/taibuivan/churchos/internal/feed"
	"github.com/taibuivan/churchos/internal/platform/ctxutil"
)

const dashboardJSON = `{
  "prophecies": [{"id":"p1","message":"Rise up","timestamp":"2026-01-01T06:00:00Z","urgency":"high","assignedTo":"Elder Mary","role":"Elder","status":"pending"}],
  "scrollCycles": [{"id":"c1","name":"Dawn Watch","startTime":"06:00","endTime":"07:00","participants":12,"prophecies":3,"status":"active"}],
  "currentUser": {"name":"Prophet Sarah","role":"Nation Seer","permissions":["manage_roles"]}
}`

// upstream fakes the ministry backend; failing toggles 502 answers.
type upstream struct {
	failing atomic.Bool
	server  *httptest.Server
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	up := &upstream{}
	mux := http.NewServeMux()
	mux.HandleFunc("/scroll-dashboard", func(writer http.ResponseWriter, request *http.Request) {
		if up.failing.Load() {
			writer.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(writer, dashboardJSON)
	})
	mux.HandleFunc("/api/v1/prayer-sessions", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = io.WriteString(writer, `[{"id":"s1","title":"Morning Intercession","stream_url":"rtmp://live/s1","is_live":true,"participants_count":40}]`)
	})
	mux.HandleFunc("/api/v1/prayer-logs", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = io.WriteString(writer, `null`)
	})
	up.server = httptest.NewServer(mux)
	t.Cleanup(up.server.Close)
	return up
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestClient_Decodes verifies the upstream payloads map onto the feed types.
*/
func TestClient_Decodes(t *testing.T) {
	up := newUpstream(t)
	client := feed.NewClient(up.server.URL+"/", up.server.Client())
	ctx := context.Background()

	dashboard, err := client.Dashboard(ctx)
	require.NoError(t, err)
	require.Len(t, dashboard.Prophecies, 1)
	assert.Equal(t, "Elder Mary", dashboard.Prophecies[0].AssignedTo)
	assert.Equal(t, 12, dashboard.ScrollCycles[0].Participants)
	assert.Equal(t, "Nation Seer", dashboard.CurrentUser.Role)

	sessions, err := client.PrayerSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].IsLive)
	assert.Equal(t, 40, sessions[0].ParticipantsCount)

	logs, err := client.PrayerLogs(ctx)
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)

	up.failing.Store(true)
	_, err = client.Dashboard(ctx)
	var upstreamErr *feed.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusBadGateway, upstreamErr.StatusCode)
}

func get(t *testing.T, router http.Handler, target string, user access.User) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(http.MethodGet, target, nil)
	request = request.WithContext(ctxutil.WithPrincipal(request.Context(), user))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Snapshots verifies readiness, last-known-good retention and permission gates.
*/
func TestHandler_Snapshots(t *testing.T) {
	up := newUpstream(t)
	relay := feed.NewRelay(feed.NewClient(up.server.URL, up.server.Client()), discardLogger())
	router := feed.NewHandler(relay).Routes()

	seer := access.User{Role: access.RoleNationSeer, Permissions: access.NewSet("view_prophecies", "join_prayer_sessions")}

	// 1. Nothing fetched yet.
	assert.Equal(t, http.StatusServiceUnavailable, get(t, router, "/dashboard", seer).Code)

	// 2. Fresh snapshot.
	relay.Dashboard.Refresh(context.Background())
	recorder := get(t, router, "/dashboard", seer)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data struct {
			Value     feed.Dashboard `json:"value"`
			FetchedAt time.Time      `json:"fetched_at"`
			Stale     bool           `json:"stale"`
			LastError string         `json:"last_error"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Rise up", body.Data.Value.Prophecies[0].Message)
	assert.False(t, body.Data.Stale)
	assert.False(t, body.Data.FetchedAt.IsZero())

	// 3. Upstream fails: previous payload still served, flagged stale.
	up.failing.Store(true)
	relay.Dashboard.Refresh(context.Background())
	recorder = get(t, router, "/dashboard", seer)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Rise up", body.Data.Value.Prophecies[0].Message)
	assert.True(t, body.Data.Stale)
	assert.Contains(t, body.Data.LastError, "502")

	// 4. Permission gates.
	deacon := access.User{Role: access.RoleDeacon, Permissions: access.NewSet("join_prayer_sessions")}
	assert.Equal(t, http.StatusForbidden, get(t, router, "/dashboard", deacon).Code)

	relay.PrayerSessions.Refresh(context.Background())
	assert.Equal(t, http.StatusOK, get(t, router, "/prayer-sessions", deacon).Code)
	assert.Equal(t, http.StatusForbidden, get(t, router, "/prayer-sessions", access.User{Role: access.RoleApostle}).Code)
}

/*
TestRelay_StartStop verifies the pollers fetch on start and return once cancelled.
*/
func TestRelay_StartStop(t *testing.T) {
	up := newUpstream(t)
	relay := feed.NewRelay(feed.NewClient(up.server.URL, up.server.Client()), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	relay.Start(ctx)

	require.Eventually(t, func() bool {
		_, dashboardReady := relay.Dashboard.Snapshot()
		_, sessionsReady := relay.PrayerSessions.Snapshot()
		_, logsReady := relay.PrayerLogs.Snapshot()
		return dashboardReady && sessionsReady && logsReady
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	done := make(chan struct{})
	go func() {
		relay.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop after cancel")
	}
}
