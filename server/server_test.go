package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/espiscope/pkg/scheduler"
	"github.com/umputun/espiscope/server/mocks"
)

func TestServer_New(t *testing.T) {
	srv := New(Params{Service: &mocks.ServiceMock{}, Scheduler: &mocks.SchedulerMock{}, Version: "1.0.0"})
	require.NotNil(t, srv)
	assert.Equal(t, "1.0.0", srv.version)
	assert.Equal(t, 30*time.Second, srv.timeout)
	assert.False(t, srv.debug)
}

func TestServer_Run(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	sched := &mocks.SchedulerMock{LastRunFunc: func() (scheduler.Summary, int) { return scheduler.Summary{}, 0 }}
	srv := New(Params{Service: &mocks.ServiceMock{}, Scheduler: sched, Listen: fmt.Sprintf("127.0.0.1:%d", port),
		Version: "1.0.0", Debug: true})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Get(url + "/api/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "espiscope", resp.Header.Get("App-Name"))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server didn't stop")
	}
}

func TestServer_Metrics(t *testing.T) {
	srv := New(Params{Service: &mocks.ServiceMock{}, Scheduler: &mocks.SchedulerMock{}})
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestServer_SizeLimit(t *testing.T) {
	svc := &mocks.ServiceMock{}
	srv := New(Params{Service: svc, Scheduler: &mocks.SchedulerMock{}})
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	big := make([]byte, 128*1024)
	resp, err := http.Post(ts.URL+"/api/v1/companies", "application/json", bytesReader(big))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Empty(t, svc.TrackCalls())
}
