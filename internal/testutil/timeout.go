package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// ClientTimeoutError returns the error net/http reports when a client's own Timeout
// elapses. It wraps context.DeadlineExceeded although no caller context was cancelled.
func ClientTimeoutError(t testing.TB) error {
	t.Helper()
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	client := &http.Client{Timeout: 20 * time.Millisecond}
	resp, err := client.Get(server.URL)
	if resp != nil {
		resp.Body.Close()
	}
	if err == nil {
		t.Fatal("expected the request to time out")
	}
	return err
}
