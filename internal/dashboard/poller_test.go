package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestPollerKeepsLastGoodSnapshotAcrossFailures(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"students":3,"teachers":2,"classes":2,"tasks_in_progress":1,"tasks_completed":1,"average_progress":80}}`))
	}))
	defer srv.Close()

	p := NewPoller(srv.URL, srv.Client(), staticToken("tok"), time.Minute, nil)

	p.refresh(context.Background())
	snap := p.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 3, snap.Students)
	assert.NoError(t, p.LastError())

	fail.Store(true)
	p.refresh(context.Background())
	assert.Error(t, p.LastError())
	require.NotNil(t, p.Snapshot(), "last good snapshot survives a failed refresh")
	assert.Equal(t, 3, p.Snapshot().Students)
}

func TestPollerSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"students":0}`))
	}))
	defer srv.Close()

	p := NewPoller(srv.URL, srv.Client(), staticToken("tok"), time.Minute, nil)
	p.refresh(context.Background())
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestPollerRunStopsOnContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"students":1}`))
	}))
	defer srv.Close()

	p := NewPoller(srv.URL, srv.Client(), nil, 10*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return p.Snapshot() != nil }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancel")
	}
}
