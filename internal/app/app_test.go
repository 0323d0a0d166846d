package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"babyboss-sales/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

const sheetSnapshot = `{"status":"success","data":{
  "users":[],
  "customers":[{"id":"c1","name":"Khách Sheet","address":"Hà Nội","createdBy":"admin_init"}],
  "orders":[{"id":"o1","date":"2025-03-31T17:00:00.000Z","customerId":"c1","totalRevenue":96000}]
}}`

func testConfig(sheetURL string) config.Config {
	return config.Config{
		Env:             "test",
		SheetsAPIURL:    sheetURL,
		SheetsTimeout:   2 * time.Second,
		SyncInterval:    time.Minute,
		SyncMaxAttempts: 3,
		ReportCacheTTL:  time.Minute,
		Timezone:        "Asia/Ho_Chi_Minh",
	}
}

// The admin CLI pulls without ever running the hub; Close must still return.
func TestPullThenCloseWithoutRunningHub(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Connection", "close")
		_, _ = w.Write([]byte(sheetSnapshot))
	}))
	defer srv.Close()

	a, err := New(context.Background(), testConfig(srv.URL), zap.NewNop())
	require.NoError(t, err)

	res, err := a.Sync.Pull(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Orders)

	o, err := a.Repos.Orders.FindByID("o1")
	require.NoError(t, err)
	assert.Equal(t, "2025-04-01", o.Date)

	closed := make(chan struct{})
	go func() {
		a.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(3 * time.Second):
		t.Fatal("Close blocked on an undelivered event")
	}
}

func TestCloseAfterServerShutdown(t *testing.T) {
	a, err := New(context.Background(), testConfig(""), zap.NewNop())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		a.Hub.Run()
		close(done)
	}()

	a.Hub.Stop()
	<-done
	a.Close()
}
