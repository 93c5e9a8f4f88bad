package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/airmap/internal/airport"
	"github.com/muurk/airmap/internal/protocol"
)

func testCatalog(t *testing.T) *airport.Catalog {
	t.Helper()
	catalog, err := airport.Default()
	require.NoError(t, err)
	return catalog
}

func newTestServer(t *testing.T, latency time.Duration) (*Server, *httptest.Server) {
	t.Helper()
	srv := New(&Config{Latency: latency}, testCatalog(t))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, 0)

	var body healthResponse
	status := getJSON(t, ts.URL+"/api/health", &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 20, body.Airports)
	assert.NotEmpty(t, body.Version)
}

func TestListAirports(t *testing.T) {
	_, ts := newTestServer(t, 0)

	var airports []airport.Airport
	status := getJSON(t, ts.URL+"/api/airports", &airports)

	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, airports, 20)
}

func TestGetAirport(t *testing.T) {
	_, ts := newTestServer(t, 0)

	var a airport.Airport
	status := getJSON(t, ts.URL+"/api/airports/sfo", &a)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "SFO", a.Code)
	assert.Equal(t, "San Francisco", a.City)

	var errBody map[string]string
	status = getJSON(t, ts.URL+"/api/airports/XXX", &errBody)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, errBody["error"], "XXX")
}

func TestGetInfo(t *testing.T) {
	_, ts := newTestServer(t, 10*time.Millisecond)

	var info airport.Info
	status := getJSON(t, ts.URL+"/api/airports/LAX/info", &info)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, airport.Info{
		Name:    "Los Angeles International Airport",
		City:    "Los Angeles",
		Country: "United States",
	}, info)

	var errBody map[string]string
	status = getJSON(t, ts.URL+"/api/airports/XXX/info", &errBody)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetInfo_ClientGivesUp(t *testing.T) {
	_, ts := newTestServer(t, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/airports/SFO/info", nil)
	require.NoError(t, err)

	_, err = http.DefaultClient.Do(req)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func dialFeed(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
}

func next(t *testing.T, conn *websocket.Conn) *protocol.Update {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var u protocol.Update
	require.NoError(t, json.Unmarshal(data, &u))
	require.NotEmpty(t, u.Type)
	return &u
}

func TestFeed_SelectLoads(t *testing.T) {
	_, ts := newTestServer(t, 10*time.Millisecond)
	conn := dialFeed(t, ts)

	send(t, conn, `{"type":"select","code":"sfo"}`)

	u := next(t, conn)
	assert.Equal(t, protocol.TypeLoading, u.Type)
	assert.Equal(t, "SFO", u.Code)
	require.NotNil(t, u.Airport)
	assert.Equal(t, "San Francisco International Airport", u.Airport.Name)

	u = next(t, conn)
	assert.Equal(t, protocol.TypeLoaded, u.Type)
	assert.Equal(t, "SFO", u.Code)
	require.NotNil(t, u.Info)
	assert.Equal(t, "San Francisco", u.Info.City)
}

func TestFeed_StaleResultIsNotSent(t *testing.T) {
	_, ts := newTestServer(t, 150*time.Millisecond)
	conn := dialFeed(t, ts)

	send(t, conn, `{"type":"select","code":"SFO"}`)
	send(t, conn, `{"type":"select","code":"LAX"}`)

	var got []string
	for i := 0; i < 3; i++ {
		u := next(t, conn)
		got = append(got, u.Type+":"+u.Code)
	}
	assert.Equal(t, []string{"loading:SFO", "loading:LAX", "loaded:LAX"}, got)

	// Nothing else may follow: SFO's result was dropped.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestFeed_DeselectDuringFlight(t *testing.T) {
	_, ts := newTestServer(t, 100*time.Millisecond)
	conn := dialFeed(t, ts)

	send(t, conn, `{"type":"select","code":"SFO"}`)
	send(t, conn, `{"type":"deselect"}`)

	assert.Equal(t, protocol.TypeLoading, next(t, conn).Type)
	assert.Equal(t, protocol.TypeEmpty, next(t, conn).Type)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(250*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "no loaded update may follow a deselect")
}

func TestFeed_BadCommands(t *testing.T) {
	_, ts := newTestServer(t, 0)
	conn := dialFeed(t, ts)

	send(t, conn, `{"type":"select","code":"XXX"}`)
	u := next(t, conn)
	assert.Equal(t, protocol.TypeError, u.Type)
	assert.Contains(t, u.Error, "XXX")

	send(t, conn, `not json`)
	assert.Equal(t, protocol.TypeError, next(t, conn).Type)

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{1, 2, 3}))
	assert.Equal(t, protocol.TypeError, next(t, conn).Type)

	// The session still works after errors.
	send(t, conn, `{"type":"select","code":"LAX"}`)
	assert.Equal(t, protocol.TypeLoading, next(t, conn).Type)
	assert.Equal(t, protocol.TypeLoaded, next(t, conn).Type)
}

func TestFeed_Reload(t *testing.T) {
	_, ts := newTestServer(t, 0)
	conn := dialFeed(t, ts)

	send(t, conn, `{"type":"select","code":"SFO"}`)
	assert.Equal(t, protocol.TypeLoading, next(t, conn).Type)
	assert.Equal(t, protocol.TypeLoaded, next(t, conn).Type)

	send(t, conn, `{"type":"reload"}`)
	u := next(t, conn)
	assert.Equal(t, protocol.TypeLoading, u.Type)
	assert.Equal(t, "SFO", u.Code)
	assert.Equal(t, protocol.TypeLoaded, next(t, conn).Type)
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	srv := New(&Config{Host: "127.0.0.1", Port: 0}, testCatalog(t))

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() { errChan <- srv.Start(ctx) }()

	require.Eventually(t, func() bool { return srv.Addr() != "" }, 2*time.Second, 5*time.Millisecond)

	url := "ws://" + srv.Addr() + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	defer func() { _ = conn.Close() }()

	require.Eventually(t, func() bool { return srv.ActiveSessions() == 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	assert.Equal(t, 0, srv.ActiveSessions())
}
