package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/emuhud/internal/session"
	"github.com/alexisbeaulieu97/emuhud/internal/snapshot"
	"github.com/alexisbeaulieu97/emuhud/internal/theme"
	"github.com/alexisbeaulieu97/emuhud/internal/themes/goldeneye"
	"github.com/alexisbeaulieu97/emuhud/internal/themes/psiv"
)

type fixture struct {
	server *Server
	http   *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, nil)
}

func newFixtureWithStore(t *testing.T, store FrameStore) *fixture {
	t.Helper()

	b := session.NewBroadcaster(nil)
	sessions := []*session.Session{
		session.New(psiv.NewTheme(theme.Options{}), session.Options{Publisher: b}),
		session.New(goldeneye.NewTheme(theme.Options{}), session.Options{Publisher: b}),
	}
	srv, err := New(Options{Sessions: sessions, Broadcaster: b, Store: store})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, s := range sessions {
			go s.Run(ctx)
		}
		<-ctx.Done()
	}()

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Hub().CloseAll()
		ts.Close()
		cancel()
		<-done
	})
	return &fixture{server: srv, http: ts}
}

func (f *fixture) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(f.http.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (f *fixture) frame(t *testing.T, name string) theme.Frame {
	t.Helper()
	resp, err := http.Get(f.http.URL + "/api/themes/" + name + "/frame")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var frame theme.Frame
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&frame))
	return frame
}

func encoded(t *testing.T, connected bool) string {
	t.Helper()
	data, err := snapshot.Encode(snapshot.Payload{IsConnected: connected})
	require.NoError(t, err)
	return data
}

func decodeError(t *testing.T, resp *http.Response) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestNewRejectsDuplicateSessions(t *testing.T) {
	t.Parallel()

	a := session.New(psiv.NewTheme(theme.Options{}), session.Options{})
	b := session.New(psiv.NewTheme(theme.Options{}), session.Options{})
	_, err := New(Options{Sessions: []*session.Session{a, b}})
	assert.ErrorContains(t, err, "duplicate session")
}

func TestListThemes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp, err := http.Get(f.http.URL + "/api/themes")
	require.NoError(t, err)
	defer resp.Body.Close()

	var metas []theme.Metadata
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&metas))
	require.Len(t, metas, 2)
	assert.Equal(t, "goldeneye", metas[0].Name)
	assert.Equal(t, "psiv", metas[1].Name)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestUpdateValidatesBody(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp := f.post(t, "/api/themes/psiv/update", map[string]any{"initial": true})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "data", decodeError(t, resp).Field)

	resp = f.post(t, "/api/themes/psiv/update", map[string]any{"data": "aGk=", "extra": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "body", decodeError(t, resp).Field)
}

func TestMalformedSnapshotShowsErrorFrame(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp := f.post(t, "/api/themes/psiv/update", UpdateRequest{Data: "not base64!"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Eventually(t, func() bool {
		frame := f.frame(t, "psiv")
		return frame.Status == theme.StatusError && strings.HasPrefix(frame.StatusText, "Error: ")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUnpaddedSnapshotIsAccepted(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	data := base64.RawStdEncoding.EncodeToString([]byte(`{"isConnected":true}`))
	resp := f.post(t, "/api/themes/goldeneye/update", UpdateRequest{Data: data})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Eventually(t, func() bool {
		return f.frame(t, "goldeneye").Status == theme.StatusConnected
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUnknownThemeIsNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp := f.post(t, "/api/themes/snes/update", UpdateRequest{Data: encoded(t, true)})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	get, err := http.Get(f.http.URL + "/api/themes/snes/frame")
	require.NoError(t, err)
	defer get.Body.Close()
	assert.Equal(t, http.StatusNotFound, get.StatusCode)
}

func TestUpdateAndCloseReachTheFrame(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	assert.Equal(t, theme.StatusOffline, f.frame(t, "goldeneye").Status)

	resp := f.post(t, "/api/themes/goldeneye/update", UpdateRequest{Data: encoded(t, true), Initial: true})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Eventually(t, func() bool {
		return f.frame(t, "goldeneye").Status == theme.StatusConnected
	}, 2*time.Second, 10*time.Millisecond)

	resp = f.post(t, "/api/themes/goldeneye/closed", struct{}{})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Eventually(t, func() bool {
		return f.frame(t, "goldeneye").Status == theme.StatusClosed
	}, 2*time.Second, 10*time.Millisecond)
}

type stubStore struct {
	frame theme.Frame
	err   error
}

func (s stubStore) Latest(_ context.Context, name string) (theme.Frame, bool, error) {
	if s.err != nil {
		return theme.Frame{}, false, s.err
	}
	if name != s.frame.Theme {
		return theme.Frame{}, false, nil
	}
	return s.frame, true, nil
}

func TestFrameFallsBackToStoreUntilFirstTick(t *testing.T) {
	t.Parallel()
	stored := theme.Frame{Theme: "goldeneye", Status: theme.StatusConnected, StatusText: "stored"}
	f := newFixtureWithStore(t, stubStore{frame: stored})

	assert.Equal(t, "stored", f.frame(t, "goldeneye").StatusText)
	assert.Equal(t, theme.StatusOffline, f.frame(t, "psiv").Status)

	resp := f.post(t, "/api/themes/goldeneye/closed", struct{}{})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp = f.post(t, "/api/themes/goldeneye/update", UpdateRequest{Data: encoded(t, false)})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Eventually(t, func() bool {
		return f.frame(t, "goldeneye").StatusText != "stored"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFrameIgnoresFailingStore(t *testing.T) {
	t.Parallel()
	f := newFixtureWithStore(t, stubStore{err: errors.New("connection refused")})

	assert.Equal(t, theme.StatusOffline, f.frame(t, "goldeneye").Status)
}

func TestActionRoute(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	resp := f.post(t, "/api/themes/psiv/actions", theme.Action{Name: psiv.ActionToggleLocked})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Body psiv.View `json:"body"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Body.LockedCollapsed)

	resp = f.post(t, "/api/themes/psiv/actions", theme.Action{Name: "dance"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.post(t, "/api/themes/psiv/actions", map[string]any{"target": "Blizzard"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "name", decodeError(t, resp).Field)

	resp = f.post(t, "/api/themes/goldeneye/actions", theme.Action{Name: "expand"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPreflight(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	req, err := http.NewRequest(http.MethodOptions, f.http.URL+"/api/themes/psiv/update", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}

func dial(t *testing.T, f *fixture, name string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.http.URL, "http") + "/ws/" + name
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if resp != nil {
		t.Cleanup(func() { resp.Body.Close() })
	}
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func frameOf(t *testing.T, msg Message) theme.Frame {
	t.Helper()
	raw, err := json.Marshal(msg.Data)
	require.NoError(t, err)
	var frame theme.Frame
	require.NoError(t, json.Unmarshal(raw, &frame))
	return frame
}

func TestWebSocketStreamsFrames(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	conn := dial(t, f, "psiv")
	initial := readMessage(t, conn)
	assert.Equal(t, MessageFrame, initial.Type)
	assert.Equal(t, "psiv", initial.Theme)
	assert.Equal(t, theme.StatusOffline, frameOf(t, initial).Status)

	require.Eventually(t, func() bool { return f.server.Hub().CountFor("psiv") == 1 }, 2*time.Second, 10*time.Millisecond)

	resp := f.post(t, "/api/themes/psiv/update", UpdateRequest{Data: encoded(t, true)})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	update := readMessage(t, conn)
	assert.Equal(t, theme.StatusConnected, frameOf(t, update).Status)
	assert.False(t, update.Timestamp.IsZero())
}

func TestWebSocketActions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	conn := dial(t, f, "psiv")
	readMessage(t, conn)
	require.Eventually(t, func() bool { return f.server.Hub().Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": MessageAction, "action": "dance"}))
	failed := readMessage(t, conn)
	assert.Equal(t, MessageError, failed.Type)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": MessageAction, "action": psiv.ActionToggleLocked}))
	toggled := readMessage(t, conn)
	assert.Equal(t, MessageFrame, toggled.Type)
}

func TestStatusReportsClientsAndThemes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	dial(t, f, "goldeneye")
	require.Eventually(t, func() bool { return f.server.Hub().Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get(f.http.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var status StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, 1, status.Clients)
	require.Len(t, status.Themes, 2)
	assert.Equal(t, "goldeneye", status.Themes[0].Theme)
	assert.NotEmpty(t, status.Uptime)
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	sess := session.New(goldeneye.NewTheme(theme.Options{}), session.Options{})
	srv, err := New(Options{Addr: "127.0.0.1:0", Sessions: []*session.Session{sess}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
