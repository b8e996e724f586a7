package server

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/emuhud/internal/logger"
	"github.com/alexisbeaulieu97/emuhud/internal/session"
	"github.com/alexisbeaulieu97/emuhud/internal/theme"
)

func nextFrame(t *testing.T, c *client) theme.Frame {
	t.Helper()
	select {
	case data := <-c.send:
		var msg struct {
			Data theme.Frame `json:"data"`
		}
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg.Data
	case <-time.After(2 * time.Second):
		t.Fatal("no frame queued")
		return theme.Frame{}
	}
}

func TestRegisterDeliversFramePublishedWhileJoining(t *testing.T) {
	t.Parallel()

	b := session.NewBroadcaster(nil)
	h := NewHub(b, logger.Nop())
	c := &client{id: uuid.New(), theme: "psiv", send: make(chan []byte, sendBuffer)}

	offline := theme.Frame{Theme: "psiv", Status: theme.StatusOffline}
	connected := theme.Frame{Theme: "psiv", Status: theme.StatusConnected}
	published := make(chan struct{})

	// The session publishes a new frame right after the viewer reads the
	// current one.
	err := h.register(c, func() theme.Frame {
		go func() {
			defer close(published)
			_ = b.Publish(context.Background(), connected)
		}()
		return offline
	})
	require.NoError(t, err)
	<-published

	assert.Equal(t, theme.StatusOffline, nextFrame(t, c).Status)
	assert.Equal(t, theme.StatusConnected, nextFrame(t, c).Status)
	assert.Equal(t, 1, b.Subscribers("psiv"))

	h.unregister(c)
	assert.Equal(t, 0, b.Subscribers("psiv"))
}
