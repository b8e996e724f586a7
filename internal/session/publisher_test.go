package session

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/emuhud/internal/logger"
	"github.com/alexisbeaulieu97/emuhud/internal/theme"
)

func TestBroadcasterDeliversPerTheme(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster(nil)
	var psiv, ff7 []theme.Frame
	b.Subscribe("psiv", func(_ context.Context, f theme.Frame) error {
		psiv = append(psiv, f)
		return nil
	})
	b.Subscribe("ff7", func(_ context.Context, f theme.Frame) error {
		ff7 = append(ff7, f)
		return nil
	})

	require.NoError(t, b.Publish(context.Background(), theme.Frame{Theme: "psiv", Status: theme.StatusConnected}))

	require.Len(t, psiv, 1)
	assert.Equal(t, theme.StatusConnected, psiv[0].Status)
	assert.Empty(t, ff7)
}

func TestBroadcasterUnsubscribe(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster(nil)
	calls := 0
	first := b.Subscribe("psiv", func(context.Context, theme.Frame) error {
		calls++
		return nil
	})
	b.Subscribe("psiv", func(context.Context, theme.Frame) error { return nil })
	assert.Equal(t, 2, b.Subscribers("psiv"))

	first.Unsubscribe()
	assert.Equal(t, 1, b.Subscribers("psiv"))

	require.NoError(t, b.Publish(context.Background(), theme.Frame{Theme: "psiv"}))
	assert.Zero(t, calls)
}

func TestBroadcasterLogsFailingHandlers(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := logger.New(logger.Options{Level: "debug", Writer: buf})
	require.NoError(t, err)

	b := NewBroadcaster(log)
	delivered := false
	b.Subscribe("ff7", func(context.Context, theme.Frame) error { return errors.New("socket closed") })
	b.Subscribe("ff7", func(context.Context, theme.Frame) error {
		delivered = true
		return nil
	})

	require.NoError(t, b.Publish(context.Background(), theme.Frame{Theme: "ff7"}))
	assert.True(t, delivered)
	assert.Contains(t, buf.String(), "frame handler failed")
	assert.Contains(t, buf.String(), "socket closed")
	assert.Contains(t, buf.String(), "frame published")
}

func TestNilSubscriptions(t *testing.T) {
	t.Parallel()

	var b *Broadcaster
	assert.NoError(t, b.Publish(context.Background(), theme.Frame{}))
	b.Subscribe("psiv", nil).Unsubscribe()

	NewBroadcaster(nil).Subscribe("psiv", nil).Unsubscribe()
}

type recordingPublisher struct {
	frames []theme.Frame
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, f theme.Frame) error {
	r.frames = append(r.frames, f)
	return r.err
}

func TestMultiPublishesToAll(t *testing.T) {
	t.Parallel()

	failing := &recordingPublisher{err: errors.New("redis down")}
	ok := &recordingPublisher{}
	pub := Multi(failing, nil, ok)

	err := pub.Publish(context.Background(), theme.Frame{Theme: "ff7"})
	require.ErrorContains(t, err, "redis down")
	assert.Len(t, failing.frames, 1)
	assert.Len(t, ok.frames, 1)

	assert.NoError(t, Multi().Publish(context.Background(), theme.Frame{}))
}
