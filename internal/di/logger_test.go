package di

import (
	"testing"

	"github.com/mono83/slf"
	"github.com/mono83/slf/rays"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventsCollector struct {
	events []slf.Event
}

func (c *eventsCollector) Receive(e slf.Event) {
	c.events = append(c.events, e)
}

func TestNewWatchdog(t *testing.T) {
	collector := &eventsCollector{}
	logger := newWatchdog(collector)

	logger.Info("mock message")

	require.Len(t, collector.events, 1)
	event := collector.events[0]
	assert.Equal(t, "mock message", event.Content)
	require.Len(t, event.Params, 1)
	assert.Equal(t, "host", event.Params[0].GetKey())
	assert.Equal(t, rays.Host.String(), event.Params[0].GetRaw())
}
