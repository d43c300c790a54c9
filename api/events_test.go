package api

import (
	"testing"
	"time"

	"solder/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHubPublishReachesProjectSubscribers(t *testing.T) {
	t.Parallel()
	hub := newEventHub()
	ch := hub.subscribe("demo")
	other := hub.subscribe("other")
	defer hub.unsubscribe("demo", ch)
	defer hub.unsubscribe("other", other)

	line := domain.OutputLine{Stream: "stdout", Line: "Compiling demo", Time: time.Now()}
	hub.publish(domain.WorkspaceEvent{Type: "toolchain_output", Project: "demo", Output: &line})

	select {
	case event := <-ch:
		assert.Equal(t, "toolchain_output", event.Type)
		require.NotNil(t, event.Output)
		assert.Equal(t, "Compiling demo", event.Output.Line)
	case <-time.After(time.Second):
		t.Fatal("expected event for subscribed project")
	}

	select {
	case event := <-other:
		t.Fatalf("unexpected event for other project: %+v", event)
	default:
	}
}

func TestEventHubDropsWhenSubscriberIsFull(t *testing.T) {
	t.Parallel()
	hub := newEventHub()
	ch := hub.subscribe("demo")
	defer hub.unsubscribe("demo", ch)

	// publish never blocks, even with no reader draining the channel
	for i := 0; i < 2*cap(ch); i++ {
		hub.publish(domain.WorkspaceEvent{Type: "tree_changed", Project: "demo"})
	}
	assert.Equal(t, cap(ch), len(ch))
}

func TestOutputSinkPublishesToolchainOutput(t *testing.T) {
	t.Parallel()
	ctrl := Controller{hub: newEventHub()}
	ch := ctrl.hub.subscribe("demo")
	defer ctrl.hub.unsubscribe("demo", ch)

	sink := ctrl.outputSink("demo")
	sink(domain.OutputLine{Stream: "stderr", Line: "warning: unused variable"})

	select {
	case event := <-ch:
		assert.Equal(t, "demo", event.Project)
		require.NotNil(t, event.Output)
		assert.Equal(t, "stderr", event.Output.Stream)
	case <-time.After(time.Second):
		t.Fatal("expected published output line")
	}
}
