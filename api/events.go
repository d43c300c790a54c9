package api

import (
	"context"
	"sync"

	"solder/domain"
	"solder/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	zlog "github.com/rs/zerolog/log"
)

// eventHub fans toolchain output out to the websocket subscribers of a
// project. Tree changes are delivered separately, straight from a per
// connection filesystem watcher.
type eventHub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan domain.WorkspaceEvent]struct{}
}

func newEventHub() *eventHub {
	return &eventHub{subscribers: make(map[string]map[chan domain.WorkspaceEvent]struct{})}
}

func (h *eventHub) subscribe(project string) chan domain.WorkspaceEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan domain.WorkspaceEvent, 100)
	if h.subscribers[project] == nil {
		h.subscribers[project] = make(map[chan domain.WorkspaceEvent]struct{})
	}
	h.subscribers[project][ch] = struct{}{}
	return ch
}

func (h *eventHub) unsubscribe(project string, ch chan domain.WorkspaceEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers[project], ch)
	if len(h.subscribers[project]) == 0 {
		delete(h.subscribers, project)
	}
}

func (h *eventHub) publish(event domain.WorkspaceEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers[event.Project] {
		select {
		case ch <- event:
		default:
			// slow subscriber, drop rather than block the toolchain
		}
	}
}

// outputSink returns a toolchain output sink that publishes lines as
// workspace events for the given project.
func (ctrl *Controller) outputSink(project string) func(domain.OutputLine) {
	return func(line domain.OutputLine) {
		l := line
		ctrl.hub.publish(domain.WorkspaceEvent{
			Type:    "toolchain_output",
			Project: project,
			Output:  &l,
		})
	}
}

// ProjectEventsWebsocketHandler streams tree-change and toolchain-output
// events for one project over a websocket connection.
func (ctrl *Controller) ProjectEventsWebsocketHandler(c *gin.Context, allowedOrigins *AllowedOrigins) {
	project := c.Param("name")
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	projectDir, err := ctrl.store.RequireProject(project)
	if err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     CheckWebSocketOrigin(allowedOrigins),
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zlog.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}
	defer conn.Close()

	watcher, err := store.NewWatcher(projectDir)
	if err != nil {
		zlog.Error().Err(err).Str("project", project).Msg("Failed to start project watcher")
		return
	}
	defer watcher.Close()

	outputCh := ctrl.hub.subscribe(project)
	defer ctrl.hub.unsubscribe(project, outputCh)

	// Handle disconnection detection in a separate goroutine
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				zlog.Debug().Err(err).Msg("Websocket client disconnected")
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-watcher.Changes():
			event := domain.WorkspaceEvent{Type: "tree_changed", Project: project}
			if err := conn.WriteJSON(event); err != nil {
				zlog.Debug().Err(err).Msg("Error writing tree change to websocket")
				return
			}
		case event := <-outputCh:
			if err := conn.WriteJSON(event); err != nil {
				zlog.Debug().Err(err).Msg("Error writing toolchain output to websocket")
				return
			}
		}
	}
}
