// Package publish streams entity frame snapshots to a remote viewer over
// Socket.IO. The publisher carries transforms only; what the viewer draws
// with them is its own business.
package publish

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/scenetick/internal/ctxlog"
	"github.com/vk/scenetick/internal/scene"
)

// FrameSnapshot is the wire representation of one entity's pose.
type FrameSnapshot struct {
	Name     string     `json:"name"`
	Position [3]float64 `json:"position"`
	Rotation [4]float64 `json:"rotation"` // w, x, y, z
}

// TickPayload is the body of every "frames" event.
type TickPayload struct {
	Time     float64         `json:"time"`
	Entities []FrameSnapshot `json:"entities"`
}

// Publisher holds an open Socket.IO connection to a viewer.
type Publisher struct {
	manager *socket.Manager
	io      *socket.Socket
}

// Connect dials the viewer at rawURL over the websocket transport and waits
// for the handshake to complete, bounded by timeout.
func Connect(ctx context.Context, rawURL string, timeout time.Duration) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("publisher", rawURL)
	logger.Debug("Connecting to viewer.")

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse publish URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)

	done := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		logger.Info("Connected to viewer.", "sid", io.Id())
		done <- nil
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				done <- err
				return
			}
		}
		done <- fmt.Errorf("connection refused by viewer")
	})

	io.Connect()

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	select {
	case <-opCtx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("timed out while waiting for viewer connection to %s", rawURL)
	case err := <-done:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("failed to connect to viewer: %w", err)
		}
	}

	return &Publisher{manager: manager, io: io}, nil
}

// PublishTick emits a "frames" event carrying the current pose of every
// entity in simulation order.
func (p *Publisher) PublishTick(s *scene.Scene) {
	p.io.Emit("frames", Snapshot(s))
}

// Close disconnects from the viewer.
func (p *Publisher) Close() {
	p.io.Disconnect()
}

// Snapshot captures the scene's entity poses as a wire payload.
func Snapshot(s *scene.Scene) TickPayload {
	entities := make([]FrameSnapshot, 0, s.Len())
	for _, e := range s.Entities() {
		f := e.Frame()
		entities = append(entities, FrameSnapshot{
			Name:     e.Name(),
			Position: [3]float64{f.Translation.X(), f.Translation.Y(), f.Translation.Z()},
			Rotation: [4]float64{f.Rotation.W, f.Rotation.V.X(), f.Rotation.V.Y(), f.Rotation.V.Z()},
		})
	}
	return TickPayload{Time: s.Time(), Entities: entities}
}
