package stream

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// State is the connection state of the single managed socket.
type State int32

const (
	StateClosed State = iota
	StateConnecting
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "closed"
	}
}

// TimestampedMessage wraps raw message data with a receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw message bytes from the WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// Frame is a parsed push frame handed to the registered consumer.
type Frame struct {
	Data       []byte    // Verbatim frame bytes (already validated as JSON)
	ReceivedAt time.Time // Local timestamp when the frame arrived
}

// FrameHandler consumes frames from the push channel.
type FrameHandler interface {
	HandleFrame(Frame)
}

// FrameHandlerFunc is a function adapter for FrameHandler.
type FrameHandlerFunc func(Frame)

func (f FrameHandlerFunc) HandleFrame(frame Frame) { f(frame) }

// controlFrame is the client→server subscription control message.
type controlFrame struct {
	Action  string   `json:"action"` // "subscribe" or "unsubscribe"
	Symbols []string `json:"symbols"`
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL          string        // Push endpoint URL
	PingTimeout  time.Duration // Max time without ping before considering the connection stale
	WriteTimeout time.Duration // Write deadline for sends
	BufferSize   int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		PingTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Second,
		BufferSize:   1024,
	}
}

// ManagerConfig configures the Connection Manager.
type ManagerConfig struct {
	URL            string        // Push endpoint URL
	ReconnectDelay time.Duration // Fixed delay between reconnect attempts
	PingTimeout    time.Duration
	WriteTimeout   time.Duration
	BufferSize     int
}

// DefaultManagerConfig returns sensible defaults. The reconnect delay is a
// fixed constant with no jitter or cap; the socket is expected to be
// available whenever the backend is up. A multi-client service would need
// jitter here, a single-client dashboard does not.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		ReconnectDelay: 3 * time.Second,
		PingTimeout:    60 * time.Second,
		WriteTimeout:   5 * time.Second,
		BufferSize:     1024,
	}
}
