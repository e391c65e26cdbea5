package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"
)

// DefaultRequestTimeout bounds a single remote completion call.
const DefaultRequestTimeout = 5 * time.Second

// RemoteEngine talks to an external completion server over a byte
// stream using newline-delimited JSON: one Request out, one Response
// back. Calls are serialized; the coordinator already collapses bursts
// per surface, so a single in-flight request is enough.
type RemoteEngine struct {
	mu      sync.Mutex
	conn    net.Conn
	enc     *json.Encoder
	dec     *json.Decoder
	timeout time.Duration
}

// NewRemoteEngine wraps an established connection.
func NewRemoteEngine(conn net.Conn) *RemoteEngine {
	return &RemoteEngine{
		conn:    conn,
		enc:     json.NewEncoder(conn),
		dec:     json.NewDecoder(conn),
		timeout: DefaultRequestTimeout,
	}
}

// DialEngine connects to a completion server.
func DialEngine(ctx context.Context, network, addr string) (*RemoteEngine, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("dialing completion server: %w", err)
	}
	return NewRemoteEngine(conn), nil
}

// SetRequestTimeout overrides the per-call deadline.
func (e *RemoteEngine) SetRequestTimeout(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if d > 0 {
		e.timeout = d
	}
}

// Ready implements Engine. The connection was established up front, so
// readiness is immediate.
func (e *RemoteEngine) Ready(ctx context.Context) error {
	return ctx.Err()
}

// Complete implements Engine.
func (e *RemoteEngine) Complete(ctx context.Context, req Request) (Response, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	deadline := time.Now().Add(e.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := e.conn.SetDeadline(deadline); err != nil {
		return Response{}, fmt.Errorf("setting deadline: %w", err)
	}

	if err := e.enc.Encode(req); err != nil {
		return Response{}, fmt.Errorf("sending completion request: %w", err)
	}
	var resp Response
	if err := e.dec.Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("reading completion response: %w", err)
	}
	return resp, nil
}

// Close shuts the connection down.
func (e *RemoteEngine) Close() error {
	return e.conn.Close()
}
