// File: proxy/relay.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package proxy

import (
	"context"
	"errors"
	"fmt"

	"github.com/momentics/hioload-proxy/api"
	"github.com/momentics/hioload-proxy/control"
	"github.com/momentics/hioload-proxy/core/conn"
	"github.com/momentics/hioload-proxy/core/protocol"
)

// Relay builds client and backend connections and registers them with the
// connection manager.
type Relay struct {
	mgr conn.Manager
	settings
}

// NewRelay returns a Relay adding connections to mgr.
func NewRelay(mgr conn.Manager, opts ...Option) *Relay {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return &Relay{mgr: mgr, settings: s}
}

// AddClient wraps an accepted socket into a client connection. The reader
// is attached once the connection has its ID, since the request handler
// needs it to pair backends with this client.
func (r *Relay) AddClient(sock api.Socket) (api.ConnID, error) {
	c := conn.New(conn.KindClient, sock)
	c.SetWriter(conn.NewAsyncWriter(c.Socket(), protocol.PassthroughOutput{}))
	id, err := r.mgr.Add(c)
	if err != nil {
		return 0, err
	}
	handler := &ClientHandler{relay: r, client: id}
	c.SetReader(conn.NewAsyncReader(c.Socket(), protocol.NewHTTPProtocol(handler), r.scratch))
	return id, nil
}

// OpenBackend connects to host and registers a backend connection whose
// output goes to client. A client that is no longer live yields
// api.ErrNotFound before anything is dialed.
func (r *Relay) OpenBackend(host string, client api.ConnID) (*conn.Connection, error) {
	if _, ok := r.mgr.Lookup(client); !ok {
		return nil, fmt.Errorf("open backend %s: client %d: %w", host, client, api.ErrNotFound)
	}
	sock, err := r.dialer.Dial(context.Background(), host)
	if err != nil {
		return nil, fmt.Errorf("open backend %s: %w", host, err)
	}
	c := conn.New(conn.KindBackend, sock)
	handler := &BackendHandler{mgr: r.mgr, client: client, metrics: r.metrics}
	c.SetReader(conn.NewAsyncReader(c.Socket(), protocol.NewBinaryProtocol(handler), r.scratch))
	c.SetWriter(conn.NewAsyncWriter(c.Socket(), protocol.PassthroughOutput{}))
	c.SetCloser(&BackendCloser{mgr: r.mgr, client: client})
	if _, err := r.mgr.Add(c); err != nil {
		return nil, fmt.Errorf("open backend %s: %w", host, err)
	}
	r.metrics.Add(control.MetricBackendsOpened, 1)
	return c, nil
}

// ClientHandler forwards each framed client request to a new backend.
type ClientHandler struct {
	relay  *Relay
	client api.ConnID
}

var _ api.RequestHandler = (*ClientHandler)(nil)

// HandleRequest drops requests without a host and requests whose backend
// cannot be set up; the client connection stays open in both cases.
func (h *ClientHandler) HandleRequest(req api.Buffer) {
	r := h.relay
	host, ok := ExtractHost(req)
	if !ok {
		r.log.Printf("[proxy] client %d: %v, request dropped", h.client, api.ErrNoHost)
		r.metrics.Add(control.MetricRequestsDropped, 1)
		return
	}
	backend, err := r.OpenBackend(host, h.client)
	if errors.Is(err, api.ErrNotFound) {
		r.metrics.Add(control.MetricRequestsDropped, 1)
		return
	}
	if err != nil {
		r.log.Printf("[proxy] client %d: failed to establish connection: %v", h.client, err)
		r.metrics.Add(control.MetricBackendsFailed, 1)
		r.metrics.Add(control.MetricRequestsDropped, 1)
		return
	}
	backend.AddOutput(req)
}

// BackendHandler relays backend bytes to the paired client, if it is
// still live.
type BackendHandler struct {
	mgr     conn.Manager
	client  api.ConnID
	metrics *control.MetricsRegistry
}

var _ api.RequestHandler = (*BackendHandler)(nil)

// HandleRequest queues chunk on the client connection.
func (h *BackendHandler) HandleRequest(chunk api.Buffer) {
	c, ok := h.mgr.Lookup(h.client)
	if !ok {
		return
	}
	c.AddOutput(chunk)
	h.metrics.Add(control.MetricBytesRelayed, int64(len(chunk)))
}

// BackendCloser lets the paired client finish its output and close.
type BackendCloser struct {
	mgr    conn.Manager
	client api.ConnID
}

var _ api.Closer = (*BackendCloser)(nil)

// OnClose marks the client close-after-output.
func (bc *BackendCloser) OnClose() {
	if c, ok := bc.mgr.Lookup(bc.client); ok {
		c.SetCloseAfterOutput()
	}
}
