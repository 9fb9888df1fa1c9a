// Package transport implements the duplex websocket connection to a
// galaxy server (spec.md §4.1): dialing (optionally through an
// http_proxy CONNECT tunnel), binary-only framing, and the two
// endpoints (a synchronous, mutex-serialized Send and an inbound frame
// stream) the upper layers build the packet codec and correlator on top
// of.
//
// Grounded in gorilla/websocket the way the teacher (lab1702/netrek-web,
// server/websocket.go) uses it on the accept side, mirrored to the dial
// side the way the Planetside-2 event-stream client does
// (github.com/Travis-Britz/ps2's wsc package): a websocket.Dialer,
// goroutines reading/writing independently, and channels carrying
// frames between them and the application.
package transport

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/flattiverse/connector-go/gameerror"
)

// DefaultDialTimeout bounds the websocket handshake (spec.md doesn't
// name a value; we follow the teacher's HTTP server timeouts in
// main.go, which are all single-digit seconds).
const DefaultDialTimeout = 10 * time.Second

// Config controls how Transport.Dial opens the connection.
type Config struct {
	// DialTimeout bounds the CONNECT tunnel dial plus the websocket
	// handshake. Zero selects DefaultDialTimeout.
	DialTimeout time.Duration

	// ProxyURL overrides the http_proxy environment variable. Empty
	// means "read http_proxy"; use a non-nil *url.URL with an empty
	// string field to force "no proxy" even if http_proxy is set.
	ProxyURL *url.URL
}

// Transport is the open duplex connection: a Send method callers write
// frames through and a receive stream the caller drains in arrival order.
type Transport struct {
	conn *websocket.Conn

	sendMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// Dial opens wss://host/path?auth=...&team=... per spec.md §6, honoring
// an http_proxy CONNECT tunnel if configured. host must not include a
// scheme. path must start with "/".
func Dial(ctx context.Context, host, path string, query url.Values, cfg Config) (*Transport, error) {
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}

	u := url.URL{Scheme: "wss", Host: host, Path: path, RawQuery: query.Encode()}

	dialer := &websocket.Dialer{
		HandshakeTimeout: cfg.DialTimeout,
		EnableCompression: false,
	}

	proxyURL, err := proxyFor(cfg, &u)
	if err != nil {
		return nil, &gameerror.Error{Kind: gameerror.KindCantConnect}
	}
	if proxyURL != nil {
		proxyCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
		netConn, err := dialThroughProxy(proxyCtx, proxyURL, host)
		cancel()
		if err != nil {
			return nil, err
		}
		dialer.NetDialContext = func(context.Context, string, string) (net.Conn, error) {
			return netConn, nil
		}
	}

	conn, resp, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, gameerror.FromHTTPStatus(resp.StatusCode)
		}
		return nil, &gameerror.Error{Kind: gameerror.KindCantConnect}
	}
	if resp != nil && resp.StatusCode >= 400 {
		_ = conn.Close()
		return nil, gameerror.FromHTTPStatus(resp.StatusCode)
	}

	setNoDelay(conn)

	return &Transport{conn: conn}, nil
}

// setNoDelay sets TCP_NODELAY when the runtime exposes the underlying
// net.Conn as a *net.TCPConn (spec.md §4.1). Silently a no-op otherwise
// (e.g. when tunnelled through a proxy wrapper or TLS).
func setNoDelay(conn *websocket.Conn) {
	type tcpNoDelay interface {
		SetNoDelay(bool) error
	}
	if nc, ok := conn.UnderlyingConn().(tcpNoDelay); ok {
		_ = nc.SetNoDelay(true)
	}
}

// proxyFor resolves the proxy URL to tunnel through, per spec.md §4.1/§6:
// the http_proxy environment variable, unless overridden by Config.
func proxyFor(cfg Config, target *url.URL) (*url.URL, error) {
	if cfg.ProxyURL != nil {
		if cfg.ProxyURL.String() == "" {
			return nil, nil
		}
		return cfg.ProxyURL, nil
	}
	raw := os.Getenv("http_proxy")
	if raw == "" {
		return nil, nil
	}
	return url.Parse(raw)
}

// dialThroughProxy opens a TCP connection to the proxy and issues an
// HTTP CONNECT tunnel to host (default port 443), per spec.md §4.1.
func dialThroughProxy(ctx context.Context, proxyURL *url.URL, host string) (net.Conn, error) {
	targetHost := host
	if !strings.Contains(targetHost, ":") {
		targetHost = net.JoinHostPort(targetHost, "443")
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", proxyURL.Host)
	if err != nil {
		return nil, &gameerror.Error{Kind: gameerror.KindCantConnect}
	}

	req, err := http.NewRequest(http.MethodConnect, "http://"+targetHost, nil)
	if err != nil {
		_ = conn.Close()
		return nil, &gameerror.Error{Kind: gameerror.KindCantConnect}
	}
	req.Host = targetHost

	if err := req.Write(conn); err != nil {
		_ = conn.Close()
		return nil, &gameerror.Error{Kind: gameerror.KindCantConnect}
	}

	resp, err := http.ReadResponse(bufio.NewReader(conn), req)
	if err != nil {
		_ = conn.Close()
		return nil, &gameerror.Error{Kind: gameerror.KindCantConnect}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_ = conn.Close()
		return nil, fmt.Errorf("transport: CONNECT %s via proxy failed: %s", targetHost, resp.Status)
	}

	return conn, nil
}

// Send writes a binary frame to the connection. Writers are serialized by
// a mutex and there is no send queue: the call returns once the write
// has completed or failed.
func (t *Transport) Send(frame []byte) error {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()
	return t.conn.WriteMessage(websocket.BinaryMessage, frame)
}

// SendPing writes a websocket-layer ping frame carrying payload, used by
// the keep-alive component (spec.md §4.8).
func (t *Transport) SendPing(payload []byte) error {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()
	return t.conn.WriteControl(websocket.PingMessage, payload, time.Now().Add(5*time.Second))
}

// SendPong replies to a server-initiated ping.
func (t *Transport) SendPong(payload []byte) error {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()
	return t.conn.WriteControl(websocket.PongMessage, payload, time.Now().Add(5*time.Second))
}

// SetPingHandler installs the callback invoked when the server sends a
// websocket-layer ping.
func (t *Transport) SetPingHandler(h func(payload string) error) {
	t.conn.SetPingHandler(h)
}

// SetPongHandler installs the callback invoked when the server echoes a
// pong to our keep-alive ping.
func (t *Transport) SetPongHandler(h func(payload string) error) {
	t.conn.SetPongHandler(h)
}

// ReceiveFrame blocks for the next binary frame. Per spec.md §4.1, text,
// continuation, or any other message kind is a protocol violation that
// terminates the session.
func (t *Transport) ReceiveFrame() ([]byte, error) {
	for {
		kind, data, err := t.conn.ReadMessage()
		if err != nil {
			return nil, &gameerror.Error{Kind: gameerror.KindConnectionTerminated}
		}
		switch kind {
		case websocket.BinaryMessage:
			return data, nil
		case websocket.CloseMessage:
			return nil, &gameerror.Error{Kind: gameerror.KindConnectionTerminated}
		default:
			log.Printf("transport: protocol violation: unexpected websocket message kind %d", kind)
			_ = t.Close()
			return nil, &gameerror.Error{Kind: gameerror.KindConnectionTerminated}
		}
	}
}

// Close terminates the underlying connection. Safe to call more than once.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}
