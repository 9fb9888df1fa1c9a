package transport

import (
	"bufio"
	"net"
	"net/http"
	"net/url"
	"testing"
	"time"
)

func TestProxyForReadsEnvironment(t *testing.T) {
	t.Setenv("http_proxy", "http://127.0.0.1:8888")
	got, err := proxyFor(Config{}, &url.URL{Host: "example.com"})
	if err != nil {
		t.Fatalf("proxyFor: %v", err)
	}
	if got == nil || got.Host != "127.0.0.1:8888" {
		t.Fatalf("expected proxy from env, got %v", got)
	}
}

func TestProxyForConfigOverridesEnvironment(t *testing.T) {
	t.Setenv("http_proxy", "http://127.0.0.1:8888")
	override, _ := url.Parse("http://10.0.0.1:3128")
	got, err := proxyFor(Config{ProxyURL: override}, &url.URL{Host: "example.com"})
	if err != nil {
		t.Fatalf("proxyFor: %v", err)
	}
	if got.Host != "10.0.0.1:3128" {
		t.Fatalf("expected override proxy, got %v", got)
	}
}

func TestProxyForNoEnvironment(t *testing.T) {
	t.Setenv("http_proxy", "")
	got, err := proxyFor(Config{}, &url.URL{Host: "example.com"})
	if err != nil {
		t.Fatalf("proxyFor: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no proxy, got %v", got)
	}
}

// fakeConnectProxy accepts one CONNECT request and responds 200, then
// leaves the connection open so the caller can keep using it as a tunnel.
func fakeConnectProxy(t *testing.T, ok bool) (addr string, done chan struct{}) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	done = make(chan struct{})
	go func() {
		defer close(done)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		req, err := http.ReadRequest(bufio.NewReader(conn))
		if err != nil {
			return
		}
		if req.Method != http.MethodConnect {
			conn.Write([]byte("HTTP/1.1 400 Bad Request\r\n\r\n"))
			return
		}
		if ok {
			conn.Write([]byte("HTTP/1.1 200 Connection Established\r\n\r\n"))
			time.Sleep(20 * time.Millisecond)
		} else {
			conn.Write([]byte("HTTP/1.1 407 Proxy Authentication Required\r\n\r\n"))
		}
	}()
	return ln.Addr().String(), done
}

func TestDialThroughProxySuccess(t *testing.T) {
	addr, done := fakeConnectProxy(t, true)
	proxyURL, _ := url.Parse("http://" + addr)

	conn, err := dialThroughProxy(t.Context(), proxyURL, "example.com:443")
	if err != nil {
		t.Fatalf("dialThroughProxy: %v", err)
	}
	conn.Close()
	<-done
}

func TestDialThroughProxyRejected(t *testing.T) {
	addr, done := fakeConnectProxy(t, false)
	proxyURL, _ := url.Parse("http://" + addr)

	_, err := dialThroughProxy(t.Context(), proxyURL, "example.com:443")
	if err == nil {
		t.Fatalf("expected error for rejected CONNECT")
	}
	<-done
}
