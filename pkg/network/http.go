package network

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/imroc/req"
	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"
)

// DefaultTorProxy is the socks5 address of a locally running tor daemon.
const DefaultTorProxy = "127.0.0.1:9050"

// Request is a fully formed request as produced by the lnbits request builder.
type Request struct {
	Method string
	URL    string
	Header req.Header
	Body   []byte
}

// Transport sends a request and hands back the raw response body and status code.
type Transport interface {
	Send(ctx context.Context, r *Request) ([]byte, int, error)
}

// HTTPClientProvider is implemented by transports that can expose their
// underlying http client, e.g. for long lived event streams.
type HTTPClientProvider interface {
	HTTPClient() *http.Client
}

type SocksConfiguration struct {
	Host     string `yaml:"host"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Client is the req based Transport.
type Client struct {
	http    *http.Client
	limiter *Limiter
	overlay bool
	logger  log.FieldLogger
}

type Option func(*Client)

// WithTimeout sets a timeout on the underlying http client. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithRateLimit throttles requests per target host.
func WithRateLimit(l *Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithLogger routes the transport's log lines to l.
func WithLogger(l log.FieldLogger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewDirect returns a transport that connects to the target host directly.
func NewDirect(opts ...Option) *Client {
	c := &Client{http: &http.Client{}, logger: log.StandardLogger()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewOverlay returns a transport that dials every connection through the given socks5 proxy.
func NewOverlay(socks SocksConfiguration, opts ...Option) (*Client, error) {
	var auth *proxy.Auth
	if socks.Username != "" && socks.Password != "" {
		auth = &proxy.Auth{User: socks.Username, Password: socks.Password}
	}
	host := strings.TrimPrefix(socks.Host, "socks5://")
	d, err := proxy.SOCKS5("tcp", host, auth, &net.Dialer{
		Timeout:   20 * time.Second,
		KeepAlive: -1,
	})
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "socks5 proxy %s", host)
	}
	specialTransport := &http.Transport{}
	specialTransport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		if cd, ok := d.(proxy.ContextDialer); ok {
			return cd.DialContext(ctx, network, addr)
		}
		return d.Dial(network, addr)
	}
	c := NewDirect(opts...)
	c.http.Transport = specialTransport
	c.overlay = true
	return c, nil
}

// ForServer picks the transport variant by inspecting the server host once.
// Onion hosts go through tor, everything else through socks (if configured) or directly.
func ForServer(server string, tor, socks *SocksConfiguration, opts ...Option) Transport {
	direct := NewDirect(opts...)
	u, err := url.Parse(server)
	if err == nil && IsOnion(u.Hostname()) {
		if tor == nil {
			tor = &SocksConfiguration{Host: DefaultTorProxy}
		}
		c, err := NewOverlay(*tor, opts...)
		if err != nil {
			direct.logger.Errorf("[ForServer] %v", err)
			return direct
		}
		return c
	}
	if socks != nil && socks.Host != "" {
		c, err := NewOverlay(*socks, opts...)
		if err != nil {
			direct.logger.Errorf("[ForServer] %v", err)
			return direct
		}
		return c
	}
	return direct
}

func IsOnion(host string) bool {
	return strings.HasSuffix(strings.ToLower(host), ".onion")
}

func (c *Client) IsOverlay() bool {
	return c.overlay
}

func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Send performs the request. Cancellation is carried by ctx, there are no retries.
func (c *Client) Send(ctx context.Context, r *Request) ([]byte, int, error) {
	if c.limiter != nil {
		if u, err := url.Parse(r.URL); err == nil {
			if err := c.limiter.Wait(ctx, u.Host); err != nil {
				return nil, 0, pkgerrors.Wrap(err, "rate limit")
			}
		}
	}
	rq := req.New()
	rq.SetClient(c.http)
	args := []interface{}{r.Header, ctx}
	if len(r.Body) > 0 {
		args = append(args, r.Body)
	}
	resp, err := rq.Do(r.Method, r.URL, args...)
	if err != nil {
		return nil, 0, pkgerrors.Wrapf(err, "%s %s", r.Method, r.URL)
	}
	body, err := resp.ToBytes()
	if err != nil {
		return nil, resp.Response().StatusCode, pkgerrors.Wrapf(err, "read %s", r.URL)
	}
	return body, resp.Response().StatusCode, nil
}
