package lnbits

import (
	"time"

	"github.com/massmux/lnbitskit/internal"
	"github.com/massmux/lnbitskit/pkg/network"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Client talks to one wallet of an lnbits instance. It holds no mutable state
// and is safe for concurrent use.
type Client struct {
	credentials Credentials
	transport   network.Transport
	logger      log.FieldLogger
	verbose     bool
}

type Option func(*Client)

// WithTransport replaces the transport picked from the server host.
func WithTransport(t network.Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

func WithLogger(l log.FieldLogger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithVerbose enables diagnostic logging of every constructed request.
func WithVerbose(v bool) Option {
	return func(c *Client) {
		c.verbose = v
	}
}

// NewClient returns a new lnbits api client for the wallet described by creds.
// Without WithTransport the transport is chosen once from the server host:
// onion services are reached through tor, everything else directly.
func NewClient(creds Credentials, opts ...Option) *Client {
	if creds.Version == 0 {
		creds.Version = CredentialsV1
	}
	c := &Client{
		credentials: creds,
		logger:      log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = network.ForServer(creds.Server, nil, nil, network.WithLogger(c.logger))
	}
	return c
}

// NewClientFromConfig loads the configuration files and builds a client from them.
func NewClientFromConfig(files ...string) (*Client, error) {
	cfg, err := internal.Load(files...)
	if err != nil {
		return nil, err
	}
	return newClientFromConfiguration(cfg)
}

func newClientFromConfiguration(cfg *internal.Configuration) (*Client, error) {
	logger := log.New()
	logger.SetLevel(log.InfoLevel)
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	customFormatter := new(log.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	logger.SetFormatter(customFormatter)

	opts := []network.Option{network.WithLogger(logger)}
	if cfg.Network.Timeout > 0 {
		opts = append(opts, network.WithTimeout(time.Duration(cfg.Network.Timeout)*time.Second))
	}
	if cfg.Network.RateLimit > 0 {
		opts = append(opts, network.WithRateLimit(network.NewLimiter(rate.Limit(cfg.Network.RateLimit), cfg.Network.RateBurst)))
	}
	transport := network.ForServer(cfg.Lnbits.Url, cfg.Network.TorProxy, cfg.Network.SocksProxy, opts...)

	creds := Credentials{
		Version:    CredentialVersion(cfg.Lnbits.Version),
		Server:     cfg.Lnbits.Url,
		AdminKey:   cfg.Lnbits.AdminKey,
		InvoiceKey: cfg.Lnbits.InvoiceKey,
		WalletID:   cfg.Lnbits.WalletId,
		User:       cfg.Lnbits.User,
	}
	return NewClient(creds,
		WithTransport(transport),
		WithLogger(logger),
		WithVerbose(cfg.Log.Verbose),
	), nil
}

func (c *Client) Credentials() Credentials {
	return c.credentials
}
