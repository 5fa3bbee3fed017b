package internal

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jinzhu/configor"
	"github.com/massmux/lnbitskit/pkg/network"
	log "github.com/sirupsen/logrus"
)

type Configuration struct {
	Lnbits  LnbitsConfiguration  `yaml:"lnbits"`
	Network NetworkConfiguration `yaml:"network"`
	Log     LogConfiguration     `yaml:"log"`
}

type LnbitsConfiguration struct {
	Version    int      `yaml:"version" default:"1"`
	Url        string   `yaml:"url" required:"true"`
	ServerUrl  *url.URL `yaml:"-"`
	AdminKey   string   `yaml:"admin_key" required:"true"`
	InvoiceKey string   `yaml:"invoice_key"`
	WalletId   string   `yaml:"wallet_id"`
	User       string   `yaml:"user"`
}

type NetworkConfiguration struct {
	SocksProxy *network.SocksConfiguration `yaml:"socks_proxy,omitempty"`
	TorProxy   *network.SocksConfiguration `yaml:"tor_proxy,omitempty"`
	RateLimit  float64                     `yaml:"rate_limit"`
	RateBurst  int                         `yaml:"rate_burst" default:"10"`
	Timeout    int64                       `yaml:"timeout"` // seconds, 0 disables
}

type LogConfiguration struct {
	Verbose bool   `yaml:"verbose"`
	Level   string `yaml:"level" default:"info"`
}

// Load reads the configuration from the given files (yaml, json or toml) and
// LNBITS_* environment variables.
func Load(files ...string) (*Configuration, error) {
	c := &Configuration{}
	err := configor.New(&configor.Config{ENVPrefix: "LNBITS"}).Load(c, files...)
	if err != nil {
		return nil, err
	}
	if err := checkLnbitsConfiguration(c); err != nil {
		return nil, err
	}
	return c, nil
}

func checkLnbitsConfiguration(c *Configuration) error {
	if c.Lnbits.Url == "" {
		return fmt.Errorf("please configure a lnbits url")
	}
	c.Lnbits.Url = strings.TrimSuffix(c.Lnbits.Url, "/")
	serverUrl, err := url.Parse(c.Lnbits.Url)
	if err != nil {
		return err
	}
	if serverUrl.Scheme == "" || serverUrl.Host == "" {
		return fmt.Errorf("lnbits url %q is not absolute", c.Lnbits.Url)
	}
	c.Lnbits.ServerUrl = serverUrl
	if c.Lnbits.Version < 2 && c.Lnbits.InvoiceKey == "" {
		log.Warnf("[Configuration] no invoice key configured, read-only calls will be sent without a key")
	}
	return nil
}
