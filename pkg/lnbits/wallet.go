package lnbits

import (
	"context"
	"net/http"
	"net/url"
)

// Wallet returns name and balance of the wallet.
func (c *Client) Wallet(ctx context.Context) (Balance, error) {
	var b Balance
	r, err := c.build(EndpointWallet, http.MethodGet, "", nil, ReadOnly)
	if err != nil {
		return b, err
	}
	err = c.call(ctx, r, &b, "name", "balance")
	return b, err
}

// GetBalance returns the wallet balance in sat.
func (c *Client) GetBalance(ctx context.Context) (Sat, error) {
	b, err := c.Wallet(ctx)
	if err != nil {
		return 0, err
	}
	return b.Sats(), nil
}

func (c *Client) GetName(ctx context.Context) (string, error) {
	b, err := c.Wallet(ctx)
	if err != nil {
		return "", err
	}
	return b.Name, nil
}

// GetBalanceName returns balance (sat) and name with one request.
func (c *Client) GetBalanceName(ctx context.Context) (Sat, string, error) {
	b, err := c.Wallet(ctx)
	if err != nil {
		return 0, "", err
	}
	return b.Sats(), b.Name, nil
}

// TestConnection reports whether the wallet endpoint answers with a balance.
func (c *Client) TestConnection(ctx context.Context) bool {
	_, err := c.GetBalance(ctx)
	if err != nil {
		c.logger.Warnf("[TestConnection] %s: %v", c.credentials.Server, err)
		return false
	}
	return true
}

// RenameWallet changes the wallet name.
func (c *Client) RenameWallet(ctx context.Context, name string) (Balance, error) {
	var b Balance
	r, err := c.build(EndpointWallet, http.MethodPut, url.PathEscape(name), nil, Admin)
	if err != nil {
		return b, err
	}
	err = c.call(ctx, r, &b, "name")
	return b, err
}

// DeleteWallet removes a wallet through the user manager extension.
func (c *Client) DeleteWallet(ctx context.Context, walletID string) error {
	r, err := c.build(EndpointUserWallets, http.MethodDelete, url.PathEscape(walletID), nil, Admin)
	if err != nil {
		return err
	}
	return c.expectNoDetail(ctx, r)
}
