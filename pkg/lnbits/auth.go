package lnbits

import (
	"context"
	"fmt"
	"net/http"

	"github.com/massmux/lnbitskit/pkg/lnbits/errors"
)

// Account is the user returned after a password login.
type Account struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Wallets  []AccountWallet `json:"wallets"`
}

type AccountWallet struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	AdminKey    string   `json:"adminkey"`
	InvoiceKey  string   `json:"inkey"`
	BalanceMsat MilliSat `json:"balance_msat"`
}

// Credentials returns the credentials of the i-th wallet of the account.
func (a Account) Credentials(server string, i int) (Credentials, error) {
	if i < 0 || i >= len(a.Wallets) {
		return Credentials{}, errors.Create(errors.PreconditionError, fmt.Sprintf("account has no wallet %d", i))
	}
	w := a.Wallets[i]
	return Credentials{
		Version:    CredentialsV1,
		Server:     server,
		AdminKey:   w.AdminKey,
		InvoiceKey: w.InvoiceKey,
		WalletID:   w.ID,
		User:       a.ID,
	}, nil
}

// Login signs in with username and password and returns the account with its
// wallets. The client needs no keys for this.
func (c *Client) Login(ctx context.Context, username, password string) (Account, error) {
	var acc Account
	body, err := jsonBody("username", username, "password", password)
	if err != nil {
		return acc, err
	}
	r, err := c.build(EndpointAuth, http.MethodPost, "", body, Anonymous)
	if err != nil {
		return acc, err
	}
	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.call(ctx, r, &token, "access_token"); err != nil {
		c.logger.Warnf("[Login] %s: %v", username, err)
		return acc, err
	}

	r, err = c.build(EndpointAuth, http.MethodGet, "", nil, Anonymous)
	if err != nil {
		return acc, err
	}
	r.Header["Cookie"] = "cookie_access_token=" + token.AccessToken
	if err := c.call(ctx, r, &acc, "id", "wallets"); err != nil {
		return acc, err
	}
	c.logger.Infof("[Login] %s signed in with %d wallets", username, len(acc.Wallets))
	return acc, nil
}
