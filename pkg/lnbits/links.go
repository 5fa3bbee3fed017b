package lnbits

import (
	"context"
	"net/http"
	"net/url"
)

// PayLink is an lnurl-pay link managed by the lnurlp extension. Bounds are in sat.
type PayLink struct {
	ID                 string  `json:"id"`
	Wallet             string  `json:"wallet"`
	Description        string  `json:"description"`
	Min                int64   `json:"min"`
	Max                int64   `json:"max"`
	ServedMeta         int     `json:"served_meta"`
	ServedPR           int     `json:"served_pr"`
	WebhookURL         *string `json:"webhook_url"`
	SuccessText        *string `json:"success_text"`
	SuccessURL         *string `json:"success_url"`
	Currency           *string `json:"currency"`
	CommentChars       int     `json:"comment_chars"`
	FiatBaseMultiplier int     `json:"fiat_base_multiplier"`
	LNURL              string  `json:"lnurl"`
	Zaps               *bool   `json:"zaps"`
	Domain             *string `json:"domain"`
	Username           *string `json:"username"`
}

type PayLinkParams struct {
	Description  string `json:"description"`
	Amount       int64  `json:"amount"`
	Min          int64  `json:"min"`
	Max          int64  `json:"max"`
	CommentChars int    `json:"comment_chars"`
	WebhookURL   string `json:"webhook_url,omitempty"`
	SuccessText  string `json:"success_text,omitempty"`
	SuccessURL   string `json:"success_url,omitempty"`
	Currency     string `json:"currency,omitempty"`
	Username     string `json:"username,omitempty"`
}

// withDefaults fills the bounds the way the service form does.
func (p PayLinkParams) withDefaults() PayLinkParams {
	if p.Amount == 0 {
		p.Amount = 1
	}
	if p.Min == 0 {
		p.Min = 1
	}
	if p.Max == 0 {
		p.Max = 100000000
	}
	if p.CommentChars == 0 {
		p.CommentChars = 100
	}
	return p
}

func (c *Client) CreatePayLink(ctx context.Context, params PayLinkParams) (PayLink, error) {
	var l PayLink
	r, err := c.build(EndpointPayLinks, http.MethodPost, "", params.withDefaults(), Admin)
	if err != nil {
		return l, err
	}
	err = c.call(ctx, r, &l, "id", "lnurl")
	return l, err
}

func (c *Client) GetPayLink(ctx context.Context, id string) (PayLink, error) {
	var l PayLink
	r, err := c.build(EndpointPayLinks, http.MethodGet, url.PathEscape(id), nil, Admin)
	if err != nil {
		return l, err
	}
	err = c.call(ctx, r, &l, "id")
	return l, err
}

func (c *Client) ListPayLinks(ctx context.Context) ([]PayLink, error) {
	var links []PayLink
	r, err := c.build(EndpointPayLinks, http.MethodGet, "", nil, Admin)
	if err != nil {
		return nil, err
	}
	err = c.call(ctx, r, &links)
	return links, err
}

func (c *Client) UpdatePayLink(ctx context.Context, id string, params PayLinkParams) (PayLink, error) {
	var l PayLink
	r, err := c.build(EndpointPayLinks, http.MethodPut, url.PathEscape(id), params.withDefaults(), Admin)
	if err != nil {
		return l, err
	}
	err = c.call(ctx, r, &l, "id")
	return l, err
}

func (c *Client) DeletePayLink(ctx context.Context, id string) error {
	r, err := c.build(EndpointPayLinks, http.MethodDelete, url.PathEscape(id), nil, Admin)
	if err != nil {
		return err
	}
	return c.expectNoDetail(ctx, r)
}

// WithdrawLink is an lnurl-withdraw link managed by the withdraw extension. Bounds are in sat.
type WithdrawLink struct {
	ID              string  `json:"id"`
	Wallet          string  `json:"wallet"`
	Title           string  `json:"title"`
	MinWithdrawable int64   `json:"min_withdrawable"`
	MaxWithdrawable int64   `json:"max_withdrawable"`
	Uses            int     `json:"uses"`
	WaitTime        int     `json:"wait_time"`
	IsUnique        bool    `json:"is_unique"`
	UniqueHash      string  `json:"unique_hash"`
	K1              string  `json:"k1"`
	OpenTime        int64   `json:"open_time"`
	Used            int     `json:"used"`
	Number          int     `json:"number"`
	WebhookURL      *string `json:"webhook_url"`
	LNURL           string  `json:"lnurl"`
}

type WithdrawLinkParams struct {
	Title           string `json:"title"`
	MinWithdrawable int64  `json:"min_withdrawable"`
	MaxWithdrawable int64  `json:"max_withdrawable"`
	Uses            int    `json:"uses"`
	WaitTime        int    `json:"wait_time"`
	IsUnique        bool   `json:"is_unique"`
	WebhookURL      string `json:"webhook_url,omitempty"`
}

func (c *Client) CreateWithdrawLink(ctx context.Context, params WithdrawLinkParams) (WithdrawLink, error) {
	var l WithdrawLink
	if params.Uses == 0 {
		params.Uses = 1
	}
	if params.WaitTime == 0 {
		params.WaitTime = 1
	}
	r, err := c.build(EndpointWithdrawLinks, http.MethodPost, "", params, Admin)
	if err != nil {
		return l, err
	}
	err = c.call(ctx, r, &l, "id", "lnurl")
	return l, err
}

func (c *Client) GetWithdrawLink(ctx context.Context, id string) (WithdrawLink, error) {
	var l WithdrawLink
	r, err := c.build(EndpointWithdrawLinks, http.MethodGet, url.PathEscape(id), nil, Admin)
	if err != nil {
		return l, err
	}
	err = c.call(ctx, r, &l, "id")
	return l, err
}

func (c *Client) ListWithdrawLinks(ctx context.Context) ([]WithdrawLink, error) {
	var links []WithdrawLink
	r, err := c.build(EndpointWithdrawLinks, http.MethodGet, "", nil, Admin)
	if err != nil {
		return nil, err
	}
	err = c.call(ctx, r, &links)
	return links, err
}

func (c *Client) DeleteWithdrawLink(ctx context.Context, id string) error {
	r, err := c.build(EndpointWithdrawLinks, http.MethodDelete, url.PathEscape(id), nil, Admin)
	if err != nil {
		return err
	}
	return c.expectNoDetail(ctx, r)
}
