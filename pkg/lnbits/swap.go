package lnbits

import (
	"context"
	"net/http"
	"net/url"

	"github.com/BoltzExchange/boltz-client/v2/pkg/boltz"
	"github.com/massmux/lnbitskit/pkg/lnbits/errors"
)

// SubmarineSwap moves on-chain funds into the wallet. Key material is returned
// by the bridge extension as is.
type SubmarineSwap struct {
	ID                 string  `json:"id"`
	Wallet             string  `json:"wallet"`
	Amount             Sat     `json:"amount"`
	Feerate            bool    `json:"feerate"`
	FeerateValue       *int64  `json:"feerate_value"`
	PaymentHash        string  `json:"payment_hash"`
	Time               int64   `json:"time"`
	Status             string  `json:"status"`
	RefundPrivkey      string  `json:"refund_privkey"`
	RefundAddress      string  `json:"refund_address"`
	BoltzID            string  `json:"boltz_id"`
	ExpectedAmount     Sat     `json:"expected_amount"`
	TimeoutBlockHeight int64   `json:"timeout_block_height"`
	Address            string  `json:"address"`
	Bip21              string  `json:"bip21"`
	RedeemScript       string  `json:"redeem_script"`
	Transaction        *string `json:"transaction,omitempty"`
}

// ReverseSubmarineSwap moves wallet funds to an on-chain address.
type ReverseSubmarineSwap struct {
	ID                 string `json:"id"`
	Wallet             string `json:"wallet"`
	Amount             Sat    `json:"amount"`
	Feerate            bool   `json:"feerate"`
	FeerateValue       *int64 `json:"feerate_value"`
	OnchainAddress     string `json:"onchain_address"`
	InstantSettlement  bool   `json:"instant_settlement"`
	Time               int64  `json:"time"`
	Status             string `json:"status"`
	BoltzID            string `json:"boltz_id"`
	Preimage           string `json:"preimage"`
	ClaimPrivkey       string `json:"claim_privkey"`
	LockupAddress      string `json:"lockup_address"`
	Invoice            string `json:"invoice"`
	OnchainAmount      Sat    `json:"onchain_amount"`
	TimeoutBlockHeight int64  `json:"timeout_block_height"`
	RedeemScript       string `json:"redeem_script"`
}

// RefundSwap is the swap record after a refund was broadcast.
type RefundSwap struct {
	ID                 string `json:"id"`
	Wallet             string `json:"wallet"`
	Amount             Sat    `json:"amount"`
	Status             string `json:"status"`
	RefundAddress      string `json:"refund_address"`
	RefundPrivkey      string `json:"refund_privkey"`
	BoltzID            string `json:"boltz_id"`
	TimeoutBlockHeight int64  `json:"timeout_block_height"`
	RedeemScript       string `json:"redeem_script"`
}

type SwapParams struct {
	Wallet        string `json:"wallet"`
	RefundAddress string `json:"refund_address"`
	Amount        Sat    `json:"amount"`
	Feerate       bool   `json:"feerate"`
	FeerateValue  *int64 `json:"feerate_value,omitempty"`
}

type ReverseSwapParams struct {
	Wallet            string `json:"wallet"`
	OnchainAddress    string `json:"onchain_address"`
	Amount            Sat    `json:"amount"`
	InstantSettlement bool   `json:"instant_settlement"`
	Feerate           bool   `json:"feerate"`
	FeerateValue      *int64 `json:"feerate_value,omitempty"`
}

// SwapStatus is the bridge's view of a swap.
type SwapStatus struct {
	Wallet             string `json:"wallet"`
	Boltz              string `json:"boltz"`
	Mempool            string `json:"mempool"`
	TimeoutBlockHeight string `json:"timeout_block_height"`
	Date               string `json:"date"`
}

// Event parses the bridge status string.
func (s SwapStatus) Event() boltz.SwapUpdateEvent {
	return boltz.ParseEvent(s.Boltz)
}

func (s SwapStatus) Completed() bool {
	return s.Event().IsCompletedStatus()
}

func (s SwapStatus) Failed() bool {
	return s.Event().IsFailedStatus()
}

// walletID returns the wallet the swap operations run for.
func (c *Client) walletID() (string, error) {
	if c.credentials.WalletID == "" {
		return "", errors.ErrMissingWalletID
	}
	return c.credentials.WalletID, nil
}

// CreateSwap creates a submarine swap paying into this wallet.
func (c *Client) CreateSwap(ctx context.Context, params SwapParams) (SubmarineSwap, error) {
	var s SubmarineSwap
	wallet, err := c.walletID()
	if err != nil {
		return s, err
	}
	params.Wallet = wallet
	r, err := c.build(EndpointSwap, http.MethodPost, "", params, Admin)
	if err != nil {
		return s, err
	}
	err = c.call(ctx, r, &s, "id", "address", "refund_privkey", "redeem_script")
	if err == nil {
		c.logger.Infof("[CreateSwap] %s created for %s (%d sat)", s.ID, wallet, s.Amount)
	}
	return s, err
}

func (c *Client) ListSwaps(ctx context.Context) ([]SubmarineSwap, error) {
	if _, err := c.walletID(); err != nil {
		return nil, err
	}
	var swaps []SubmarineSwap
	r, err := c.build(EndpointSwap, http.MethodGet, "", nil, Admin)
	if err != nil {
		return nil, err
	}
	err = c.call(ctx, r, &swaps)
	return swaps, err
}

// CreateReverseSwap creates a reverse swap paying out of this wallet.
func (c *Client) CreateReverseSwap(ctx context.Context, params ReverseSwapParams) (ReverseSubmarineSwap, error) {
	var s ReverseSubmarineSwap
	wallet, err := c.walletID()
	if err != nil {
		return s, err
	}
	params.Wallet = wallet
	r, err := c.build(EndpointReverseSwap, http.MethodPost, "", params, Admin)
	if err != nil {
		return s, err
	}
	err = c.call(ctx, r, &s, "id", "lockup_address", "claim_privkey", "redeem_script")
	if err == nil {
		c.logger.Infof("[CreateReverseSwap] %s created for %s (%d sat)", s.ID, wallet, s.Amount)
	}
	return s, err
}

func (c *Client) ListReverseSwaps(ctx context.Context) ([]ReverseSubmarineSwap, error) {
	if _, err := c.walletID(); err != nil {
		return nil, err
	}
	var swaps []ReverseSubmarineSwap
	r, err := c.build(EndpointReverseSwap, http.MethodGet, "", nil, Admin)
	if err != nil {
		return nil, err
	}
	err = c.call(ctx, r, &swaps)
	return swaps, err
}

// RefundSwap refunds a failed submarine swap to its refund address.
func (c *Client) RefundSwap(ctx context.Context, swapID string) (RefundSwap, error) {
	var s RefundSwap
	if _, err := c.walletID(); err != nil {
		return s, err
	}
	r, err := c.build(EndpointSwap, http.MethodPost, "refund?swap_id="+url.QueryEscape(swapID), nil, Admin)
	if err != nil {
		return s, err
	}
	err = c.call(ctx, r, &s, "id")
	if err != nil {
		c.logger.Errorf("[RefundSwap] %s: %v", swapID, err)
	}
	return s, err
}

func (c *Client) SwapStatus(ctx context.Context, swapID string) (SwapStatus, error) {
	var s SwapStatus
	if _, err := c.walletID(); err != nil {
		return s, err
	}
	r, err := c.build(EndpointSwap, http.MethodPost, "status?swap_id="+url.QueryEscape(swapID), nil, Admin)
	if err != nil {
		return s, err
	}
	err = c.call(ctx, r, &s, "boltz")
	return s, err
}
