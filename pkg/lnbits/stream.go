package lnbits

import (
	"context"
	"net/url"
	"strings"

	"github.com/massmux/lnbitskit/pkg/lnbits/errors"
	"github.com/massmux/lnbitskit/pkg/network"
	"github.com/r3labs/sse"
	"gopkg.in/cenkalti/backoff.v1"
)

const paymentReceivedEvent = "payment-received"

// SubscribePayments calls fn for every payment received by the wallet. It blocks
// until ctx is done or the stream breaks. The stream is not reconnected.
func (c *Client) SubscribePayments(ctx context.Context, fn func(Transaction)) error {
	key := c.credentials.Key(ReadOnly)
	u := strings.TrimSuffix(c.credentials.Server, "/") + string(EndpointPaymentsSSE) + "?api-key=" + url.QueryEscape(key)

	client := sse.NewClient(u)
	client.Headers = map[string]string{"X-Api-Key": key}
	client.ReconnectStrategy = &backoff.StopBackOff{}
	if p, ok := c.transport.(network.HTTPClientProvider); ok {
		client.Connection = p.HTTPClient()
	}
	c.logger.Infof("[SubscribePayments] listening on %s", strings.TrimSuffix(c.credentials.Server, "/")+string(EndpointPaymentsSSE))

	err := client.SubscribeWithContext(ctx, "", func(msg *sse.Event) {
		if len(msg.Event) > 0 && string(msg.Event) != paymentReceivedEvent {
			return
		}
		if len(msg.Data) == 0 {
			return
		}
		var p payment
		if err := decodeJSON(msg.Data, &p, "payment_hash"); err != nil {
			c.logger.Warnf("[SubscribePayments] dropping event: %v", err)
			return
		}
		fn(p.transaction())
	})
	if err != nil && ctx.Err() == nil {
		return errors.New(errors.TransportError, err)
	}
	return nil
}
