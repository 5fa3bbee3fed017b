package lnbits

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/massmux/lnbitskit/pkg/lnbits/errors"
	"github.com/massmux/lnbitskit/pkg/network"
	"github.com/tidwall/gjson"
)

// decodeJSON decodes data into v and fails with a DecodeError if the bytes do
// not match. For object schemas every key in required must be present.
func decodeJSON(data []byte, v interface{}, required ...string) error {
	if !gjson.ValidBytes(data) {
		return errors.Create(errors.DecodeError, "response is not valid json")
	}
	if len(required) > 0 {
		parsed := gjson.ParseBytes(data)
		if !parsed.IsObject() {
			return errors.Create(errors.DecodeError, "response is not a json object")
		}
		for _, key := range required {
			if !parsed.Get(key).Exists() {
				return errors.Create(errors.DecodeError, fmt.Sprintf("response has no %q field", key))
			}
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.New(errors.DecodeError, err)
	}
	return nil
}

// errorEnvelope returns the service error described by data. Without a string
// detail the result is the generic unknown error carrying cause.
func errorEnvelope(data []byte, cause error) error {
	if gjson.ValidBytes(data) {
		if detail := gjson.GetBytes(data, "detail"); detail.Type == gjson.String {
			return errors.Service(detail.String())
		}
	}
	if cause == nil {
		cause = errors.Create(errors.DecodeError, "response carries no detail")
	}
	return errors.ErrUnknown.WithCause(cause)
}

// decodeResponse applies the error contract: success schema first, then the
// error envelope, then the generic error. Statuses >= 300 skip the success schema.
func decodeResponse(data []byte, status int, v interface{}, required ...string) error {
	if status >= 300 {
		return errorEnvelope(data, errors.Create(errors.DecodeError, fmt.Sprintf("status %d", status)))
	}
	err := decodeJSON(data, v, required...)
	if err == nil {
		return nil
	}
	return errorEnvelope(data, err)
}

// send hands r to the transport. Failures surface verbatim as TransportError.
func (c *Client) send(ctx context.Context, r *network.Request) ([]byte, int, error) {
	data, status, err := c.transport.Send(ctx, r)
	if err != nil {
		return nil, status, errors.New(errors.TransportError, err)
	}
	return data, status, nil
}

// call sends r and decodes the answer into v following the error contract.
func (c *Client) call(ctx context.Context, r *network.Request, v interface{}, required ...string) error {
	data, status, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	return decodeResponse(data, status, v, required...)
}

// expectNoDetail is used for endpoints whose success body is unspecified: the
// call succeeds unless the response is an error envelope or an error status.
func (c *Client) expectNoDetail(ctx context.Context, r *network.Request) error {
	data, status, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	return checkNoDetail(data, status)
}

func checkNoDetail(data []byte, status int) error {
	detail := gjson.GetBytes(data, "detail")
	if detail.Exists() && detail.Type != gjson.Null {
		return errorEnvelope(data, nil)
	}
	if status >= 300 {
		return errorEnvelope(data, errors.Create(errors.DecodeError, fmt.Sprintf("status %d", status)))
	}
	return nil
}
