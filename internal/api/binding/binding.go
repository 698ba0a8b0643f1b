// Package binding maps each remote endpoint to one method. A method assembles
// path, query, header and body parameters, hands the call to a transport and
// decodes the answer. Remote error payloads come back as *models.RemoteError.
package binding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/models"
	"github.com/Brownie44l1/kasgo/internal/transport"
)

// Header names sent with every call.
const (
	HeaderChainID = "x-chain-id"
	HeaderKRN     = "x-krn"
)

var (
	authNames = []string{transport.AuthBasic}
	jsonTypes = []string{transport.ContentTypeJSON}
)

type client struct {
	transport transport.Transport
}

func (c client) call(op, method, path string, chainID string) *transport.Call {
	return &transport.Call{
		Op:           op,
		Method:       method,
		Path:         path,
		PathParams:   map[string]string{},
		QueryParams:  map[string]string{},
		HeaderParams: map[string]string{HeaderChainID: chainID},
		AuthNames:    authNames,
		ContentTypes: jsonTypes,
		Accepts:      jsonTypes,
	}
}

// invoke runs the call and decodes a 2xx body into T. A {code, message}
// payload is a remote error whatever the status.
func invoke[T any](ctx context.Context, c client, call *transport.Call) (*T, *transport.Response, error) {
	resp, err := c.transport.CallAPI(ctx, call)
	if err != nil {
		return nil, resp, err
	}
	if resp == nil {
		return nil, nil, &models.TransportError{Op: call.Op, Err: errors.New("no response")}
	}

	if remote, ok := models.ParseRemoteError(resp.StatusCode, resp.Body); ok {
		return nil, resp, remote
	}
	if !resp.OK() {
		return nil, resp, &models.TransportError{
			Op:         call.Op,
			StatusCode: resp.StatusCode,
			Err:        errors.New("unexpected status without error payload"),
		}
	}

	out := new(T)
	if len(resp.Body) == 0 {
		return out, resp, nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return nil, resp, &models.TransportError{
			Op:         call.Op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	return out, resp, nil
}

// body renders a request record, or nil when nothing is set.
func body(r dto.Record) any {
	if r.IsZero() {
		return nil
	}
	return r.ToObject()
}

// queryParams renders options under the wire names of an API. Keys absent
// from rename keep their name.
func queryParams(opts dto.QueryOptions, rename map[string]string) map[string]string {
	params := opts.QueryParams()
	if len(rename) == 0 {
		return params
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		if wire, ok := rename[k]; ok {
			k = wire
		}
		out[k] = v
	}
	return out
}
