package rpc

import (
	"bytes"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/alecthomas/units"
	"github.com/arbor-network/arbor-wallet/lib"
	"github.com/cenkalti/backoff/v4"
)

// Client submits signed transactions to a rollup node over json-rpc
type Client struct {
	config    lib.RPCConfig
	client    http.Client
	logger    lib.LoggerI
	requestId atomic.Uint64 // json-rpc request ids, incremented per call
}

func NewClient(config lib.RPCConfig, logger lib.LoggerI) *Client {
	return &Client{
		config: config,
		client: http.Client{Timeout: time.Duration(config.TimeoutS) * time.Second},
		logger: logger,
	}
}

// Version() retrieves the software version of the node
func (c *Client) Version() (version *string, err lib.ErrorI) {
	version = new(string)
	err = c.get(VersionRouteName, version)
	return
}

// SubmitTransaction() sends a signed transaction to the node and blocks until the node
// acknowledges it or the attempt is abandoned
//
// The envelope is re-verified locally before any bytes reach the wire, so a corrupted or
// mis-signed payload never leaves the process. Transport failures are retried with
// exponential backoff up to config.SubmitRetries; a node rejection is final and returned
// to the caller without a retry
func (c *Client) SubmitTransaction(stx *lib.SignedTransaction) (result *SubmitResult, err lib.ErrorI) {
	// re-check the signature against the canonical encoding; the wallet never transmits
	// a payload it cannot itself verify
	sender, err := stx.Verify()
	if err != nil {
		return nil, err
	}
	// wrap the envelope in a json-rpc request
	request, err := newRequest(SubmitTransactionMethod, stx, c.requestId.Add(1))
	if err != nil {
		return nil, err
	}
	bz, err := lib.MarshalJSON(request)
	if err != nil {
		return nil, err
	}
	c.logger.Debugf("Submitting transaction from %s to %s", sender.String(), c.url(RPCRouteName))
	// post the request, retrying transport level failures only; the node seeing the
	// transaction once is enough, and a rejection will not change on a resend
	response := new(rpcResponse)
	if er := backoff.Retry(func() error {
		*response = rpcResponse{}
		if e := c.post(RPCRouteName, bz, response); e != nil {
			if e.Code() == lib.CodePostRequest {
				c.logger.Warnf("Submission transport failure: %s", e.Error())
				return e
			}
			return backoff.Permanent(e)
		}
		return nil
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.config.SubmitRetries)); er != nil {
		if e, ok := er.(lib.ErrorI); ok {
			return nil, e
		}
		return nil, lib.ErrPostRequest(er)
	}
	// a well-formed response carries either a result or an error object
	if response.Error != nil {
		return nil, lib.ErrSubmitFailed(response.Error.Code, response.Error.Message)
	}
	result = new(SubmitResult)
	if err = lib.UnmarshalJSON(response.Result, result); err != nil {
		return nil, err
	}
	c.logger.Infof("Node accepted transaction %s", result.TxHash.String())
	return result, nil
}

func (c *Client) url(routeName string) string {
	return c.config.NodeURL + routePaths[routeName].Path
}

func (c *Client) post(routeName string, json []byte, ptr any) lib.ErrorI {
	resp, err := c.client.Post(c.url(routeName), ApplicationJSON, bytes.NewBuffer(json))
	if err != nil {
		return lib.ErrPostRequest(err)
	}
	return c.unmarshal(resp, ptr)
}

func (c *Client) get(routeName string, ptr any) lib.ErrorI {
	resp, err := c.client.Get(c.url(routeName))
	if err != nil {
		return lib.ErrGetRequest(err)
	}
	return c.unmarshal(resp, ptr)
}

func (c *Client) unmarshal(resp *http.Response, ptr any) lib.ErrorI {
	defer func() { _ = resp.Body.Close() }()
	// cap the read; no sane response to a submission is anywhere near a megabyte
	bz, err := io.ReadAll(io.LimitReader(resp.Body, int64(units.MB)))
	if err != nil {
		return lib.ErrReadBody(err)
	}
	if resp.StatusCode != http.StatusOK {
		return lib.ErrHttpStatus(resp.Status, resp.StatusCode, bz)
	}
	return lib.UnmarshalJSON(bz, ptr)
}
