package rpc

import (
	"encoding/json"

	"github.com/arbor-network/arbor-wallet/lib"
)

const (
	SoftwareVersion = "0.0.0-alpha"
	ContentType     = "Content-Type"
	ApplicationJSON = "application/json; charset=utf-8"

	// the json-rpc protocol revision spoken by the wallet and the dev node
	JSONRPCVersion = "2.0"

	// rpc methods accepted by the node
	SubmitTransactionMethod = "submit_transaction"
)

// json-rpc protocol error codes; negative per the json-rpc 2.0 convention
const (
	ParseErrorCode     int64 = -32700
	InvalidRequestCode int64 = -32600
	MethodNotFoundCode int64 = -32601
	InvalidParamsCode  int64 = -32602
	InternalErrorCode  int64 = -32603
	TxRejectedCode     int64 = -32000
)

// =====================================================
// JSON-RPC Wire Types
// =====================================================

// rpcRequest is a json-rpc 2.0 request object
type rpcRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      uint64            `json:"id"`
}

// rpcResponse is a json-rpc 2.0 response object; exactly one of Result / Error is set
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      uint64          `json:"id"`
}

// rpcError carries a node side rejection back to the caller
type rpcError struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// =====================================================
// Result Types
// =====================================================

// SubmitResult is the node acknowledgement of an accepted transaction
type SubmitResult struct {
	TxHash lib.HexBytes `json:"txHash"` // hash of the canonical transaction encoding
}

// newRequest() builds a json-rpc request around a single params object
func newRequest(method string, param any, id uint64) (*rpcRequest, lib.ErrorI) {
	bz, err := lib.MarshalJSON(param)
	if err != nil {
		return nil, err
	}
	return &rpcRequest{
		JSONRPC: JSONRPCVersion,
		Method:  method,
		Params:  []json.RawMessage{bz},
		ID:      id,
	}, nil
}
