package providers

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	jsoniter "github.com/json-iterator/go"
)

const jsonrpcVersion = "2.0"

var (
	codec     = jsoniter.ConfigCompatibleWithStandardLibrary
	requestID atomic.Uint64
)

// Request is a JSON-RPC 2.0 request envelope.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is the error object a node returns.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// NewRequest builds a request with a process-unique id. params are sent as a positional array.
func NewRequest(method string, params ...interface{}) (*Request, error) {
	if method == "" {
		return nil, fmt.Errorf("method cannot be empty")
	}
	if params == nil {
		params = []interface{}{}
	}
	raw, err := codec.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode params for %s: %w", method, err)
	}
	return &Request{
		JSONRPC: jsonrpcVersion,
		ID:      requestID.Add(1),
		Method:  method,
		Params:  raw,
	}, nil
}

// Decode returns the node error if any, otherwise unmarshals the result into v.
// A nil v only checks for the error.
func (r *Response) Decode(v interface{}) error {
	if r == nil {
		return fmt.Errorf("empty response")
	}
	if r.Error != nil {
		return r.Error
	}
	if v == nil {
		return nil
	}
	if len(r.Result) == 0 {
		return fmt.Errorf("response %d has no result", r.ID)
	}
	if err := codec.Unmarshal(r.Result, v); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

// inbound is any frame a streaming node can push: a response or a subscription notification.
type inbound struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *uint64         `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

type notification struct {
	Subscription string          `json:"subscription"`
	Result       json.RawMessage `json:"result"`
}

func (m *inbound) isNotification() bool {
	return m.ID == nil && strings.HasSuffix(m.Method, subscriptionSuffix)
}

func (m *inbound) response() *Response {
	return &Response{JSONRPC: m.JSONRPC, ID: *m.ID, Result: m.Result, Error: m.Error}
}
