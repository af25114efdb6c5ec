// Package providertest holds helpers for tests that script a mocked transport.
package providertest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
	"go.uber.org/mock/gomock"
)

// Sender is satisfied by the recorders of MockTransport and MockSubscribableTransport.
type Sender interface {
	Send(ctx, req any) *gomock.Call
}

// Result replies to any request with the raw JSON result.
func Result(raw string) func(context.Context, *providers.Request) (*providers.Response, error) {
	return func(_ context.Context, req *providers.Request) (*providers.Response, error) {
		return &providers.Response{JSONRPC: "2.0", ID: req.ID, Result: json.RawMessage(raw)}, nil
	}
}

// Fail replies to any request with a node error.
func Fail(code int, msg string) func(context.Context, *providers.Request) (*providers.Response, error) {
	return func(_ context.Context, req *providers.Request) (*providers.Response, error) {
		return &providers.Response{JSONRPC: "2.0", ID: req.ID, Error: &providers.RPCError{Code: code, Message: msg}}, nil
	}
}

// Method matches requests by JSON-RPC method name.
func Method(name string) gomock.Matcher {
	return methodMatcher(name)
}

type methodMatcher string

func (m methodMatcher) Matches(x any) bool {
	req, ok := x.(*providers.Request)
	return ok && req.Method == string(m)
}

func (m methodMatcher) String() string {
	return fmt.Sprintf("request for method %s", string(m))
}

// Expect scripts one reply of raw for method.
func Expect(s Sender, method, raw string) *gomock.Call {
	return s.Send(gomock.Any(), Method(method)).DoAndReturn(Result(raw))
}

// Params decodes the positional params of req.
func Params(req *providers.Request) ([]json.RawMessage, error) {
	var out []json.RawMessage
	if err := json.Unmarshal(req.Params, &out); err != nil {
		return nil, err
	}
	return out, nil
}
