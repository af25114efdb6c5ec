package net

import (
	"context"

	"github.com/LumeraProtocol/web3go/pkg/logtrace"
	"github.com/google/uuid"
)

// AddCorrelationID attaches a fresh correlation id to ctx unless one is already present.
func AddCorrelationID(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logtrace.CorrelationID(ctx) != "unknown" {
		return ctx
	}
	return logtrace.CtxWithCorrelationID(ctx, uuid.NewString())
}
