package payments

import "context"

// ProcessorCaller is the slice of the gateway the router needs.
type ProcessorCaller interface {
	Call(ctx context.Context, processor ProcessorType, p PaymentRequest) Outcome
}

// FallbackRouter decides which processor handles one payment: the default
// processor gets exactly one attempt, then the fallback gets exactly one, and
// a double miss is terminal. No retry loop, no backoff, no cached health at
// routing time; the live call outcome is the only signal.
type FallbackRouter struct {
	gateway ProcessorCaller
}

func NewFallbackRouter(gateway ProcessorCaller) *FallbackRouter {
	return &FallbackRouter{gateway: gateway}
}

// Route returns the terminal processor label for this dequeue attempt. When
// the label is default or fallback, exactly one successful call was made.
func (r *FallbackRouter) Route(ctx context.Context, p PaymentRequest) ProcessorType {
	if r.gateway.Call(ctx, ProcessorTypeDefault, p) == OutcomeSuccess {
		return ProcessorTypeDefault
	}
	if r.gateway.Call(ctx, ProcessorTypeFallback, p) == OutcomeSuccess {
		return ProcessorTypeFallback
	}
	return ProcessorTypeError
}
