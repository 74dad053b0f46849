package csrf

import "context"

type ctxKey string

const encoderKey ctxKey = "csrf_nonce_encoder_ctx"

// contextWithEncoder returns a derived context carrying the URL encoder
// bound to the nonce issued for this request.
//
// Params:
// - ctx: base context to attach the encoder to.
// - enc: encoder bound to the freshly issued nonce.
//
// Returns:
// - a new context containing the encoder.
func contextWithEncoder(ctx context.Context, enc *nonceEncoder) context.Context {
	return context.WithValue(ctx, encoderKey, enc)
}

// encoderFromContext extracts the encoder from ctx, if present.
func encoderFromContext(ctx context.Context) (*nonceEncoder, bool) {
	enc, ok := ctx.Value(encoderKey).(*nonceEncoder)
	return enc, ok
}
