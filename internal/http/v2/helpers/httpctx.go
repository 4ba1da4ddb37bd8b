package helpers

import "context"

type ctxHTTPKey string

const ctxRequestIDKey ctxHTTPKey = "request_id"

// WithRequestID guarda el request id en el contexto.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// RequestID lee el request id del contexto ("" si no hay).
func RequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
