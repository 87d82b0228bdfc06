package auth

import (
	"context"
	"fmt"
	"strings"

	"dm-chat/domain"
	"dm-chat/errors"
)

// Caller is the authenticated principal of a request. Session is an opaque
// client supplied value and is never interpreted by the core.
type Caller struct {
	UserID  domain.UserID
	Session string
}

// IdentityResolver maps request credentials to a Caller.
type IdentityResolver interface {
	Resolve(ctx context.Context, authorization, session string) (Caller, error)
}

// JWTResolver resolves "Bearer <jwt>" credentials issued by TokenIssuer.
type JWTResolver struct {
	issuer *TokenIssuer
}

func NewJWTResolver(issuer *TokenIssuer) *JWTResolver {
	return &JWTResolver{issuer: issuer}
}

func (r *JWTResolver) Resolve(_ context.Context, authorization, session string) (Caller, error) {
	if authorization == "" {
		return Caller{}, fmt.Errorf("%w: authorization token is missing", errors.ErrUnauthenticated)
	}
	tokenStr, found := strings.CutPrefix(authorization, "Bearer ")
	if !found || tokenStr == "" {
		return Caller{}, fmt.Errorf("%w: expected a bearer token", errors.ErrUnauthenticated)
	}

	claims, err := r.issuer.ValidateToken(tokenStr)
	if err != nil {
		return Caller{}, fmt.Errorf("%w: invalid or expired token", errors.ErrUnauthenticated)
	}
	return Caller{UserID: domain.UserID(claims.UserID), Session: session}, nil
}

type contextKey string

const callerKey contextKey = "caller"

// WithCaller injects the resolved identity for downstream layers.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey).(Caller)
	return caller, ok
}
