package auth

import (
	"context"
)

type contextKey string

var triggerClaimsKey contextKey = "trigger_claims"

func SetTriggerClaims(ctx context.Context, claims *TriggerClaims) context.Context {
	return context.WithValue(ctx, triggerClaimsKey, claims)
}

// GetTriggerClaims returns nil when the trigger is unauthenticated
func GetTriggerClaims(ctx context.Context) *TriggerClaims {
	if claims, ok := ctx.Value(triggerClaimsKey).(*TriggerClaims); ok {
		return claims
	}
	return nil
}
