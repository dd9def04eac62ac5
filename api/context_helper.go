package api

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QueryTimeout is the default timeout for database queries
const QueryTimeout = 10 * time.Second

// WithQueryTimeout creates a context with query timeout
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}

type contextKey string

const userIDKey contextKey = "authUserID"

// ContextWithUserID stores the authenticated user's hex ID on the context.
func ContextWithUserID(parent context.Context, id string) context.Context {
	return context.WithValue(parent, userIDKey, id)
}

// UserIDFromContext returns the authenticated user's ID, if the request
// passed through the auth middleware with valid credentials.
func UserIDFromContext(ctx context.Context) (primitive.ObjectID, bool) {
	hex, _ := ctx.Value(userIDKey).(string)
	if hex == "" {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
