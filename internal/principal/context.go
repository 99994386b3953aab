package principal

import (
	"context"
	"errors"
)

// Keys for principal values in context
type contextKey string

const (
	userIDKey    contextKey = "userID"
	requestIDKey contextKey = "requestID"
)

// ErrUserIDNotFound is returned when no operator ID is found in context.
var ErrUserIDNotFound = errors.New("user ID not found in context")

// WithUserID adds the authenticated operator's ID to the context.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// FromContext extracts the operator ID from the context.
func FromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(userIDKey).(int64)
	if !ok || userID == 0 {
		return 0, ErrUserIDNotFound
	}
	return userID, nil
}

// MustFromContext extracts the operator ID from the context or panics.
func MustFromContext(ctx context.Context) int64 {
	userID, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return userID
}

// ErrNoRequestIDInContext is returned when no request ID is found in context.
var ErrNoRequestIDInContext = errors.New("no request ID found in context")

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// FromRequestIDContext extracts the request ID from the context.
func FromRequestIDContext(ctx context.Context) (string, error) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		return "", ErrNoRequestIDInContext
	}
	return requestID, nil
}
