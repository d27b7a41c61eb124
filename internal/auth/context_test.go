package auth

import (
	"context"
	"testing"
)

func TestWithAuthRoundTrip(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{UserID: 42, SessionID: 7})

	ac, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected auth context")
	}
	if ac.UserID != 42 || ac.SessionID != 7 {
		t.Errorf("got %+v", ac)
	}
	if UserID(ctx) != 42 {
		t.Errorf("UserID = %d, want 42", UserID(ctx))
	}
}

func TestEmptyContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected no auth context")
	}
	if UserID(context.Background()) != 0 {
		t.Error("expected zero user id")
	}
}
