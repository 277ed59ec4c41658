package visitor

import (
	"context"
	"testing"
	"time"
)

func TestIssueAndLookup(t *testing.T) {
	svc := New()
	ctx := context.Background()

	token, visitorID, err := svc.Issue(ctx)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" || visitorID == "" {
		t.Fatalf("empty token or visitor id")
	}

	got, err := svc.LookupByToken(ctx, token)
	if err != nil {
		t.Fatalf("LookupByToken: %v", err)
	}
	if got != visitorID {
		t.Fatalf("token resolved to %q, want %q", got, visitorID)
	}

	if _, err := svc.LookupByToken(ctx, "no-such-token"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestIssuesAreDistinct(t *testing.T) {
	svc := New()
	ctx := context.Background()

	t1, v1, err := svc.Issue(ctx)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	t2, v2, err := svc.Issue(ctx)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if t1 == t2 || v1 == v2 {
		t.Fatalf("issues must be unique: %q/%q %q/%q", t1, t2, v1, v2)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := New()
	svc.ttl = -time.Second

	token, _, err := svc.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.LookupByToken(context.Background(), token); err != ErrInvalidToken {
		t.Fatalf("expired token should be invalid, got %v", err)
	}
}
