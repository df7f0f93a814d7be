package auth

import (
	"context"
	"testing"
	"time"
)

type sessionStoreStub struct {
	sessions map[string]SessionRecord
}

func newSessionStoreStub() *sessionStoreStub {
	return &sessionStoreStub{sessions: map[string]SessionRecord{}}
}

func (s *sessionStoreStub) Create(_ context.Context, session SessionRecord) error {
	s.sessions[session.SessionID] = session
	return nil
}

func (s *sessionStoreStub) GetSession(_ context.Context, sid string) (SessionRecord, error) {
	session, ok := s.sessions[sid]
	if !ok {
		return SessionRecord{}, ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionStoreStub) DeleteSession(_ context.Context, sid string) error {
	delete(s.sessions, sid)
	return nil
}

func TestIssueAndValidateRoundTrip(t *testing.T) {
	store := newSessionStoreStub()
	svc := NewService(NewJWTManager("test-secret", 15*time.Minute), store, time.Hour)

	res, err := svc.Issue(context.Background(), 101, "user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if res.AccessToken == "" || res.SessionID == "" {
		t.Fatalf("unexpected issue result: %+v", res)
	}

	claims, err := svc.ValidateAccessToken(context.Background(), res.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 101 || claims.SessionID != res.SessionID || claims.Role != "user" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateRejectsUnknownSession(t *testing.T) {
	store := newSessionStoreStub()
	svc := NewService(NewJWTManager("test-secret", 15*time.Minute), store, time.Hour)

	res, err := svc.Issue(context.Background(), 101, "user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := svc.Logout(context.Background(), res.SessionID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.ValidateAccessToken(context.Background(), res.AccessToken); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	store := newSessionStoreStub()
	issuer := NewService(NewJWTManager("secret-a", 15*time.Minute), store, time.Hour)
	validator := NewService(NewJWTManager("secret-b", 15*time.Minute), store, time.Hour)

	res, err := issuer.Issue(context.Background(), 101, "user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := validator.ValidateAccessToken(context.Background(), res.AccessToken); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for foreign signature, got %v", err)
	}
}

func TestValidateRejectsExpiredSession(t *testing.T) {
	store := newSessionStoreStub()
	svc := NewService(NewJWTManager("test-secret", 15*time.Minute), store, time.Hour)

	res, err := svc.Issue(context.Background(), 101, "user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, err := svc.ValidateAccessToken(context.Background(), res.AccessToken); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for expired session, got %v", err)
	}
}
