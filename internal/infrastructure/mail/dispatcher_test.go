package mail

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/chatterbox/auth-service/internal/core/domain"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Email
}

func (s *recordingSender) Send(email Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, email)
	return nil
}

func (s *recordingSender) all() []Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Email, len(s.sent))
	copy(out, s.sent)
	return out
}

func findEmail(emails []Email, subject string) *Email {
	for i := range emails {
		if emails[i].Subject == subject {
			return &emails[i]
		}
	}
	return nil
}

func TestDispatcher_DeliversAllKinds(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(2, sender, "https://chat.example.com", zerolog.Nop())
	d.Start(context.Background())

	user := &domain.User{Username: "carol", Email: "carol@test.com"}
	d.ActivationEmail(user, "activation-token")
	d.PasswordResetEmail(user, "reset-token")
	d.UnusualActivityEmail(user, "10.0.0.1", "suspicious-agent")

	d.Stop()

	emails := sender.all()
	if len(emails) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(emails))
	}

	activation := findEmail(emails, "Welcome to ChatterBox!")
	if activation == nil {
		t.Fatalf("missing activation email")
	}
	if activation.To != "carol@test.com" {
		t.Fatalf("unexpected recipient: %q", activation.To)
	}
	if !strings.Contains(activation.HTML, "https://chat.example.com/auth/activate-account?token=activation-token") {
		t.Fatalf("activation link missing:\n%s", activation.HTML)
	}
	if !strings.Contains(activation.HTML, "expire in 24 hours") {
		t.Fatalf("activation expiry notice missing")
	}

	reset := findEmail(emails, "Reset your Password")
	if reset == nil {
		t.Fatalf("missing password reset email")
	}
	if !strings.Contains(reset.HTML, "https://chat.example.com/auth/reset-password?token=reset-token") {
		t.Fatalf("reset link missing:\n%s", reset.HTML)
	}
	if !strings.Contains(reset.HTML, "expire in 3 hours") {
		t.Fatalf("reset expiry notice missing")
	}

	activity := findEmail(emails, "Unusual Sign in on ChatterBox")
	if activity == nil {
		t.Fatalf("missing unusual activity email")
	}
	if !strings.Contains(activity.HTML, "10.0.0.1") || !strings.Contains(activity.HTML, "suspicious-agent") {
		t.Fatalf("activity details missing:\n%s", activity.HTML)
	}
}

type failingSender struct {
	mu    sync.Mutex
	calls int
}

func (s *failingSender) Send(Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return errors.New("send failed")
}

func TestDispatcher_DeliveryFailureDoesNotStopWorkers(t *testing.T) {
	sender := &failingSender{}
	d := NewDispatcher(1, sender, "https://chat.example.com", zerolog.Nop())
	d.Start(context.Background())

	user := &domain.User{Username: "carol", Email: "carol@test.com"}
	d.ActivationEmail(user, "t1")
	d.ActivationEmail(user, "t2")

	d.Stop()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if sender.calls != 2 {
		t.Fatalf("expected 2 delivery attempts, got %d", sender.calls)
	}
}

func TestDispatcher_StopDrainsQueue(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(1, sender, "https://chat.example.com", zerolog.Nop())

	// Enqueue before any worker runs; Start then Stop must still deliver.
	user := &domain.User{Username: "carol", Email: "carol@test.com"}
	for i := 0; i < 10; i++ {
		d.ActivationEmail(user, "token")
	}

	d.Start(context.Background())
	d.Stop()

	if got := len(sender.all()); got != 10 {
		t.Fatalf("expected 10 deliveries after drain, got %d", got)
	}
}
