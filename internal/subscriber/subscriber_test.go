package subscriber

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dcorpo/intel/internal/storage"
)

type fakeStore struct {
	inserted  []storage.Subscriber
	insertErr error
	count     int
}

func (f *fakeStore) InsertSubscriber(_ context.Context, record storage.Subscriber) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, existing := range f.inserted {
		if existing.Email == record.Email {
			return storage.ErrAlreadyExists
		}
	}
	f.inserted = append(f.inserted, record)
	return nil
}

func (f *fakeStore) CountSubscribers(context.Context) (int, error) {
	return f.count, nil
}

func testNow() time.Time {
	return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
}

func TestSubscribeNormalizesEmail(t *testing.T) {
	store := &fakeStore{}
	service := NewService(store, testNow)

	already, err := service.Subscribe(context.Background(), "  A@Example.com ", true)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if already {
		t.Fatal("expected first signup to be new")
	}
	if len(store.inserted) != 1 || store.inserted[0].Email != "a@example.com" {
		t.Fatalf("expected normalized email, got %+v", store.inserted)
	}
	if !store.inserted[0].Consent {
		t.Fatal("expected consent recorded")
	}
}

func TestSubscribeIdempotent(t *testing.T) {
	store := &fakeStore{}
	service := NewService(store, testNow)
	ctx := context.Background()

	if _, err := service.Subscribe(ctx, "A@Example.com", true); err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	already, err := service.Subscribe(ctx, "a@example.com", true)
	if err != nil {
		t.Fatalf("second subscribe: %v", err)
	}
	if !already {
		t.Fatal("expected duplicate signup to report already subscribed")
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected one stored row, got %d", len(store.inserted))
	}
}

func TestSubscribeRequiresConsent(t *testing.T) {
	service := NewService(&fakeStore{}, testNow)
	if _, err := service.Subscribe(context.Background(), "a@example.com", false); !errors.Is(err, ErrConsentRequired) {
		t.Fatalf("expected ErrConsentRequired, got %v", err)
	}
}

func TestSubscribeRejectsInvalidEmail(t *testing.T) {
	service := NewService(&fakeStore{}, testNow)
	long := make([]byte, MaxEmailLength)
	for i := range long {
		long[i] = 'a'
	}
	cases := []string{
		"",
		"   ",
		"not-an-email",
		"two@@example.com",
		"spaces in@example.com",
		string(long) + "@example.com",
	}
	for _, email := range cases {
		if _, err := service.Subscribe(context.Background(), email, true); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("Subscribe(%q): expected ErrInvalidEmail, got %v", email, err)
		}
	}
}

func TestValidateEmailAcceptsPlainAddresses(t *testing.T) {
	for _, email := range []string{"a@example.com", "first.last+tag@sub.example.co.in"} {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q): %v", email, err)
		}
	}
}
