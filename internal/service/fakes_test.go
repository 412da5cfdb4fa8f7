package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/voyago/identity-service/internal/domain"
	"github.com/voyago/identity-service/internal/repository"
)

// fakeIdentityRepo is an in-memory IdentityRepository for service tests.
type fakeIdentityRepo struct {
	mu         sync.Mutex
	identities map[string]*domain.Identity // by id
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{identities: make(map[string]*domain.Identity)}
}

func (r *fakeIdentityRepo) Create(_ context.Context, identity *domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.identities {
		if strings.EqualFold(existing.Email, identity.Email) {
			return repository.ErrDuplicateEmail
		}
	}

	if identity.ID == "" {
		identity.ID = uuid.New().String()
	}
	now := time.Now()
	identity.JoinedAt = now
	identity.CreatedAt = now
	identity.UpdatedAt = now

	clone := *identity
	r.identities[identity.ID] = &clone
	return nil
}

func (r *fakeIdentityRepo) GetByEmail(_ context.Context, email string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, identity := range r.identities {
		if strings.EqualFold(identity.Email, email) {
			clone := *identity
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeIdentityRepo) GetByID(_ context.Context, id string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.identities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *identity
	return &clone, nil
}

func (r *fakeIdentityRepo) UpdateProfile(_ context.Context, id string, update domain.ProfileUpdate) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.identities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	if update.FirstName != nil {
		identity.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		identity.LastName = *update.LastName
	}
	if update.Phone != nil {
		if *update.Phone == "" {
			identity.Phone = nil
		} else {
			v := *update.Phone
			identity.Phone = &v
		}
	}
	if update.Avatar != nil {
		if *update.Avatar == "" {
			identity.Avatar = nil
		} else {
			v := *update.Avatar
			identity.Avatar = &v
		}
	}

	clone := *identity
	return &clone, nil
}

func (r *fakeIdentityRepo) AddRewardPoints(_ context.Context, id string, delta int) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.identities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	identity.RewardPoints += delta
	clone := *identity
	return &clone, nil
}

func (r *fakeIdentityRepo) SetVerificationCode(_ context.Context, id, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.identities[id]
	if !ok {
		return repository.ErrNotFound
	}
	identity.VerificationCode = &code
	identity.VerificationExpiry = &expiresAt
	return nil
}

func (r *fakeIdentityRepo) MarkEmailVerified(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.identities[id]
	if !ok {
		return repository.ErrNotFound
	}
	identity.EmailVerified = true
	identity.VerificationCode = nil
	identity.VerificationExpiry = nil
	return nil
}

func (r *fakeIdentityRepo) SetResetCode(_ context.Context, id, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.identities[id]
	if !ok {
		return repository.ErrNotFound
	}
	identity.ResetCode = &code
	identity.ResetExpiry = &expiresAt
	return nil
}

func (r *fakeIdentityRepo) UpdatePasswordHash(_ context.Context, id, passwordHash string, clearReset bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.identities[id]
	if !ok {
		return repository.ErrNotFound
	}
	identity.PasswordHash = passwordHash
	if clearReset {
		identity.ResetCode = nil
		identity.ResetExpiry = nil
	}
	return nil
}

// raw returns the stored record without copying, for test assertions.
func (r *fakeIdentityRepo) raw(id string) *domain.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.identities[id]
}

// expireVerification backdates the verification expiry.
func (r *fakeIdentityRepo) expireVerification(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	past := time.Now().Add(-time.Minute)
	r.identities[id].VerificationExpiry = &past
}

// expireReset backdates the reset expiry.
func (r *fakeIdentityRepo) expireReset(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	past := time.Now().Add(-time.Minute)
	r.identities[id].ResetExpiry = &past
}

type sentMail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// fakeMailer records deliveries and can be told to fail.
type fakeMailer struct {
	mu    sync.Mutex
	sent  []sentMail
	fail  bool
}

func (m *fakeMailer) Send(_ context.Context, to, subject, htmlBody, textBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: htmlBody, Text: textBody})
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) lastSent() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

// fakeLedger is an in-memory revocation ledger whose lookups can be made
// to fail, exercising the fail-open path.
type fakeLedger struct {
	mu         sync.Mutex
	revoked    map[string]string
	lookupFail bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{revoked: make(map[string]string)}
}

func (l *fakeLedger) Revoke(_ context.Context, token, ownerID string, expiresAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Until(expiresAt) <= 0 {
		return nil
	}
	l.revoked[token] = ownerID
	return nil
}

func (l *fakeLedger) IsRevoked(_ context.Context, token string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.lookupFail {
		// Fail open, mirroring the Redis-backed ledger.
		return false
	}
	_, ok := l.revoked[token]
	return ok
}
