package usecase

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store. Atomic holds one lock for the whole
// closure and restores a snapshot when the closure fails.
type memStore struct {
	mu       sync.Mutex
	otps     []entity.Otp
	users    map[int64]entity.User
	sessions []entity.Session
	locks    []string

	// failOn makes the named method return the error.
	failOn map[string]error
}

func newMemStore() *memStore {
	return &memStore{users: map[int64]entity.User{}, failOn: map[string]error{}}
}

func (m *memStore) Atomic(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	otps := slices.Clone(m.otps)
	users := maps.Clone(m.users)
	sessions := slices.Clone(m.sessions)

	if err := fn(ctx, m); err != nil {
		m.otps, m.users, m.sessions = otps, users, sessions
		return err
	}
	return nil
}

func (m *memStore) fail(method string) error {
	return m.failOn[method]
}

func (m *memStore) LockOtpIssuance(_ context.Context, identifier string, purpose entity.Purpose) error {
	if err := m.fail("LockOtpIssuance"); err != nil {
		return err
	}
	m.locks = append(m.locks, identifier+"|"+purpose.String())
	return nil
}

func (m *memStore) GetLatestOtp(_ context.Context, identifier string, purpose entity.Purpose) (*entity.Otp, error) {
	if err := m.fail("GetLatestOtp"); err != nil {
		return nil, err
	}
	var found *entity.Otp
	for i := range m.otps {
		o := m.otps[i]
		if o.Identifier != identifier || o.Purpose != purpose {
			continue
		}
		if found == nil || !o.CreatedAt.Before(found.CreatedAt) {
			found = &o
		}
	}
	if found == nil {
		return nil, goerror.ErrNotFound
	}
	return found, nil
}

func (m *memStore) CreateOtp(_ context.Context, o entity.Otp) error {
	if err := m.fail("CreateOtp"); err != nil {
		return err
	}
	m.otps = append(m.otps, o)
	return nil
}

func (m *memStore) GetActiveOtpForUpdate(_ context.Context, identifier string, ch entity.Channel, purpose entity.Purpose, now time.Time) (*entity.Otp, error) {
	if err := m.fail("GetActiveOtpForUpdate"); err != nil {
		return nil, err
	}
	var found *entity.Otp
	for i := range m.otps {
		o := m.otps[i]
		if o.Identifier != identifier || o.Channel != ch || o.Purpose != purpose || o.Used || o.ExpiresAt.Before(now) {
			continue
		}
		if found == nil || !o.CreatedAt.Before(found.CreatedAt) {
			found = &o
		}
	}
	if found == nil {
		return nil, goerror.ErrNotFound
	}
	return found, nil
}

func (m *memStore) IncrementOtpAttempts(_ context.Context, id string) error {
	if err := m.fail("IncrementOtpAttempts"); err != nil {
		return err
	}
	for i := range m.otps {
		if m.otps[i].ID == id {
			m.otps[i].Attempts++
			return nil
		}
	}
	return goerror.ErrNotFound
}

func (m *memStore) MarkOtpUsed(_ context.Context, id string) error {
	if err := m.fail("MarkOtpUsed"); err != nil {
		return err
	}
	for i := range m.otps {
		if m.otps[i].ID == id {
			m.otps[i].Used = true
			return nil
		}
	}
	return goerror.ErrNotFound
}

func (m *memStore) GetUserByID(_ context.Context, id int64) (*entity.User, error) {
	if err := m.fail("GetUserByID"); err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) GetUserByIdentifier(_ context.Context, ch entity.Channel, identifier string) (*entity.User, error) {
	if err := m.fail("GetUserByIdentifier"); err != nil {
		return nil, err
	}
	for _, u := range m.users {
		if ch == entity.ChannelEmail && u.Email != nil && *u.Email == identifier {
			return &u, nil
		}
		if ch == entity.ChannelSMS && u.Phone != nil && *u.Phone == identifier {
			return &u, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (m *memStore) CreateUser(_ context.Context, u entity.User) error {
	if err := m.fail("CreateUser"); err != nil {
		return err
	}
	for _, ex := range m.users {
		if u.Email != nil && ex.Email != nil && *u.Email == *ex.Email {
			return goerror.ErrConflict
		}
		if u.Phone != nil && ex.Phone != nil && *u.Phone == *ex.Phone {
			return goerror.ErrConflict
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memStore) MarkUserVerified(_ context.Context, id int64, ch entity.Channel, now time.Time) error {
	if err := m.fail("MarkUserVerified"); err != nil {
		return err
	}
	u, ok := m.users[id]
	if !ok {
		return goerror.ErrNotFound
	}
	u.MarkVerified(ch)
	u.UpdatedAt = now
	m.users[id] = u
	return nil
}

func (m *memStore) CreateSession(_ context.Context, sess entity.Session) error {
	if err := m.fail("CreateSession"); err != nil {
		return err
	}
	m.sessions = append(m.sessions, sess)
	return nil
}

func (m *memStore) snapshotOtps() []entity.Otp {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.otps)
}

func (m *memStore) snapshotSessions() []entity.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.sessions)
}

func (m *memStore) user(id int64) entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id]
}

type sent struct {
	channel entity.Channel
	n       OtpNotification
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []sent
	err  error
}

func (d *fakeDispatcher) SendEmail(_ context.Context, n OtpNotification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sent{channel: entity.ChannelEmail, n: n})
	return d.err
}

func (d *fakeDispatcher) SendSms(_ context.Context, n OtpNotification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sent{channel: entity.ChannelSMS, n: n})
	return d.err
}

func (d *fakeDispatcher) all() []sent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.sent)
}

type fixedCode struct{ code string }

func (f fixedCode) Generate() (string, error) { return f.code, nil }

type failingCode struct{}

func (failingCode) Generate() (string, error) { return "", errors.New("entropy exhausted") }

type seqID struct{ n atomic.Int64 }

func (s *seqID) Generate() int64 { return 1000 + s.n.Add(1) }

// stepClock returns the given instants in order, then repeats the last one.
type stepClock struct {
	mu    sync.Mutex
	times []time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.times[0]
	if len(c.times) > 1 {
		c.times = c.times[1:]
	}
	return t
}

const testCode = "482913"

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	uc         *Usecase
	store      *memStore
	dispatcher *fakeDispatcher
	clock      *clock.Frozen
	tokenHash  hash.Hash
}

type fixtureOption func(*Dependency)

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	f := &fixture{
		store:      newMemStore(),
		dispatcher: &fakeDispatcher{},
		clock:      clock.NewFrozen(testNow),
		tokenHash:  hash.NewHMACSHA256("session-secret"),
	}

	cfg := DefaultConfig()
	cfg.ExposeDebugCode = true

	dep := Dependency{
		Config:        cfg,
		RepoDB:        f.store,
		Dispatcher:    f.dispatcher,
		Validator:     v,
		CodeGenerator: fixedCode{code: testCode},
		CodeHash:      hash.NewHMACSHA256("code-pepper"),
		TokenHash:     f.tokenHash,
		UID:           &seqID{},
		UUID:          uid.NewUUID(),
		Token:         uid.NewToken(0),
		Clock:         f.clock,
	}
	for _, opt := range opts {
		opt(&dep)
	}

	f.uc = New(dep)
	return f
}

func withGoroutine(g *goroutine.Manager) fixtureOption {
	return func(d *Dependency) { d.Goroutine = g }
}

func withConfig(fn func(*Config)) fixtureOption {
	return func(d *Dependency) { fn(&d.Config) }
}

func (f *fixture) seedUser(t *testing.T, u entity.User) {
	t.Helper()
	require.NoError(t, f.store.CreateUser(context.Background(), u))
}

func (f *fixture) request(t *testing.T, identifier string, ch entity.Channel, purpose entity.Purpose) *RequestOtpOutput {
	t.Helper()
	out, err := f.uc.RequestOtp(context.Background(), RequestOtpInput{
		Identifier: identifier,
		Channel:    ch.String(),
		Purpose:    purpose.String(),
	})
	require.NoError(t, err)
	return out
}

func verifyInput(identifier string, ch entity.Channel, purpose entity.Purpose, code string) VerifyOtpInput {
	return VerifyOtpInput{
		Identifier: identifier,
		Channel:    ch.String(),
		Purpose:    purpose.String(),
		Code:       code,
	}
}

func ptr[T any](v T) *T { return &v }

func withClock(c clock.Clocker) fixtureOption {
	return func(d *Dependency) { d.Clock = c }
}
