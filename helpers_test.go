package shopauth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/naazbookdepot/shopauth/password"
)

type memUserStore struct {
	mu    sync.Mutex
	users map[string]UserRecord
	seq   int

	lookupErr error
	deleted   []string
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]UserRecord)}
}

func (s *memUserStore) GetUserByEmail(_ context.Context, email string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return UserRecord{}, s.lookupErr
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return UserRecord{}, ErrUserNotFound
}

func (s *memUserStore) GetUserByID(_ context.Context, userID string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return UserRecord{}, s.lookupErr
	}
	u, ok := s.users[userID]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return u, nil
}

func (s *memUserStore) CreateUser(_ context.Context, in CreateUserInput) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, in.Email) {
			return UserRecord{}, ErrEmailInUse
		}
	}
	s.seq++
	u := UserRecord{
		ID:           "user-" + strconv.Itoa(s.seq),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *memUserStore) UpdateUser(_ context.Context, userID string, c UserChanges) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	if c.Email != nil {
		for id, other := range s.users {
			if id != userID && strings.EqualFold(other.Email, *c.Email) {
				return UserRecord{}, ErrEmailInUse
			}
		}
		u.Email = *c.Email
	}
	if c.Name != nil {
		u.Name = *c.Name
	}
	if c.PasswordHash != nil {
		u.PasswordHash = *c.PasswordHash
	}
	s.users[userID] = u
	return u, nil
}

func (s *memUserStore) SetMFA(_ context.Context, userID, secret string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.MFASecret = secret
	u.MFAEnabled = enabled
	s.users[userID] = u
	return nil
}

func (s *memUserStore) DeleteUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return ErrUserNotFound
	}
	delete(s.users, userID)
	s.deleted = append(s.deleted, userID)
	return nil
}

func (s *memUserStore) put(u UserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *memUserStore) get(id string) UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type failingLimiterStore struct{}

func (failingLimiterStore) Hit(context.Context, string, int, time.Duration) (bool, error) {
	return false, errors.New("limiter backend down")
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Session.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Password.BcryptCost = 4
	return cfg
}

type testEnv struct {
	engine *Engine
	users  *memUserStore
	clock  *testClock
	sink   *ChannelSink
}

func newTestEnv(t *testing.T, mutate ...func(*Builder)) *testEnv {
	t.Helper()
	env := &testEnv{
		users: newMemUserStore(),
		clock: newTestClock(),
		sink:  NewChannelSink(256),
	}
	b := New().
		WithConfig(testConfig()).
		WithUserStore(env.users).
		WithAuditSink(env.sink).
		WithClock(env.clock.Now)
	for _, m := range mutate {
		m(b)
	}
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	env.engine = engine
	t.Cleanup(engine.Close)
	return env
}

// addUser stores a user whose password hash is produced by the engine's
// hasher.
func (env *testEnv) addUser(t *testing.T, id, email, pass string) UserRecord {
	t.Helper()
	var hash string
	if pass != "" {
		var err error
		hash, err = env.engine.hasher.Hash(pass)
		if err != nil {
			t.Fatalf("Hash: %v", err)
		}
	}
	u := UserRecord{ID: id, Email: email, Name: "Test " + id, PasswordHash: hash, Role: RoleUser}
	env.users.put(u)
	return u
}

// events closes the engine and returns everything the audit sink received.
func (env *testEnv) events() []AuditEvent {
	env.engine.Close()
	var out []AuditEvent
	for {
		select {
		case ev := <-env.sink.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func hasEvent(events []AuditEvent, eventType string) bool {
	for _, ev := range events {
		if ev.EventType == eventType {
			return true
		}
	}
	return false
}

func bcryptHash(t *testing.T, pass string) string {
	t.Helper()
	b, err := password.NewBcrypt(4)
	if err != nil {
		t.Fatalf("NewBcrypt: %v", err)
	}
	h, err := b.Hash(pass)
	if err != nil {
		t.Fatalf("bcrypt Hash: %v", err)
	}
	return h
}
