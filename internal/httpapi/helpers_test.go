package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/naazbookdepot/shopauth"
	"github.com/naazbookdepot/shopauth/internal/models"
	"github.com/naazbookdepot/shopauth/internal/shop"
	"github.com/stretchr/testify/require"
)

const testCSRF = "csrf-test-token"

type memUsers struct {
	mu    sync.Mutex
	rows  map[string]shopauth.UserRecord
	seq   int
	delEr error
}

func newMemUsers() *memUsers {
	return &memUsers{rows: map[string]shopauth.UserRecord{}}
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (shopauth.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return shopauth.UserRecord{}, shopauth.ErrUserNotFound
}

func (m *memUsers) GetUserByID(_ context.Context, id string) (shopauth.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return shopauth.UserRecord{}, shopauth.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) CreateUser(_ context.Context, in shopauth.CreateUserInput) (shopauth.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if strings.EqualFold(u.Email, in.Email) {
			return shopauth.UserRecord{}, shopauth.ErrEmailInUse
		}
	}
	m.seq++
	u := shopauth.UserRecord{
		ID:           fmt.Sprintf("user-%d", m.seq),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
	}
	m.rows[u.ID] = u
	return u, nil
}

func (m *memUsers) UpdateUser(_ context.Context, id string, c shopauth.UserChanges) (shopauth.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return shopauth.UserRecord{}, shopauth.ErrUserNotFound
	}
	if c.Email != nil {
		for _, other := range m.rows {
			if other.ID != id && strings.EqualFold(other.Email, *c.Email) {
				return shopauth.UserRecord{}, shopauth.ErrEmailInUse
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
	m.rows[id] = u
	return u, nil
}

func (m *memUsers) SetMFA(_ context.Context, id, secret string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return shopauth.ErrUserNotFound
	}
	u.MFASecret = secret
	u.MFAEnabled = enabled
	m.rows[id] = u
	return nil
}

func (m *memUsers) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delEr != nil {
		return m.delEr
	}
	if _, ok := m.rows[id]; !ok {
		return shopauth.ErrUserNotFound
	}
	delete(m.rows, id)
	return nil
}

type fakeShop struct {
	mu        sync.Mutex
	addresses map[string][]models.Address
	carts     map[string]*models.Cart
	reviews   map[string][]models.Review
	lines     []shop.CartLine
	err       error
}

func newFakeShop() *fakeShop {
	return &fakeShop{
		addresses: map[string][]models.Address{},
		carts:     map[string]*models.Cart{},
		reviews:   map[string][]models.Review{"known-book": {}},
	}
}

func (f *fakeShop) ListAddresses(_ context.Context, userID string) ([]models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Address{}, f.addresses[userID]...), f.err
}

func (f *fakeShop) CreateAddress(_ context.Context, userID string, a models.Address) (*models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = fmt.Sprintf("addr-%d", len(f.addresses[userID])+1)
	a.UserID = userID
	f.addresses[userID] = append(f.addresses[userID], a)
	return &a, nil
}

func (f *fakeShop) UpdateAddress(_ context.Context, userID string, a models.Address) (*models.Address, error) {
	if a.ID == "" {
		return nil, shop.ErrAddressIDRequired
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, cur := range f.addresses[userID] {
		if cur.ID == a.ID {
			a.UserID = userID
			f.addresses[userID][i] = a
			return &a, nil
		}
	}
	return nil, shop.ErrAddressNotFound
}

func (f *fakeShop) DeleteAddress(_ context.Context, userID, id string) error {
	if id == "" {
		return shop.ErrAddressIDRequired
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.addresses[userID]
	for i, cur := range list {
		if cur.ID == id {
			f.addresses[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return shop.ErrAddressNotFound
}

func (f *fakeShop) GetCart(_ context.Context, userID string) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.carts[userID]; ok {
		return c, nil
	}
	return shop.EmptyCart(userID), nil
}

func (f *fakeShop) writeCart(userID string, lines []shop.CartLine) *models.Cart {
	f.lines = lines
	c := &models.Cart{ID: "cart-1", UserID: userID, Items: []models.CartItem{}}
	for _, l := range lines {
		c.Items = append(c.Items, models.CartItem{CartID: c.ID, ProductID: l.ProductID, Quantity: l.Quantity})
	}
	f.carts[userID] = c
	return c
}

func (f *fakeShop) ReplaceCart(_ context.Context, userID string, lines []shop.CartLine) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeCart(userID, lines), f.err
}

func (f *fakeShop) MergeCart(_ context.Context, userID string, lines []shop.CartLine) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeCart(userID, lines), f.err
}

func (f *fakeShop) ClearCart(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, userID)
	return f.err
}

func (f *fakeShop) ListReviews(_ context.Context, slug string) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	list, ok := f.reviews[slug]
	if !ok {
		return nil, shop.ErrProductNotFound
	}
	return list, nil
}

func (f *fakeShop) CreateReview(_ context.Context, userID, slug string, in shop.ReviewInput) (*models.Review, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	list, ok := f.reviews[slug]
	if !ok {
		return nil, shop.ErrProductNotFound
	}
	for _, r := range list {
		if r.UserID == userID {
			return nil, shop.ErrAlreadyReviewed
		}
	}
	rv := models.Review{ID: "rv-" + userID, UserID: userID, Rating: in.Rating, Title: in.Title, Comment: in.Comment}
	f.reviews[slug] = append([]models.Review{rv}, list...)
	return &rv, nil
}

type testServer struct {
	engine *shopauth.Engine
	users  *memUsers
	shop   *fakeShop
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := shopauth.DefaultConfig()
	cfg.Session.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Audit.Enabled = false

	users := newMemUsers()
	engine, err := shopauth.New().WithConfig(cfg).WithUserStore(users).Build()
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	fs := newFakeShop()
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("shopauth_login_total{outcome=\"success\"} 0\n"))
	})
	h := NewHandler(engine, fs, nil, metrics)
	return &testServer{engine: engine, users: users, shop: fs, router: NewRouter(h)}
}

type reqOpt func(*http.Request)

func withCSRF(s *testServer) reqOpt {
	return func(r *http.Request) {
		c := s.engine.Cookies()
		r.Header.Set(c.CSRFHeader, testCSRF)
		r.AddCookie(&http.Cookie{Name: c.CSRFName, Value: testCSRF})
	}
}

func withSession(s *testServer, token string) reqOpt {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: s.engine.Cookies().SessionName, Value: token})
	}
}

func withIP(ip string) reqOpt {
	return func(r *http.Request) { r.Header.Set("X-Forwarded-For", ip) }
}

func (s *testServer) do(t *testing.T, method, path string, body any, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// signIn registers a user and returns a session token for it.
func (s *testServer) signIn(t *testing.T, name, email, password string) (string, string) {
	t.Helper()
	ctx := context.Background()
	user, err := s.engine.Register(ctx, name, email, password)
	require.NoError(t, err)
	_, issued, err := s.engine.Login(ctx, email, password)
	require.NoError(t, err)
	return user.ID, issued.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
