package shop

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/naazbookdepot/shopauth/internal/dbx"
	"github.com/naazbookdepot/shopauth/internal/models"
	"github.com/naazbookdepot/shopauth/internal/repositories/addresses"
	"github.com/naazbookdepot/shopauth/internal/repositories/carts"
	"github.com/naazbookdepot/shopauth/internal/repositories/orders"
	"github.com/naazbookdepot/shopauth/internal/repositories/products"
	"github.com/naazbookdepot/shopauth/internal/repositories/reviews"
	"github.com/naazbookdepot/shopauth/internal/repositories/users"
	"github.com/naazbookdepot/shopauth/internal/repositories/wishlists"
	"github.com/stretchr/testify/require"
)

// fakeRepoManager hands out in-memory repositories that ignore the DBTX.
type fakeRepoManager struct {
	addresses *fakeAddresses
	carts     *fakeCarts
	reviews   *fakeReviews
	products  *fakeProducts
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		addresses: &fakeAddresses{rows: map[string]models.Address{}},
		carts:     &fakeCarts{carts: map[string]*models.Cart{}},
		reviews:   &fakeReviews{},
		products:  &fakeProducts{bySlug: map[string]models.Product{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return nil }
func (m *fakeRepoManager) Addresses(dbx.DBTX) addresses.Repository      { return m.addresses }
func (m *fakeRepoManager) Carts(dbx.DBTX) carts.Repository              { return m.carts }
func (m *fakeRepoManager) Reviews(dbx.DBTX) reviews.Repository          { return m.reviews }
func (m *fakeRepoManager) Products(dbx.DBTX) products.Repository        { return m.products }
func (m *fakeRepoManager) Wishlists(dbx.DBTX) wishlists.Repository      { return nil }
func (m *fakeRepoManager) Orders(dbx.DBTX) orders.Repository            { return nil }

type fakeAddresses struct {
	mu   sync.Mutex
	rows map[string]models.Address
}

func (f *fakeAddresses) ListByUser(_ context.Context, userID string) ([]models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Address, 0)
	for _, a := range f.rows {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAddresses) Create(_ context.Context, a *models.Address) (*models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	f.rows[a.ID] = *a
	return a, nil
}

func (f *fakeAddresses) Update(_ context.Context, a *models.Address) (*models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.rows[a.ID]
	if !ok || cur.UserID != a.UserID {
		return nil, models.ErrNotFound
	}
	a.CreatedAt = cur.CreatedAt
	f.rows[a.ID] = *a
	return a, nil
}

func (f *fakeAddresses) Delete(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.rows[id]
	if !ok || cur.UserID != userID {
		return models.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeAddresses) DeleteByUser(context.Context, string) error { return nil }

type fakeCarts struct {
	mu    sync.Mutex
	carts map[string]*models.Cart
	err   error
}

func (f *fakeCarts) GetByUser(_ context.Context, userID string) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *c
	out.Items = append([]models.CartItem{}, c.Items...)
	return &out, nil
}

func (f *fakeCarts) Ensure(_ context.Context, userID string) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.carts[userID]; ok {
		return c, nil
	}
	c := &models.Cart{ID: "cart-" + userID, UserID: userID, Items: []models.CartItem{}}
	f.carts[userID] = c
	return c, nil
}

func (f *fakeCarts) cartByID(id string) *models.Cart {
	for _, c := range f.carts {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (f *fakeCarts) ClearItems(_ context.Context, cartID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c := f.cartByID(cartID); c != nil {
		c.Items = []models.CartItem{}
	}
	return nil
}

func (f *fakeCarts) UpsertItem(_ context.Context, cartID, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	c := f.cartByID(cartID)
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	c.Items = append(c.Items, models.CartItem{ID: "item-" + productID, CartID: cartID, ProductID: productID, Quantity: quantity})
	return nil
}

func (f *fakeCarts) DeleteByUser(context.Context, string) error { return nil }

type fakeReviews struct {
	mu     sync.Mutex
	rows   []models.Review
	names  map[string]string
	listEr error
}

func (f *fakeReviews) ListByProduct(_ context.Context, productID string) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listEr != nil {
		return nil, f.listEr
	}
	out := make([]models.Review, 0)
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].ProductID == productID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeReviews) Exists(_ context.Context, userID, productID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.UserID == userID && r.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviews) Create(_ context.Context, r *models.Review) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = "review-" + r.UserID
	r.CreatedAt = time.Now()
	r.User.Name = f.names[r.UserID]
	f.rows = append(f.rows, *r)
	return r, nil
}

func (f *fakeReviews) DeleteByUser(context.Context, string) error { return nil }

type fakeProducts struct {
	bySlug map[string]models.Product
}

func (f *fakeProducts) GetBySlug(_ context.Context, slug string) (*models.Product, error) {
	p, ok := f.bySlug[slug]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProducts) UpsertCategory(_ context.Context, c *models.Category) (*models.Category, error) {
	return c, nil
}

func (f *fakeProducts) UpsertProduct(_ context.Context, p *models.Product) (*models.Product, error) {
	f.bySlug[p.Slug] = *p
	return p, nil
}

func newTestService(t *testing.T) (*Service, *fakeRepoManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm := newFakeRepoManager()
	return NewService(db, rm, nil), rm, mock
}
