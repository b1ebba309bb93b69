package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/oullim/market/internal/common"
	"github.com/oullim/market/internal/cryptox"
	"github.com/oullim/market/internal/dbx"
	"github.com/oullim/market/internal/logging"
	"github.com/oullim/market/internal/server/models"
	billsrepo "github.com/oullim/market/internal/server/repositories/bills"
	cartitemsrepo "github.com/oullim/market/internal/server/repositories/cartitems"
	deliveriesrepo "github.com/oullim/market/internal/server/repositories/deliveries"
	orderitemsrepo "github.com/oullim/market/internal/server/repositories/orderitems"
	productsrepo "github.com/oullim/market/internal/server/repositories/products"
	sellersrepo "github.com/oullim/market/internal/server/repositories/sellers"
	statuscategoriesrepo "github.com/oullim/market/internal/server/repositories/statuscategories"
	usersrepo "github.com/oullim/market/internal/server/repositories/users"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newTestCipher(t *testing.T) *cryptox.FieldCipher {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	c, err := cryptox.NewFieldCipher(key)
	if err != nil {
		t.Fatalf("NewFieldCipher error: %v", err)
	}
	return c
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- fake repositories ---

type fakeUsersRepo struct {
	byID    map[string]*models.User
	byEmail map[string]*models.User

	createOut *models.User
	createErr error

	updated   []*models.User
	updateErr error

	authCodes      map[string]string
	setAuthCodeErr error

	activeSet    map[string]bool
	setActiveErr error

	sellerSet    map[string]bool
	setSellerErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	out := *u
	out.ID = "u-new"
	return &out, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *u
	f.updated = append(f.updated, &cp)
	return nil
}

func (f *fakeUsersRepo) SetAuthCode(ctx context.Context, id, code string) error {
	if f.setAuthCodeErr != nil {
		return f.setAuthCodeErr
	}
	if f.authCodes == nil {
		f.authCodes = map[string]string{}
	}
	f.authCodes[id] = code
	return nil
}

func (f *fakeUsersRepo) SetActive(ctx context.Context, id string, active bool) error {
	if f.setActiveErr != nil {
		return f.setActiveErr
	}
	if f.activeSet == nil {
		f.activeSet = map[string]bool{}
	}
	f.activeSet[id] = active
	return nil
}

func (f *fakeUsersRepo) SetSeller(ctx context.Context, id string, isSeller bool) error {
	if f.setSellerErr != nil {
		return f.setSellerErr
	}
	if f.sellerSet == nil {
		f.sellerSet = map[string]bool{}
	}
	f.sellerSet[id] = isSeller
	return nil
}

type fakeDeliveriesRepo struct {
	countOut int64
	countErr error

	created   []*models.Delivery
	createErr error

	byID map[string]*models.Delivery

	updated   []*models.Delivery
	updateErr error

	deleted   []string
	deleteErr error

	listOut []*models.Delivery
	listErr error
}

func (f *fakeDeliveriesRepo) Create(ctx context.Context, d *models.Delivery) (*models.Delivery, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *d
	cp.ID = fmt.Sprintf("d%d", len(f.created)+1)
	f.created = append(f.created, &cp)
	return &cp, nil
}

func (f *fakeDeliveriesRepo) GetByID(ctx context.Context, id string) (*models.Delivery, error) {
	if d, ok := f.byID[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeDeliveriesRepo) Update(ctx context.Context, d *models.Delivery) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *d
	f.updated = append(f.updated, &cp)
	return nil
}

func (f *fakeDeliveriesRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDeliveriesRepo) ListByUser(ctx context.Context, userID string) ([]*models.Delivery, error) {
	return f.listOut, f.listErr
}

func (f *fakeDeliveriesRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	return f.countOut, f.countErr
}

type fakeSellersRepo struct {
	byUserID map[string]*models.Seller

	created   []*models.Seller
	createErr error

	updated   []*models.Seller
	updateErr error

	deletedUsers []string
	deleteErr    error
}

func (f *fakeSellersRepo) Create(ctx context.Context, s *models.Seller) (*models.Seller, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *s
	cp.ID = fmt.Sprintf("s%d", len(f.created)+1)
	f.created = append(f.created, &cp)
	return &cp, nil
}

func (f *fakeSellersRepo) GetByUserID(ctx context.Context, userID string) (*models.Seller, error) {
	if s, ok := f.byUserID[userID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeSellersRepo) Update(ctx context.Context, s *models.Seller) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *s
	f.updated = append(f.updated, &cp)
	return nil
}

func (f *fakeSellersRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byUserID[userID]; !ok {
		return common.ErrNotFound
	}
	f.deletedUsers = append(f.deletedUsers, userID)
	return nil
}

type fakeBillsRepo struct {
	created   []*models.Bill
	createErr error

	byID map[string]*models.Bill

	listOut []*models.Bill
	listErr error

	paidSet    map[string]bool
	setPaidErr error
}

func (f *fakeBillsRepo) Create(ctx context.Context, b *models.Bill) (*models.Bill, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *b
	cp.ID = fmt.Sprintf("b%d", len(f.created)+1)
	f.created = append(f.created, &cp)
	return &cp, nil
}

func (f *fakeBillsRepo) GetByID(ctx context.Context, id string) (*models.Bill, error) {
	if b, ok := f.byID[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeBillsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Bill, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Bill, 0, len(f.listOut))
	for _, b := range f.listOut {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeBillsRepo) SetPaid(ctx context.Context, id string, paid bool) error {
	if f.setPaidErr != nil {
		return f.setPaidErr
	}
	if f.paidSet == nil {
		f.paidSet = map[string]bool{}
	}
	f.paidSet[id] = paid
	return nil
}

type fakeOrderItemsRepo struct {
	created   []*models.OrderItem
	createErr error

	byID map[string]*models.OrderItem

	byBill  map[string][]*models.OrderItem
	listErr error

	statusUpdates map[string]int64
	updateErr     error
}

func (f *fakeOrderItemsRepo) Create(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *item
	cp.ID = fmt.Sprintf("oi%d", len(f.created)+1)
	f.created = append(f.created, &cp)
	return &cp, nil
}

func (f *fakeOrderItemsRepo) GetByID(ctx context.Context, id string) (*models.OrderItem, error) {
	if it, ok := f.byID[id]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeOrderItemsRepo) ListByBill(ctx context.Context, billID string) ([]*models.OrderItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byBill[billID], nil
}

func (f *fakeOrderItemsRepo) UpdateStatus(ctx context.Context, id string, statusID int64) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.statusUpdates == nil {
		f.statusUpdates = map[string]int64{}
	}
	f.statusUpdates[id] = statusID
	return nil
}

type fakeStatusCategoriesRepo struct {
	cats map[int64]*models.StatusCategory

	minOut int64
	minErr error
}

func (f *fakeStatusCategoriesRepo) List(ctx context.Context) ([]*models.StatusCategory, error) {
	out := make([]*models.StatusCategory, 0, len(f.cats))
	for _, c := range f.cats {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStatusCategoriesRepo) GetByID(ctx context.Context, id int64) (*models.StatusCategory, error) {
	if c, ok := f.cats[id]; ok {
		return c, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeStatusCategoriesRepo) MinID(ctx context.Context) (int64, error) {
	if f.minErr != nil {
		return 0, f.minErr
	}
	return f.minOut, nil
}

type fakeProductsRepo struct {
	byID   map[string]*models.Product
	getErr error
}

func (f *fakeProductsRepo) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	return p, nil
}

func (f *fakeProductsRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if p, ok := f.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

type fakeCartItemsRepo struct {
	created   []*models.CartItem
	createErr error

	byID map[string]*models.CartItem

	listOut []*models.CartItem
	listErr error

	amountUpdates map[string]int64
	updateErr     error

	deleted   []string
	deleteErr error

	clearedUsers []string
	clearErr     error
}

func (f *fakeCartItemsRepo) Create(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *item
	cp.ID = fmt.Sprintf("ci%d", len(f.created)+1)
	f.created = append(f.created, &cp)
	return &cp, nil
}

func (f *fakeCartItemsRepo) GetByID(ctx context.Context, id string) (*models.CartItem, error) {
	if it, ok := f.byID[id]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeCartItemsRepo) ListByUser(ctx context.Context, userID string) ([]*models.CartItem, error) {
	return f.listOut, f.listErr
}

func (f *fakeCartItemsRepo) UpdateAmount(ctx context.Context, id string, amount int64) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.amountUpdates == nil {
		f.amountUpdates = map[string]int64{}
	}
	f.amountUpdates[id] = amount
	return nil
}

func (f *fakeCartItemsRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCartItemsRepo) DeleteByUser(ctx context.Context, userID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.clearedUsers = append(f.clearedUsers, userID)
	return nil
}

// fakeRepoManager vends the fakes above regardless of the DBTX handed in.
type fakeRepoManager struct {
	u  *fakeUsersRepo
	sl *fakeSellersRepo
	d  *fakeDeliveriesRepo
	b  *fakeBillsRepo
	oi *fakeOrderItemsRepo
	sc *fakeStatusCategoriesRepo
	p  *fakeProductsRepo
	ci *fakeCartItemsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.u }

func (m *fakeRepoManager) Sellers(db dbx.DBTX) sellersrepo.Repository { return m.sl }

func (m *fakeRepoManager) Deliveries(db dbx.DBTX) deliveriesrepo.Repository { return m.d }

func (m *fakeRepoManager) Bills(db dbx.DBTX) billsrepo.Repository { return m.b }

func (m *fakeRepoManager) OrderItems(db dbx.DBTX) orderitemsrepo.Repository { return m.oi }

func (m *fakeRepoManager) StatusCategories(db dbx.DBTX) statuscategoriesrepo.Repository {
	return m.sc
}

func (m *fakeRepoManager) Products(db dbx.DBTX) productsrepo.Repository { return m.p }

func (m *fakeRepoManager) CartItems(db dbx.DBTX) cartitemsrepo.Repository { return m.ci }
