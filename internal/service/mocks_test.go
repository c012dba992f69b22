package service_test

import (
	"context"
	"time"

	"github.com/santhosharam/kottravai-backend/internal/entities"
	"github.com/santhosharam/kottravai-backend/internal/identity"
	"github.com/santhosharam/kottravai-backend/internal/mailer"
	"github.com/santhosharam/kottravai-backend/internal/shiprocket"
	"github.com/santhosharam/kottravai-backend/pkg/trm"

	"github.com/stretchr/testify/mock"
)

// nopTxManager runs the callback without a real transaction.
type nopTxManager struct{}

func (nopTxManager) BeginTx(ctx context.Context) (context.Context, trm.Transaction, error) {
	return ctx, nopTx{}, nil
}

func (nopTxManager) Do(ctx context.Context, callback func(ctx context.Context) error) error {
	return callback(ctx)
}

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) Save(ctx context.Context, o entities.Order) (entities.Order, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id int64) (entities.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *mockOrderRepo) ListAll(ctx context.Context) ([]entities.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entities.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByEmail(ctx context.Context, email string) ([]entities.Order, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]entities.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByPhoneSuffix(ctx context.Context, last10 string) ([]entities.Order, error) {
	args := m.Called(ctx, last10)
	return args.Get(0).([]entities.Order), args.Error(1)
}

func (m *mockOrderRepo) ListUnshipped(ctx context.Context, olderThan time.Time) ([]entities.Order, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).([]entities.Order), args.Error(1)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id int64, status entities.OrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockOrderRepo) UpdateShipment(ctx context.Context, id int64, providerOrderID, shipmentID string) error {
	return m.Called(ctx, id, providerOrderID, shipmentID).Error(0)
}

func (m *mockOrderRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(msg mailer.Message) error {
	return m.Called(msg).Error(0)
}

type mockShipper struct{ mock.Mock }

func (m *mockShipper) CreateOrder(ctx context.Context, o entities.Order) (shiprocket.CreateOrderResult, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(shiprocket.CreateOrderResult), args.Error(1)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) List(ctx context.Context) ([]entities.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entities.Product), args.Error(1)
}

func (m *mockProductRepo) GetBySlug(ctx context.Context, slug string) (entities.Product, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id int64) (entities.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *mockProductRepo) Create(ctx context.Context, p entities.Product) (entities.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(entities.Product), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, p entities.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockReviewRepo struct{ mock.Mock }

func (m *mockReviewRepo) Create(ctx context.Context, r entities.Review) (entities.Review, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(entities.Review), args.Error(1)
}

func (m *mockReviewRepo) ListByProduct(ctx context.Context, productID int64) ([]entities.Review, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]entities.Review), args.Error(1)
}

type mockWishlistRepo struct{ mock.Mock }

func (m *mockWishlistRepo) Exists(ctx context.Context, username string, productID int64) (bool, error) {
	args := m.Called(ctx, username, productID)
	return args.Bool(0), args.Error(1)
}

func (m *mockWishlistRepo) Add(ctx context.Context, username string, productID int64) error {
	return m.Called(ctx, username, productID).Error(0)
}

func (m *mockWishlistRepo) Remove(ctx context.Context, username string, productID int64) error {
	return m.Called(ctx, username, productID).Error(0)
}

func (m *mockWishlistRepo) ListProducts(ctx context.Context, username string) ([]entities.Product, error) {
	args := m.Called(ctx, username)
	return args.Get(0).([]entities.Product), args.Error(1)
}

type mockOTPRepo struct{ mock.Mock }

func (m *mockOTPRepo) Create(ctx context.Context, identityStr, code string, expiresAt time.Time) error {
	return m.Called(ctx, identityStr, code, expiresAt).Error(0)
}

func (m *mockOTPRepo) Latest(ctx context.Context, identityStr string) (entities.OTP, error) {
	args := m.Called(ctx, identityStr)
	return args.Get(0).(entities.OTP), args.Error(1)
}

func (m *mockOTPRepo) DeleteForIdentity(ctx context.Context, identityStr string) error {
	return m.Called(ctx, identityStr).Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendOTP(ctx context.Context, mobile, code string) error {
	return m.Called(ctx, mobile, code).Error(0)
}

type mockIdentityProvider struct{ mock.Mock }

func (m *mockIdentityProvider) CreateUser(ctx context.Context, mobile, password string) (identity.Identity, error) {
	args := m.Called(ctx, mobile, password)
	return args.Get(0).(identity.Identity), args.Error(1)
}

func (m *mockIdentityProvider) FindUser(ctx context.Context, identityStr string) (identity.Identity, error) {
	args := m.Called(ctx, identityStr)
	return args.Get(0).(identity.Identity), args.Error(1)
}

func (m *mockIdentityProvider) UpdatePassword(ctx context.Context, userID, password string) error {
	return m.Called(ctx, userID, password).Error(0)
}

// memoryCache is a plain map cache without TTL, for cache interaction tests.
type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(key string) ([]byte, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *memoryCache) Set(key string, value []byte) {
	c.entries[key] = value
}

func (c *memoryCache) Delete(key string) {
	delete(c.entries, key)
}
