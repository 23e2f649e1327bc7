package service_test

import (
	"context"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockCatalogReader struct {
	mock.Mock
}

func (m *MockCatalogReader) ReadProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogReader) ReadProductsByIDs(
	ctx context.Context, ids []int64,
) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogReader) ReadCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

type MockShippingReader struct {
	mock.Mock
}

func (m *MockShippingReader) ReadZoneByCountry(
	ctx context.Context, country string,
) (domain.ShippingZone, error) {
	args := m.Called(ctx, country)
	return args.Get(0).(domain.ShippingZone), args.Error(1)
}

func (m *MockShippingReader) ReadMethods(
	ctx context.Context, zoneID int64,
) ([]domain.ShippingMethod, error) {
	args := m.Called(ctx, zoneID)
	return args.Get(0).([]domain.ShippingMethod), args.Error(1)
}

func (m *MockShippingReader) ReadMethod(
	ctx context.Context, id string,
) (domain.ShippingMethod, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ShippingMethod), args.Error(1)
}

type MockOrdersStorage struct {
	mock.Mock
	stored []domain.Order
}

func (m *MockOrdersStorage) StoreOrder(ctx context.Context, o domain.Order) error {
	m.stored = append(m.stored, o)
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MockOrderEventsProducer struct {
	mock.Mock
}

func (m *MockOrderEventsProducer) ProduceOrderPlaced(ctx context.Context, o domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MockProductFilterProducer struct {
	mock.Mock
}

func (m *MockProductFilterProducer) ProduceFilter(
	ctx context.Context, pf domain.ProductFilter,
) error {
	args := m.Called(ctx, pf)
	return args.Error(0)
}

type MockBlockView struct {
	mock.Mock
}

func (m *MockBlockView) IsBlocked(slug string) (bool, error) {
	args := m.Called(slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlockView) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	m.Called(ctx)
}
