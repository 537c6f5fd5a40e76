// Package mocks holds testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"flightdeal-service/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockDestinationRepository is a mock of repository.DestinationRepository
type MockDestinationRepository struct {
	mock.Mock
}

// NewMockDestinationRepository creates a mock that asserts its expectations on cleanup
func NewMockDestinationRepository(t testingT) *MockDestinationRepository {
	m := &MockDestinationRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockDestinationRepository) ListDestinations(ctx context.Context) ([]entity.Destination, error) {
	args := m.Called(ctx)
	destinations, _ := args.Get(0).([]entity.Destination)
	return destinations, args.Error(1)
}

func (m *MockDestinationRepository) ListSubscriberEmails(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	emails, _ := args.Get(0).([]string)
	return emails, args.Error(1)
}

func (m *MockDestinationRepository) WriteIataCode(ctx context.Context, destinationID int, code string) error {
	args := m.Called(ctx, destinationID, code)
	return args.Error(0)
}

// MockCityCodeRepository is a mock of repository.CityCodeRepository
type MockCityCodeRepository struct {
	mock.Mock
}

// NewMockCityCodeRepository creates a mock that asserts its expectations on cleanup
func NewMockCityCodeRepository(t testingT) *MockCityCodeRepository {
	m := &MockCityCodeRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCityCodeRepository) LookupIata(ctx context.Context, city, country string) (string, error) {
	args := m.Called(ctx, city, country)
	return args.String(0), args.Error(1)
}

// MockCityCodeCacheRepository is a mock of repository.CityCodeCacheRepository
type MockCityCodeCacheRepository struct {
	mock.Mock
}

// NewMockCityCodeCacheRepository creates a mock that asserts its expectations on cleanup
func NewMockCityCodeCacheRepository(t testingT) *MockCityCodeCacheRepository {
	m := &MockCityCodeCacheRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCityCodeCacheRepository) Get(ctx context.Context, city, country string) (*entity.CityCode, error) {
	args := m.Called(ctx, city, country)
	code, _ := args.Get(0).(*entity.CityCode)
	return code, args.Error(1)
}

func (m *MockCityCodeCacheRepository) Put(ctx context.Context, code entity.CityCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

// MockFlightOfferRepository is a mock of repository.FlightOfferRepository
type MockFlightOfferRepository struct {
	mock.Mock
}

// NewMockFlightOfferRepository creates a mock that asserts its expectations on cleanup
func NewMockFlightOfferRepository(t testingT) *MockFlightOfferRepository {
	m := &MockFlightOfferRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockFlightOfferRepository) Search(ctx context.Context, params entity.SearchParams) ([]entity.FlightOffer, error) {
	args := m.Called(ctx, params)
	offers, _ := args.Get(0).([]entity.FlightOffer)
	return offers, args.Error(1)
}

// MockNotificationRepository is a mock of repository.NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

// NewMockNotificationRepository creates a mock that asserts its expectations on cleanup
func NewMockNotificationRepository(t testingT) *MockNotificationRepository {
	m := &MockNotificationRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockNotificationRepository) Send(ctx context.Context, recipients []string, body string) error {
	args := m.Called(ctx, recipients, body)
	return args.Error(0)
}

// MockDealCheckRepository is a mock of repository.DealCheckRepository
type MockDealCheckRepository struct {
	mock.Mock
}

// NewMockDealCheckRepository creates a mock that asserts its expectations on cleanup
func NewMockDealCheckRepository(t testingT) *MockDealCheckRepository {
	m := &MockDealCheckRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockDealCheckRepository) Save(ctx context.Context, check *entity.DealCheck) error {
	args := m.Called(ctx, check)
	return args.Error(0)
}
