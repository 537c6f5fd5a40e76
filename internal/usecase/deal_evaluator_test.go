package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"flightdeal-service/internal/domain/entity"
	"flightdeal-service/internal/domain/repository/mocks"
	"flightdeal-service/pkg/logger"
	"flightdeal-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var evaluatorNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

type evaluatorMocks struct {
	destinations  *mocks.MockDestinationRepository
	cityCodes     *mocks.MockCityCodeRepository
	flights       *mocks.MockFlightOfferRepository
	notifications *mocks.MockNotificationRepository
	dealChecks    *mocks.MockDealCheckRepository
}

func newEvaluatorMocks(t *testing.T) evaluatorMocks {
	return evaluatorMocks{
		destinations:  mocks.NewMockDestinationRepository(t),
		cityCodes:     mocks.NewMockCityCodeRepository(t),
		flights:       mocks.NewMockFlightOfferRepository(t),
		notifications: mocks.NewMockNotificationRepository(t),
		dealChecks:    mocks.NewMockDealCheckRepository(t),
	}
}

func newTestEvaluator(m evaluatorMocks, settings EvaluatorSettings) (*DealEvaluator, *metrics.Metrics) {
	log := logger.NewNopLogger()
	mtr := metrics.NewMetrics("test", prometheus.NewRegistry())

	e := NewDealEvaluator(
		m.destinations,
		m.cityCodes,
		NewFlightResolver(m.flights, log),
		m.notifications,
		m.dealChecks,
		mtr,
		log,
		settings,
	)
	e.now = func() time.Time { return evaluatorNow }
	return e, mtr
}

func defaultSettings() EvaluatorSettings {
	return EvaluatorSettings{
		HomeIata:   "LON",
		Adults:     1,
		Currency:   "GBP",
		WindowDays: 180,
	}
}

func searchTo(iata string, direct bool) entity.SearchParams {
	return entity.SearchParams{
		OriginIata:      "LON",
		DestinationIata: iata,
		DepartureDate:   "2026-10-20",
		ReturnDate:      "2027-04-17",
		Adults:          1,
		Currency:        "GBP",
		DirectOnly:      direct,
	}
}

func checkWithStatus(status string) interface{} {
	return mock.MatchedBy(func(c *entity.DealCheck) bool {
		return c.Status == status
	})
}

func parisOffer(price string, outbound int) entity.FlightOffer {
	segments := []entity.Segment{segment("LHR", "2026-10-22T07:15:00")}
	for i := 1; i < outbound; i++ {
		segments = append(segments, segment("AMS", "2026-10-22T11:00:00"))
	}
	return roundTrip(price, "GBP", segments, []entity.Segment{segment("CDG", "2026-11-01T18:30:00")})
}

func TestDealEvaluator_Run_NotifiesBelowThreshold(t *testing.T) {
	m := newEvaluatorMocks(t)
	e, mtr := newTestEvaluator(m, defaultSettings())

	paris := entity.Destination{ID: 2, City: "Paris", IataCode: "PAR", LowestPrice: decimal.RequireFromString("350.00")}
	emails := []string{"ada@example.com", "grace@example.com"}

	m.destinations.On("ListDestinations", mock.Anything).Return([]entity.Destination{paris}, nil)
	m.destinations.On("ListSubscriberEmails", mock.Anything).Return(emails, nil)
	m.flights.On("Search", mock.Anything, searchTo("PAR", true)).Return([]entity.FlightOffer{parisOffer("280.00", 1)}, nil).Once()
	m.notifications.On("Send", mock.Anything, emails, mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "from LHR to CDG") &&
			strings.Contains(body, "280.00") &&
			strings.Contains(body, "non-stop") &&
			strings.Contains(body, "departing on 2026-10-22 and returning on 2026-11-01")
	})).Return(nil).Once()
	m.dealChecks.On("Save", mock.Anything, mock.MatchedBy(func(c *entity.DealCheck) bool {
		return c.Status == entity.CheckNotified &&
			c.DestinationID == 2 &&
			c.Price == "280.00" &&
			c.Threshold == "350" &&
			c.Recipients == 2 &&
			c.RunID != ""
	})).Return(nil).Once()

	summary, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Checked)
	assert.Equal(t, 1, summary.Notified)
	assert.Equal(t, 1.0, testutil.ToFloat64(mtr.NotificationsSent))
	assert.Equal(t, 1.0, testutil.ToFloat64(mtr.DealsFound))
	m.notifications.AssertNumberOfCalls(t, "Send", 1)
}

func TestDealEvaluator_Run_StopsPhrasing(t *testing.T) {
	m := newEvaluatorMocks(t)
	e, _ := newTestEvaluator(m, defaultSettings())

	paris := entity.Destination{ID: 2, City: "Paris", IataCode: "PAR", LowestPrice: decimal.NewFromInt(350)}

	m.destinations.On("ListDestinations", mock.Anything).Return([]entity.Destination{paris}, nil)
	m.destinations.On("ListSubscriberEmails", mock.Anything).Return([]string{"ada@example.com"}, nil)
	m.flights.On("Search", mock.Anything, searchTo("PAR", true)).Return([]entity.FlightOffer{}, nil).Once()
	m.flights.On("Search", mock.Anything, searchTo("PAR", false)).Return([]entity.FlightOffer{
		parisOffer("310.00", 3),
		parisOffer("299.99", 2),
	}, nil).Once()
	m.notifications.On("Send", mock.Anything, []string{"ada@example.com"}, mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "299.99") && strings.Contains(body, "with 1 stop(s)")
	})).Return(nil).Once()
	m.dealChecks.On("Save", mock.Anything, checkWithStatus(entity.CheckNotified)).Return(nil).Once()

	summary, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Notified)
}

func TestDealEvaluator_Run_SkipsWhenGeocodeFails(t *testing.T) {
	m := newEvaluatorMocks(t)
	e, _ := newTestEvaluator(m, defaultSettings())

	atlantis := entity.Destination{ID: 3, City: "Atlantis", LowestPrice: decimal.NewFromInt(500)}
	paris := entity.Destination{ID: 4, City: "Paris", IataCode: "PAR", LowestPrice: decimal.NewFromInt(100)}

	m.destinations.On("ListDestinations", mock.Anything).Return([]entity.Destination{atlantis, paris}, nil)
	m.destinations.On("ListSubscriberEmails", mock.Anything).Return([]string{"ada@example.com"}, nil)
	m.cityCodes.On("LookupIata", mock.Anything, "Atlantis", "").Return("", fmt.Errorf("%w: city Atlantis", entity.ErrNotFound)).Once()
	m.flights.On("Search", mock.Anything, searchTo("PAR", true)).Return([]entity.FlightOffer{parisOffer("180.00", 1)}, nil).Once()
	m.dealChecks.On("Save", mock.Anything, mock.MatchedBy(func(c *entity.DealCheck) bool {
		return c.Status == entity.CheckMissingIata && c.City == "Atlantis" && c.ErrorDetail != ""
	})).Return(nil).Once()
	m.dealChecks.On("Save", mock.Anything, checkWithStatus(entity.CheckAboveThreshold)).Return(nil).Once()

	summary, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Checked)
	assert.Equal(t, 1, summary.Outcomes[entity.CheckMissingIata])
	assert.Equal(t, 1, summary.Outcomes[entity.CheckAboveThreshold])
	m.destinations.AssertNotCalled(t, "WriteIataCode", mock.Anything, mock.Anything, mock.Anything)
	m.notifications.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	m.flights.AssertNumberOfCalls(t, "Search", 1)
}

func TestDealEvaluator_Run_BackfillsIataCode(t *testing.T) {
	setup := func(writeErr error) func(t *testing.T) {
		return func(t *testing.T) {
			m := newEvaluatorMocks(t)
			e, mtr := newTestEvaluator(m, defaultSettings())

			berlin := entity.Destination{ID: 5, City: "Berlin", Country: "DE", LowestPrice: decimal.NewFromInt(60)}

			m.destinations.On("ListDestinations", mock.Anything).Return([]entity.Destination{berlin}, nil)
			m.destinations.On("ListSubscriberEmails", mock.Anything).Return([]string{}, nil)
			m.cityCodes.On("LookupIata", mock.Anything, "Berlin", "DE").Return("BER", nil).Once()
			m.destinations.On("WriteIataCode", mock.Anything, 5, "BER").Return(writeErr).Once()
			m.flights.On("Search", mock.Anything, searchTo("BER", true)).Return([]entity.FlightOffer{}, nil).Once()
			m.flights.On("Search", mock.Anything, searchTo("BER", false)).Return([]entity.FlightOffer{}, nil).Once()
			m.dealChecks.On("Save", mock.Anything, mock.MatchedBy(func(c *entity.DealCheck) bool {
				return c.Status == entity.CheckNoFlights && c.IataCode == "BER"
			})).Return(nil).Once()

			_, err := e.Run(context.Background())
			require.NoError(t, err)

			wantWriteErrors := 0.0
			if writeErr != nil {
				wantWriteErrors = 1
			}
			assert.Equal(t, wantWriteErrors, testutil.ToFloat64(mtr.ErrorsCount.WithLabelValues("write_iata")))
		}
	}

	t.Run("write_succeeds", setup(nil))
	t.Run("write_fails_but_search_continues", setup(errors.New("sheety unavailable")))
}

func TestDealEvaluator_Run_SentinelPriceSkipsNotification(t *testing.T) {
	m := newEvaluatorMocks(t)
	e, mtr := newTestEvaluator(m, defaultSettings())

	rome := entity.Destination{ID: 6, City: "Rome", IataCode: "ROM", LowestPrice: decimal.NewFromInt(999)}
	malformed := entity.FlightOffer{Price: entity.OfferPrice{GrandTotal: "1.00", Currency: "GBP"}}

	m.destinations.On("ListDestinations", mock.Anything).Return([]entity.Destination{rome}, nil)
	m.destinations.On("ListSubscriberEmails", mock.Anything).Return([]string{"ada@example.com"}, nil)
	m.flights.On("Search", mock.Anything, searchTo("ROM", true)).Return([]entity.FlightOffer{malformed}, nil).Once()
	m.dealChecks.On("Save", mock.Anything, mock.MatchedBy(func(c *entity.DealCheck) bool {
		return c.Status == entity.CheckNoFlights && c.Price == ""
	})).Return(nil).Once()

	summary, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Notified)
	assert.Equal(t, 0.0, testutil.ToFloat64(mtr.DealsFound))
	m.notifications.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestDealEvaluator_Run_ContinuesAfterFailures(t *testing.T) {
	m := newEvaluatorMocks(t)
	e, _ := newTestEvaluator(m, defaultSettings())

	tokyo := entity.Destination{ID: 7, City: "Tokyo", IataCode: "TYO", LowestPrice: decimal.NewFromInt(900)}
	paris := entity.Destination{ID: 8, City: "Paris", IataCode: "PAR", LowestPrice: decimal.NewFromInt(350)}
	sydney := entity.Destination{ID: 9, City: "Sydney", IataCode: "SYD", LowestPrice: decimal.NewFromInt(1200)}
	emails := []string{"ada@example.com"}

	m.destinations.On("ListDestinations", mock.Anything).Return([]entity.Destination{tokyo, paris, sydney}, nil)
	m.destinations.On("ListSubscriberEmails", mock.Anything).Return(emails, nil)
	m.flights.On("Search", mock.Anything, searchTo("TYO", true)).Return(nil, fmt.Errorf("%w: status 429", entity.ErrTransport)).Once()
	m.flights.On("Search", mock.Anything, searchTo("PAR", true)).Return([]entity.FlightOffer{parisOffer("200.00", 1)}, nil).Once()
	m.flights.On("Search", mock.Anything, searchTo("SYD", true)).Return([]entity.FlightOffer{parisOffer("1100.00", 2)}, nil).Once()
	m.notifications.On("Send", mock.Anything, emails, mock.Anything).Return(errors.New("quota exceeded")).Once()
	m.notifications.On("Send", mock.Anything, emails, mock.Anything).Return(nil).Once()
	m.dealChecks.On("Save", mock.Anything, checkWithStatus(entity.CheckSearchFailed)).Return(errors.New("mongo down")).Once()
	m.dealChecks.On("Save", mock.Anything, checkWithStatus(entity.CheckNotifyFailed)).Return(nil).Once()
	m.dealChecks.On("Save", mock.Anything, checkWithStatus(entity.CheckNotified)).Return(nil).Once()

	summary, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Checked)
	assert.Equal(t, map[string]int{
		entity.CheckSearchFailed: 1,
		entity.CheckNotifyFailed: 1,
		entity.CheckNotified:     1,
	}, summary.Outcomes)
}

func TestDealEvaluator_Run_NoSubscribers(t *testing.T) {
	m := newEvaluatorMocks(t)
	e, mtr := newTestEvaluator(m, defaultSettings())

	paris := entity.Destination{ID: 2, City: "Paris", IataCode: "PAR", LowestPrice: decimal.NewFromInt(350)}

	m.destinations.On("ListDestinations", mock.Anything).Return([]entity.Destination{paris}, nil)
	m.destinations.On("ListSubscriberEmails", mock.Anything).Return(nil, errors.New("users sheet missing"))
	m.flights.On("Search", mock.Anything, searchTo("PAR", true)).Return([]entity.FlightOffer{parisOffer("100.00", 1)}, nil).Once()
	m.dealChecks.On("Save", mock.Anything, checkWithStatus(entity.CheckNoSubscribers)).Return(nil).Once()

	_, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(mtr.DealsFound))
	assert.Equal(t, 0.0, testutil.ToFloat64(mtr.NotificationsSent))
	m.notifications.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestDealEvaluator_Run_HomeAirport(t *testing.T) {
	t.Run("looked_up_from_home_city", func(t *testing.T) {
		m := newEvaluatorMocks(t)
		settings := defaultSettings()
		settings.HomeIata = ""
		settings.HomeCity = "London"
		settings.HomeCountry = "GB"
		e, _ := newTestEvaluator(m, settings)

		m.destinations.On("ListDestinations", mock.Anything).Return([]entity.Destination{}, nil)
		m.destinations.On("ListSubscriberEmails", mock.Anything).Return([]string{}, nil)
		m.cityCodes.On("LookupIata", mock.Anything, "London", "GB").Return("LON", nil).Once()

		summary, err := e.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, summary.Checked)
	})

	t.Run("lookup_failure_aborts_run", func(t *testing.T) {
		m := newEvaluatorMocks(t)
		settings := defaultSettings()
		settings.HomeIata = ""
		settings.HomeCity = "London"
		e, _ := newTestEvaluator(m, settings)

		m.destinations.On("ListDestinations", mock.Anything).Return([]entity.Destination{{ID: 2, City: "Paris", IataCode: "PAR"}}, nil)
		m.destinations.On("ListSubscriberEmails", mock.Anything).Return([]string{}, nil)
		m.cityCodes.On("LookupIata", mock.Anything, "London", "").Return("", fmt.Errorf("%w: status 401", entity.ErrTransport)).Once()

		_, err := e.Run(context.Background())
		assert.ErrorIs(t, err, entity.ErrTransport)
		m.flights.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})
}

func TestDealEvaluator_Run_DestinationsUnavailable(t *testing.T) {
	m := newEvaluatorMocks(t)
	e, mtr := newTestEvaluator(m, defaultSettings())

	m.destinations.On("ListDestinations", mock.Anything).Return(nil, fmt.Errorf("%w: status 503", entity.ErrTransport))

	_, err := e.Run(context.Background())
	assert.ErrorIs(t, err, entity.ErrTransport)
	assert.Equal(t, 1.0, testutil.ToFloat64(mtr.ErrorsCount.WithLabelValues("list_destinations")))
}

func TestDealEvaluator_Run_StopsOnCancelledContext(t *testing.T) {
	m := newEvaluatorMocks(t)
	e, _ := newTestEvaluator(m, defaultSettings())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m.destinations.On("ListDestinations", mock.Anything).Return([]entity.Destination{{ID: 2, City: "Paris", IataCode: "PAR"}}, nil)
	m.destinations.On("ListSubscriberEmails", mock.Anything).Return([]string{}, nil)

	summary, err := e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Checked)
}

func TestDealEvaluator_Run_WithoutHistory(t *testing.T) {
	m := newEvaluatorMocks(t)
	log := logger.NewNopLogger()
	e := NewDealEvaluator(m.destinations, m.cityCodes, NewFlightResolver(m.flights, log), m.notifications, nil,
		metrics.NewMetrics("test", prometheus.NewRegistry()), log, defaultSettings())
	e.now = func() time.Time { return evaluatorNow }

	m.destinations.On("ListDestinations", mock.Anything).Return([]entity.Destination{{ID: 2, City: "Paris", IataCode: "PAR", LowestPrice: decimal.NewFromInt(1)}}, nil)
	m.destinations.On("ListSubscriberEmails", mock.Anything).Return([]string{}, nil)
	m.flights.On("Search", mock.Anything, searchTo("PAR", true)).Return([]entity.FlightOffer{parisOffer("100.00", 1)}, nil).Once()

	summary, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Outcomes[entity.CheckAboveThreshold])
}
