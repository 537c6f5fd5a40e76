package usecase

import (
	"context"
	"fmt"
	"time"

	"flightdeal-service/internal/domain/entity"
	"flightdeal-service/internal/domain/repository"
	"flightdeal-service/pkg/logger"
	"flightdeal-service/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EvaluatorSettings holds the search values shared by every destination
type EvaluatorSettings struct {
	HomeIata    string
	HomeCity    string
	HomeCountry string
	Adults      int
	Currency    string
	WindowDays  int
}

// RunSummary counts destination outcomes of one run
type RunSummary struct {
	RunID    string
	Checked  int
	Notified int
	Outcomes map[string]int
}

func (s *RunSummary) add(status string) {
	s.Checked++
	s.Outcomes[status]++
	if status == entity.CheckNotified {
		s.Notified++
	}
}

// DealEvaluator walks the watchlist and alerts subscribers about cheap flights
type DealEvaluator struct {
	destinationRepo  repository.DestinationRepository
	cityCodeRepo     repository.CityCodeRepository
	resolver         *FlightResolver
	notificationRepo repository.NotificationRepository
	dealCheckRepo    repository.DealCheckRepository
	metrics          *metrics.Metrics
	logger           logger.Logger
	settings         EvaluatorSettings
	now              func() time.Time
}

// NewDealEvaluator creates a new deal evaluator. dealCheckRepo may be nil.
func NewDealEvaluator(
	destinationRepo repository.DestinationRepository,
	cityCodeRepo repository.CityCodeRepository,
	resolver *FlightResolver,
	notificationRepo repository.NotificationRepository,
	dealCheckRepo repository.DealCheckRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
	settings EvaluatorSettings,
) *DealEvaluator {
	return &DealEvaluator{
		destinationRepo:  destinationRepo,
		cityCodeRepo:     cityCodeRepo,
		resolver:         resolver,
		notificationRepo: notificationRepo,
		dealCheckRepo:    dealCheckRepo,
		metrics:          metrics,
		logger:           logger,
		settings:         settings,
		now:              time.Now,
	}
}

// Run checks every destination once. It only fails when the run cannot start;
// problems with a single destination are logged, recorded and skipped.
func (e *DealEvaluator) Run(ctx context.Context) (RunSummary, error) {
	summary := RunSummary{
		RunID:    uuid.NewString(),
		Outcomes: make(map[string]int),
	}
	log := e.logger.With("runID", summary.RunID)

	start := e.now()
	e.metrics.RunsTotal.Inc()
	defer func() {
		e.metrics.RunDuration.Observe(e.now().Sub(start).Seconds())
	}()

	log.Info("Starting deal check")

	destinations, err := e.destinationRepo.ListDestinations(ctx)
	if err != nil {
		e.metrics.ErrorsCount.WithLabelValues("list_destinations").Inc()
		return summary, fmt.Errorf("failed to read destinations: %w", err)
	}
	log.Info("Received destinations", "count", len(destinations))

	recipients, err := e.destinationRepo.ListSubscriberEmails(ctx)
	if err != nil {
		e.metrics.ErrorsCount.WithLabelValues("list_subscribers").Inc()
		log.Error("Failed to read subscriber emails", "error", err)
		recipients = nil
	}
	log.Info("Received subscribers", "count", len(recipients))

	homeIata, err := e.homeIata(ctx)
	if err != nil {
		e.metrics.ErrorsCount.WithLabelValues("home_iata").Inc()
		return summary, fmt.Errorf("failed to resolve home airport: %w", err)
	}
	log.Info("Home airport resolved", "iataCode", homeIata)

	template := entity.SearchTemplate{
		OriginIata: homeIata,
		Adults:     e.settings.Adults,
		Currency:   e.settings.Currency,
		WindowDays: e.settings.WindowDays,
	}

	for _, destination := range destinations {
		if err := ctx.Err(); err != nil {
			log.Warn("Deal check interrupted", "checked", summary.Checked, "error", err)
			return summary, err
		}

		check := e.evaluate(ctx, log.With("city", destination.City), summary.RunID, destination, template, recipients)
		summary.add(check.Status)
		e.metrics.DestinationsChecked.WithLabelValues(check.Status).Inc()
		e.record(ctx, log, check)
	}

	log.Info("Deal check completed",
		"checked", summary.Checked,
		"notified", summary.Notified,
		"outcomes", summary.Outcomes)

	return summary, nil
}

// evaluate drives one destination from code resolution to notification
func (e *DealEvaluator) evaluate(ctx context.Context, log logger.Logger, runID string, destination entity.Destination, template entity.SearchTemplate, recipients []string) *entity.DealCheck {
	check := &entity.DealCheck{
		RunID:         runID,
		DestinationID: destination.ID,
		City:          destination.City,
		IataCode:      destination.IataCode,
		Threshold:     destination.LowestPrice.String(),
		CheckedAt:     e.now(),
	}

	if destination.NeedsIata() {
		code, err := e.resolveIata(ctx, log, destination)
		if err != nil {
			log.Warn("Skipping destination without IATA code", "error", err)
			check.Status = entity.CheckMissingIata
			check.ErrorDetail = err.Error()
			return check
		}
		destination.IataCode = code
		check.IataCode = code
	}

	log.Info("Getting flight data", "iataCode", destination.IataCode)
	params := template.ForDestination(destination.IataCode, e.now())

	offers, err := e.resolver.Resolve(ctx, params)
	if err != nil {
		e.metrics.ErrorsCount.WithLabelValues("flight_search").Inc()
		check.Status = entity.CheckSearchFailed
		check.ErrorDetail = err.Error()
		return check
	}

	cheapest := SelectCheapestFlight(offers, log)
	log.Info("Cheapest flight found",
		"price", cheapest.Price,
		"currency", cheapest.Currency,
		"stops", cheapest.Stops,
		"offers", len(offers))

	if !cheapest.Found() {
		check.Status = entity.CheckNoFlights
		return check
	}

	check.Price = cheapest.Price
	check.Currency = cheapest.Currency
	check.Stops = cheapest.Stops
	check.OutDate = DateOnly(cheapest.OutDate)
	check.ReturnDate = DateOnly(cheapest.ReturnDate)

	price, err := decimal.NewFromString(cheapest.Price)
	if err != nil {
		check.Status = entity.CheckNoFlights
		check.ErrorDetail = err.Error()
		return check
	}

	if !price.LessThan(destination.LowestPrice) {
		log.Info("Flight above threshold", "price", price.String(), "threshold", destination.LowestPrice.String())
		check.Status = entity.CheckAboveThreshold
		return check
	}

	e.metrics.DealsFound.Inc()
	if len(recipients) == 0 {
		log.Warn("Deal found but there are no subscribers", "price", price.String())
		check.Status = entity.CheckNoSubscribers
		return check
	}

	msg := FormatDealMessage(cheapest)
	log.Info("Flight meets criteria, sending notification", "recipients", len(recipients))

	check.Recipients = len(recipients)
	if err := e.notificationRepo.Send(ctx, recipients, msg); err != nil {
		e.metrics.ErrorsCount.WithLabelValues("notify").Inc()
		log.Error("Failed to send deal notification", "error", err)
		check.Status = entity.CheckNotifyFailed
		check.ErrorDetail = err.Error()
		return check
	}

	e.metrics.NotificationsSent.Inc()
	check.Status = entity.CheckNotified
	return check
}

// resolveIata looks up a missing code and writes it back to the store. A
// failed write only means the lookup repeats next run.
func (e *DealEvaluator) resolveIata(ctx context.Context, log logger.Logger, destination entity.Destination) (string, error) {
	code, err := e.cityCodeRepo.LookupIata(ctx, destination.City, destination.Country)
	if err != nil {
		e.metrics.ErrorsCount.WithLabelValues("lookup_iata").Inc()
		return "", err
	}

	if err := e.destinationRepo.WriteIataCode(ctx, destination.ID, code); err != nil {
		e.metrics.ErrorsCount.WithLabelValues("write_iata").Inc()
		log.Warn("Failed to store IATA code", "iataCode", code, "error", err)
	} else {
		log.Info("IATA code stored", "iataCode", code)
	}

	return code, nil
}

func (e *DealEvaluator) homeIata(ctx context.Context) (string, error) {
	if e.settings.HomeIata != "" {
		return e.settings.HomeIata, nil
	}
	return e.cityCodeRepo.LookupIata(ctx, e.settings.HomeCity, e.settings.HomeCountry)
}

func (e *DealEvaluator) record(ctx context.Context, log logger.Logger, check *entity.DealCheck) {
	if e.dealCheckRepo == nil {
		return
	}
	if err := e.dealCheckRepo.Save(ctx, check); err != nil {
		e.metrics.ErrorsCount.WithLabelValues("save_deal_check").Inc()
		log.Error("Failed to save deal check", "city", check.City, "error", err)
	}
}
