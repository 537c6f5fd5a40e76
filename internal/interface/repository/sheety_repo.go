package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"flightdeal-service/internal/domain/entity"
	"flightdeal-service/internal/domain/repository"
	"flightdeal-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// Sheety wraps each sheet in a root key named after it
const (
	sheetyDealsKey  = "deals"
	sheetyDealKey   = "deal"
	sheetyUsersKey  = "users"
	sheetyEmailKey  = "what'sYourEmailAddress?"
	sheetyEmailAlt  = "email"
	sheetyErrorBody = 512
)

// SheetyDestinationRepository reads the watchlist through the Sheety REST API
type SheetyDestinationRepository struct {
	httpClient  *http.Client
	logger      logger.Logger
	dealsURL    string
	usersURL    string
	bearerToken string
}

// NewSheetyDestinationRepository creates a new Sheety-backed destination store
func NewSheetyDestinationRepository(httpClient *http.Client, dealsURL, usersURL, bearerToken string, logger logger.Logger) repository.DestinationRepository {
	return &SheetyDestinationRepository{
		httpClient:  httpClient,
		logger:      logger,
		dealsURL:    strings.TrimRight(dealsURL, "/"),
		usersURL:    strings.TrimRight(usersURL, "/"),
		bearerToken: bearerToken,
	}
}

type sheetyDeal struct {
	ID          int         `json:"id"`
	City        string      `json:"city"`
	Country     string      `json:"country"`
	IataCode    string      `json:"iataCode"`
	LowestPrice interface{} `json:"lowestPrice"`
}

// ListDestinations returns every watchlist row with a usable threshold
func (r *SheetyDestinationRepository) ListDestinations(ctx context.Context) ([]entity.Destination, error) {
	var response map[string][]sheetyDeal
	if err := r.do(ctx, http.MethodGet, r.dealsURL, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch destinations: %w", err)
	}

	rows, ok := response[sheetyDealsKey]
	if !ok {
		return nil, fmt.Errorf("%w: sheety response has no %q key", entity.ErrDataShape, sheetyDealsKey)
	}

	destinations := make([]entity.Destination, 0, len(rows))
	for _, row := range rows {
		price, err := parseThreshold(row.LowestPrice)
		if err != nil {
			r.logger.Warn("Skipping destination with invalid lowest price",
				"id", row.ID, "city", row.City, "error", err)
			continue
		}

		destinations = append(destinations, entity.Destination{
			ID:          row.ID,
			City:        strings.TrimSpace(row.City),
			Country:     strings.TrimSpace(row.Country),
			IataCode:    strings.ToUpper(strings.TrimSpace(row.IataCode)),
			LowestPrice: price,
		})
	}

	return destinations, nil
}

// ListSubscriberEmails returns the addresses collected by the signup form
func (r *SheetyDestinationRepository) ListSubscriberEmails(ctx context.Context) ([]string, error) {
	var response map[string][]map[string]interface{}
	if err := r.do(ctx, http.MethodGet, r.usersURL, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch subscribers: %w", err)
	}

	rows, ok := response[sheetyUsersKey]
	if !ok {
		return nil, fmt.Errorf("%w: sheety response has no %q key", entity.ErrDataShape, sheetyUsersKey)
	}

	emails := make([]string, 0, len(rows))
	for _, row := range rows {
		email, _ := row[sheetyEmailKey].(string)
		if email == "" {
			email, _ = row[sheetyEmailAlt].(string)
		}
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		emails = append(emails, email)
	}

	return emails, nil
}

// WriteIataCode stores a resolved code on the destination row
func (r *SheetyDestinationRepository) WriteIataCode(ctx context.Context, destinationID int, code string) error {
	body := map[string]interface{}{
		sheetyDealKey: map[string]string{
			"iataCode": code,
		},
	}

	url := fmt.Sprintf("%s/%d", r.dealsURL, destinationID)
	if err := r.do(ctx, http.MethodPut, url, body, nil); err != nil {
		return fmt.Errorf("failed to update IATA code for row %d: %w", destinationID, err)
	}

	return nil
}

func (r *SheetyDestinationRepository) do(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if r.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+r.bearerToken)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, sheetyErrorBody))
		return fmt.Errorf("%w: sheety returned status %d: %s", entity.ErrTransport, resp.StatusCode, strings.TrimSpace(string(errorBody)))
	}

	if out == nil {
		return nil
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode sheety response: %v", entity.ErrDataShape, err)
	}

	return nil
}

// parseThreshold accepts the number or text a spreadsheet cell may hold
func parseThreshold(v interface{}) (decimal.Decimal, error) {
	switch value := v.(type) {
	case json.Number:
		return decimal.NewFromString(value.String())
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
		if cleaned == "" {
			return decimal.Zero, fmt.Errorf("empty value")
		}
		return decimal.NewFromString(cleaned)
	case float64:
		return decimal.NewFromFloat(value), nil
	case nil:
		return decimal.Zero, fmt.Errorf("missing value")
	default:
		return decimal.Zero, fmt.Errorf("unsupported value %v", value)
	}
}
