package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"flightdeal-service/internal/domain/entity"
	"flightdeal-service/pkg/logger"

	"golang.org/x/time/rate"
)

const (
	amadeusCitySearchPath   = "/v1/reference-data/locations/cities"
	amadeusFlightOffersPath = "/v2/shopping/flight-offers"
	amadeusCitySearchMax    = 10
	amadeusIncludeAirports  = "AIRPORTS"
)

// AmadeusRepository talks to the Amadeus Self-Service API. It serves both
// city code lookups and flight offer searches. The HTTP client is expected to
// carry the OAuth token (see oauth.NewAmadeusClient).
type AmadeusRepository struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logger.Logger
	baseURL    string
	maxOffers  int
}

// NewAmadeusRepository creates a new Amadeus client allowing rps requests per
// second. A non-positive rps disables throttling.
func NewAmadeusRepository(httpClient *http.Client, baseURL string, maxOffers int, rps float64, logger logger.Logger) *AmadeusRepository {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	return &AmadeusRepository{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxOffers:  maxOffers,
	}
}

type amadeusLocation struct {
	Type     string `json:"type"`
	SubType  string `json:"subType"`
	Name     string `json:"name"`
	IataCode string `json:"iataCode"`
}

type amadeusCityResponse struct {
	Data []amadeusLocation `json:"data"`
}

type amadeusOffersResponse struct {
	Data *[]entity.FlightOffer `json:"data"`
}

type amadeusErrorResponse struct {
	Errors []struct {
		Status int    `json:"status"`
		Code   int    `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// LookupIata returns the IATA code of the first city matching the name,
// optionally restricted to an ISO country code.
func (r *AmadeusRepository) LookupIata(ctx context.Context, city, country string) (string, error) {
	query := url.Values{}
	query.Set("keyword", city)
	query.Set("max", strconv.Itoa(amadeusCitySearchMax))
	query.Set("include", amadeusIncludeAirports)
	if country != "" {
		query.Set("countryCode", strings.ToUpper(country))
	}

	var response amadeusCityResponse
	if err := r.get(ctx, amadeusCitySearchPath, query, &response); err != nil {
		return "", fmt.Errorf("city search %q: %w", city, err)
	}

	if len(response.Data) == 0 {
		return "", fmt.Errorf("%w: no city matches %q", entity.ErrNotFound, city)
	}

	code := response.Data[0].IataCode
	if code == "" {
		return "", fmt.Errorf("%w: city %q has no iataCode", entity.ErrDataShape, city)
	}

	r.logger.Debug("City code resolved", "city", city, "country", country, "iataCode", code)
	return code, nil
}

// Search returns the round-trip offers matching params
func (r *AmadeusRepository) Search(ctx context.Context, params entity.SearchParams) ([]entity.FlightOffer, error) {
	query := url.Values{}
	query.Set("originLocationCode", params.OriginIata)
	query.Set("destinationLocationCode", params.DestinationIata)
	query.Set("departureDate", params.DepartureDate)
	query.Set("returnDate", params.ReturnDate)
	query.Set("adults", strconv.Itoa(params.Adults))
	query.Set("nonStop", strconv.FormatBool(params.DirectOnly))
	query.Set("currencyCode", params.Currency)
	if r.maxOffers > 0 {
		query.Set("max", strconv.Itoa(r.maxOffers))
	}

	var response amadeusOffersResponse
	if err := r.get(ctx, amadeusFlightOffersPath, query, &response); err != nil {
		return nil, fmt.Errorf("flight offers: %w", err)
	}

	if response.Data == nil {
		return nil, fmt.Errorf("%w: flight offers response has no data", entity.ErrDataShape)
	}

	r.logger.Debug("Flight offers received",
		"origin", params.OriginIata,
		"destination", params.DestinationIata,
		"directOnly", params.DirectOnly,
		"count", len(*response.Data))

	return *response.Data, nil
}

func (r *AmadeusRepository) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", entity.ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: amadeus returned status %d: %s", entity.ErrTransport, resp.StatusCode, amadeusErrorDetail(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", entity.ErrDataShape, err)
	}

	return nil
}

func amadeusErrorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "empty body"
	}

	var parsed amadeusErrorResponse
	if err := json.Unmarshal(raw, &parsed); err != nil || len(parsed.Errors) == 0 {
		return strings.TrimSpace(string(raw))
	}

	details := make([]string, 0, len(parsed.Errors))
	for _, e := range parsed.Errors {
		details = append(details, strings.TrimSpace(e.Title+" "+e.Detail))
	}
	return strings.Join(details, "; ")
}
