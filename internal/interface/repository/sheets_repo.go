package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"flightdeal-service/internal/domain/entity"
	"flightdeal-service/internal/domain/repository"
	"flightdeal-service/pkg/logger"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Watchlist columns, in sheet order: City | IATA Code | Lowest Price | Country
const (
	sheetsCityCol     = 0
	sheetsIataCol     = 1
	sheetsPriceCol    = 2
	sheetsCountryCol  = 3
	sheetsIataLetter  = "B"
	sheetsInputOption = "RAW"
)

// SheetsDestinationRepository reads the watchlist straight from the Google
// Sheets API. A destination's ID is its sheet row number.
type SheetsDestinationRepository struct {
	service       *sheets.Service
	logger        logger.Logger
	spreadsheetID string
	dealsRange    string
	usersRange    string
	dealsSheet    string
	firstDealRow  int
}

// NewSheetsDestinationRepository creates a new Google Sheets destination store.
// dealsRange must be in A1 notation with an explicit sheet and start row,
// e.g. "deals!A2:D".
func NewSheetsDestinationRepository(ctx context.Context, spreadsheetID, dealsRange, usersRange string, logger logger.Logger, opts ...option.ClientOption) (repository.DestinationRepository, error) {
	sheet, firstRow, err := parseA1Start(dealsRange)
	if err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	return &SheetsDestinationRepository{
		service:       service,
		logger:        logger,
		spreadsheetID: spreadsheetID,
		dealsRange:    dealsRange,
		usersRange:    usersRange,
		dealsSheet:    sheet,
		firstDealRow:  firstRow,
	}, nil
}

// ListDestinations returns every watchlist row with a city and a usable threshold
func (r *SheetsDestinationRepository) ListDestinations(ctx context.Context) ([]entity.Destination, error) {
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, r.dealsRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", entity.ErrTransport, r.dealsRange, err)
	}

	destinations := make([]entity.Destination, 0, len(resp.Values))
	for i, row := range resp.Values {
		rowNumber := r.firstDealRow + i

		city := cellString(row, sheetsCityCol)
		if city == "" {
			continue
		}

		var price interface{}
		if len(row) > sheetsPriceCol {
			price = row[sheetsPriceCol]
		}
		threshold, err := parseThreshold(price)
		if err != nil {
			r.logger.Warn("Skipping destination with invalid lowest price",
				"row", rowNumber, "city", city, "error", err)
			continue
		}

		destinations = append(destinations, entity.Destination{
			ID:          rowNumber,
			City:        city,
			Country:     cellString(row, sheetsCountryCol),
			IataCode:    strings.ToUpper(cellString(row, sheetsIataCol)),
			LowestPrice: threshold,
		})
	}

	return destinations, nil
}

// ListSubscriberEmails returns the first column of the users range
func (r *SheetsDestinationRepository) ListSubscriberEmails(ctx context.Context) ([]string, error) {
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, r.usersRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", entity.ErrTransport, r.usersRange, err)
	}

	emails := make([]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		if email := cellString(row, 0); email != "" {
			emails = append(emails, email)
		}
	}

	return emails, nil
}

// WriteIataCode stores a resolved code in the IATA column of the destination row
func (r *SheetsDestinationRepository) WriteIataCode(ctx context.Context, destinationID int, code string) error {
	cell := fmt.Sprintf("%s!%s%d", r.dealsSheet, sheetsIataLetter, destinationID)
	value := &sheets.ValueRange{
		Values: [][]interface{}{{code}},
	}

	_, err := r.service.Spreadsheets.Values.Update(r.spreadsheetID, cell, value).
		ValueInputOption(sheetsInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: failed to update %s: %v", entity.ErrTransport, cell, err)
	}

	return nil
}

func cellString(row []interface{}, col int) string {
	if col >= len(row) || row[col] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[col]))
}

// parseA1Start splits "sheet!A2:D" into the sheet name and the first row
func parseA1Start(a1 string) (string, int, error) {
	sheet, cells, ok := strings.Cut(a1, "!")
	if !ok || sheet == "" {
		return "", 0, fmt.Errorf("range %q must name a sheet", a1)
	}

	start, _, _ := strings.Cut(cells, ":")
	digits := strings.TrimLeft(start, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 {
		return "", 0, fmt.Errorf("range %q must start at an explicit row", a1)
	}

	return sheet, row, nil
}
