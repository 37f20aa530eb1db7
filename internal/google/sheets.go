package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"eventdesk/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	contactSheetName = "ContactRequests"
	quoteSheetName   = "QuoteRequests"
)

var errRowNotFound = errors.New("request row not found")

// SheetsService mirrors request rows into one back-office spreadsheet with a
// sheet per request kind. Row positions are cached per "{kind}:{id}" key so
// status updates don't rescan the ID column on every task.
type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
	rowCache      map[string]int
	cacheMu       sync.RWMutex
}

func NewSheetsService(credentialsFile, spreadsheetID string) (*SheetsService, error) {
	ctx := context.Background()

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	service := &SheetsService{
		service:       srv,
		spreadsheetID: spreadsheetID,
		rowCache:      make(map[string]int),
	}

	// Periodic cache reset so renumbered rows can't go stale forever.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			service.ClearCache()
		}
	}()

	return service, nil
}

// TestConnection проверяет подключение к таблице
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, contactSheetName+"!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// GetServiceAccountEmail возвращает email сервисного аккаунта
func GetServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}
	return creds.ClientEmail, nil
}

func sheetForType(requestType string) string {
	if requestType == models.RequestTypeQuote {
		return quoteSheetName
	}
	return contactSheetName
}

// AppendContactRequest добавляет заявку контактной формы
func (s *SheetsService) AppendContactRequest(ctx context.Context, req *models.ContactRequest) error {
	if req == nil {
		return fmt.Errorf("request is nil")
	}
	return s.appendRow(ctx, contactSheetName, contactRowValues(req))
}

// AppendQuoteRequest добавляет заявку на расчет
func (s *SheetsService) AppendQuoteRequest(ctx context.Context, req *models.QuoteRequest) error {
	if req == nil {
		return fmt.Errorf("request is nil")
	}
	return s.appendRow(ctx, quoteSheetName, quoteRowValues(req))
}

func (s *SheetsService) appendRow(ctx context.Context, sheetName string, row []interface{}) error {
	valueRange := &sheets.ValueRange{Values: [][]interface{}{row}}
	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, sheetName+"!A:A", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// UpdateRequestStatus updates status (and UpdatedAt) for a request row.
func (s *SheetsService) UpdateRequestStatus(ctx context.Context, requestType, requestID, status string) error {
	sheetName := sheetForType(requestType)
	rowIdx, err := s.findRequestRow(ctx, sheetName, requestType, requestID)
	if err != nil {
		return err
	}

	now := time.Now().Format("2006-01-02 15:04:05")

	// status lives in column B, updated-at in column C for both sheets
	statusRange := fmt.Sprintf("%s!B%d:C%d", sheetName, rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, statusRange, &sheets.ValueRange{
		Values: [][]interface{}{{status, now}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// ReplaceRequestsSheet полностью перезаписывает оба листа
func (s *SheetsService) ReplaceRequestsSheet(ctx context.Context, contacts []models.ContactRequest, quotes []models.QuoteRequest) error {
	contactValues := [][]interface{}{contactHeader()}
	for i := range contacts {
		contactValues = append(contactValues, contactRowValues(&contacts[i]))
	}
	if err := s.replaceSheet(ctx, contactSheetName, contactValues); err != nil {
		return err
	}

	quoteValues := [][]interface{}{quoteHeader()}
	for i := range quotes {
		quoteValues = append(quoteValues, quoteRowValues(&quotes[i]))
	}
	if err := s.replaceSheet(ctx, quoteSheetName, quoteValues); err != nil {
		return err
	}

	s.ClearCache()
	return nil
}

func (s *SheetsService) replaceSheet(ctx context.Context, sheetName string, values [][]interface{}) error {
	clearRange := sheetName + "!A:Z"
	if _, err := s.service.Spreadsheets.Values.Clear(s.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return err
	}

	writeRange := fmt.Sprintf("%s!A1", sheetName)
	_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, writeRange, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// findRequestRow locates the 1-based row index for a request id in column A.
func (s *SheetsService) findRequestRow(ctx context.Context, sheetName, requestType, requestID string) (int, error) {
	if requestID == "" {
		return 0, fmt.Errorf("request id is required")
	}

	cacheKey := requestType + ":" + requestID
	if row, ok := s.getCachedRow(cacheKey); ok {
		return row, nil
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, sheetName+"!A:A").Context(ctx).Do()
	if err != nil {
		return 0, err
	}

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if v, ok := row[0].(string); ok && v == requestID {
			rowIdx := i + 1 // Values are zero-based; sheet rows are 1-based
			s.setCachedRow(cacheKey, rowIdx)
			return rowIdx, nil
		}
	}

	return 0, errRowNotFound
}

func (s *SheetsService) getCachedRow(key string) (int, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	row, ok := s.rowCache[key]
	return row, ok
}

func (s *SheetsService) setCachedRow(key string, row int) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache[key] = row
}

// ClearCache clears the row index cache.
func (s *SheetsService) ClearCache() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache = make(map[string]int)
}

func contactHeader() []interface{} {
	return []interface{}{"ID", "Status", "Updated At", "Name", "Email", "Phone", "Company", "Subject", "Message", "Event Date", "Created At"}
}

func contactRowValues(req *models.ContactRequest) []interface{} {
	return []interface{}{
		req.ID,
		req.Status,
		req.UpdatedAt.Format("2006-01-02 15:04:05"),
		req.Name,
		req.Email,
		deref(req.Phone),
		deref(req.Company),
		deref(req.Subject),
		req.Message,
		deref(req.EventDate),
		req.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func quoteHeader() []interface{} {
	return []interface{}{"ID", "Status", "Updated At", "Name", "Email", "Phone", "Event Type", "Event Date", "Location", "Guests", "Budget", "Service ID", "Message", "Created At"}
}

func quoteRowValues(req *models.QuoteRequest) []interface{} {
	var guests, budget interface{} = "", ""
	if req.GuestCount != nil {
		guests = *req.GuestCount
	}
	if req.Budget != nil {
		budget = *req.Budget
	}
	return []interface{}{
		req.ID,
		req.Status,
		req.UpdatedAt.Format("2006-01-02 15:04:05"),
		req.Name,
		req.Email,
		deref(req.Phone),
		req.EventType,
		deref(req.EventDate),
		deref(req.EventLocation),
		guests,
		budget,
		deref(req.ServiceID),
		deref(req.Message),
		req.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
