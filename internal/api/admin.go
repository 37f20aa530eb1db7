package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"eventdesk/internal/models"
	"eventdesk/internal/validation"

	"github.com/xuri/excelize/v2"
)

func (s *HTTPServer) handleAdminRequests(w http.ResponseWriter, r *http.Request, _ *models.User) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
		return
	}

	q := r.URL.Query()
	requests, err := s.requests.ListRequests(r.Context(),
		strings.TrimSpace(q.Get("kind")),
		strings.TrimSpace(q.Get("status")),
		strings.TrimSpace(q.Get("q")))
	if err != nil {
		writeStoreError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

// handleAdminRequestStatus moderates a single request:
// PATCH /api/v1/admin/requests/{type}/{id}.
func (s *HTTPServer) handleAdminRequestStatus(w http.ResponseWriter, r *http.Request, _ *models.User) {
	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/admin/requests/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeNotFound(w)
		return
	}
	requestType, id := parts[0], parts[1]

	if !models.IsKnownRequestType(requestType) {
		writeNotFound(w)
		return
	}

	var in validation.StatusUpdateInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if fields := s.validator.Check(&in); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	ref, err := s.requests.UpdateStatus(r.Context(), requestType, id, in.Status)
	if err != nil {
		writeStoreError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"request": ref})
}

var (
	contactExportHeader = []string{
		"ID", "Name", "Email", "Phone", "Company", "Subject",
		"Message", "Event date", "Status", "Created at",
	}
	quoteExportHeader = []string{
		"ID", "Name", "Email", "Phone", "Event type", "Event date",
		"Location", "Guests", "Budget", "Message", "Status", "Created at",
	}
)

// handleAdminExport streams the full request backlog as an xlsx workbook,
// one sheet per request kind.
func (s *HTTPServer) handleAdminExport(w http.ResponseWriter, r *http.Request, _ *models.User) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
		return
	}

	contacts, quotes, err := s.requests.ExportRequests(r.Context())
	if err != nil {
		writeStoreError(w, s.logger, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeContactSheet(f, contacts); err != nil {
		s.logger.Error().Err(err).Msg("Export workbook build failed")
		writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
		return
	}
	if err := writeQuoteSheet(f, quotes); err != nil {
		s.logger.Error().Err(err).Msg("Export workbook build failed")
		writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
		return
	}
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("requests_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

	if err := f.Write(w); err != nil {
		s.logger.Error().Err(err).Msg("Export write failed")
	}
}

func writeContactSheet(f *excelize.File, contacts []models.ContactRequest) error {
	const sheet = "Contact requests"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	for i, header := range contactExportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}

	for i, req := range contacts {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), req.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), req.Name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), req.Email)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), strOrEmpty(req.Phone))
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), strOrEmpty(req.Company))
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), strOrEmpty(req.Subject))
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), req.Message)
		_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", row), strOrEmpty(req.EventDate))
		_ = f.SetCellValue(sheet, fmt.Sprintf("I%d", row), models.StatusLabel(req.Status))
		_ = f.SetCellValue(sheet, fmt.Sprintf("J%d", row), req.CreatedAt.Format("2006-01-02 15:04"))
	}

	_ = f.SetColWidth(sheet, "A", "A", 38)
	_ = f.SetColWidth(sheet, "B", "F", 22)
	_ = f.SetColWidth(sheet, "G", "G", 50)
	_ = f.SetColWidth(sheet, "H", "J", 18)
	return nil
}

func writeQuoteSheet(f *excelize.File, quotes []models.QuoteRequest) error {
	const sheet = "Quote requests"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	for i, header := range quoteExportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}

	for i, req := range quotes {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), req.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), req.Name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), req.Email)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), strOrEmpty(req.Phone))
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), req.EventType)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), strOrEmpty(req.EventDate))
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), strOrEmpty(req.EventLocation))
		if req.GuestCount != nil {
			_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", row), *req.GuestCount)
		}
		if req.Budget != nil {
			_ = f.SetCellValue(sheet, fmt.Sprintf("I%d", row), *req.Budget)
		}
		_ = f.SetCellValue(sheet, fmt.Sprintf("J%d", row), strOrEmpty(req.Message))
		_ = f.SetCellValue(sheet, fmt.Sprintf("K%d", row), models.StatusLabel(req.Status))
		_ = f.SetCellValue(sheet, fmt.Sprintf("L%d", row), req.CreatedAt.Format("2006-01-02 15:04"))
	}

	_ = f.SetColWidth(sheet, "A", "A", 38)
	_ = f.SetColWidth(sheet, "B", "G", 22)
	_ = f.SetColWidth(sheet, "H", "I", 12)
	_ = f.SetColWidth(sheet, "J", "J", 50)
	_ = f.SetColWidth(sheet, "K", "L", 18)
	return nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *HTTPServer) handleAdminSettings(w http.ResponseWriter, r *http.Request, _ *models.User) {
	switch r.Method {
	case http.MethodGet:
		settings, err := s.settings.Get(r.Context())
		if err != nil {
			writeStoreError(w, s.logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]interface{}{"settings": settings})

	case http.MethodPut:
		var in validation.SettingsInput
		if !decodeJSON(w, r, &in) {
			return
		}
		in.Normalize()
		if fields := s.validator.Check(&in); fields != nil {
			writeFieldErrors(w, fields)
			return
		}

		settings := in.ToModel()
		if err := s.settings.Update(r.Context(), settings); err != nil {
			writeStoreError(w, s.logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]interface{}{"settings": settings})

	default:
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
	}
}

func (s *HTTPServer) handleAdminUsers(w http.ResponseWriter, r *http.Request, _ *models.User) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
		return
	}

	users, err := s.auth.ListUsers(r.Context())
	if err != nil {
		writeStoreError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"users": users})
}

// handleAdminUserRole changes a user's role:
// PATCH /api/v1/admin/users/{id}.
func (s *HTTPServer) handleAdminUserRole(w http.ResponseWriter, r *http.Request, _ *models.User) {
	if r.Method != http.MethodPatch {
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/admin/users/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeNotFound(w)
		return
	}

	var in validation.RoleUpdateInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if fields := s.validator.Check(&in); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	if err := s.auth.UpdateUserRole(r.Context(), id, in.Role); err != nil {
		writeStoreError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"message": "role updated"})
}

func (s *HTTPServer) handleAdminEvents(w http.ResponseWriter, r *http.Request, _ *models.User) {
	switch r.Method {
	case http.MethodGet:
		events, err := s.catalog.ListAllEvents(r.Context())
		if err != nil {
			writeStoreError(w, s.logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]interface{}{"events": events})

	case http.MethodPost:
		var in validation.EventInput
		if !decodeJSON(w, r, &in) {
			return
		}
		in.Normalize()
		if fields := s.validator.Check(&in); fields != nil {
			writeFieldErrors(w, fields)
			return
		}

		event := in.ToModel()
		if err := s.catalog.CreateEvent(r.Context(), event); err != nil {
			writeStoreError(w, s.logger, err)
			return
		}
		writeData(w, http.StatusCreated, map[string]interface{}{"event": event})

	default:
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
	}
}

// handleAdminEvent serves GET/PUT/DELETE /api/v1/admin/events/{id}.
func (s *HTTPServer) handleAdminEvent(w http.ResponseWriter, r *http.Request, _ *models.User) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/admin/events/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeNotFound(w)
		return
	}

	switch r.Method {
	case http.MethodGet:
		event, err := s.catalog.GetEvent(r.Context(), id)
		if err != nil {
			writeStoreError(w, s.logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]interface{}{"event": event})

	case http.MethodPut:
		var in validation.EventInput
		if !decodeJSON(w, r, &in) {
			return
		}
		in.Normalize()
		if fields := s.validator.Check(&in); fields != nil {
			writeFieldErrors(w, fields)
			return
		}

		event := in.ToModel()
		event.ID = id
		if err := s.catalog.UpdateEvent(r.Context(), event); err != nil {
			writeStoreError(w, s.logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]interface{}{"event": event})

	case http.MethodDelete:
		if err := s.catalog.DeleteEvent(r.Context(), id); err != nil {
			writeStoreError(w, s.logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]interface{}{"message": "event deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
	}
}

func (s *HTTPServer) handleAdminServices(w http.ResponseWriter, r *http.Request, _ *models.User) {
	switch r.Method {
	case http.MethodGet:
		services, err := s.catalog.ListAllServices(r.Context())
		if err != nil {
			writeStoreError(w, s.logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]interface{}{"services": services})

	case http.MethodPost:
		var in validation.ServiceInput
		if !decodeJSON(w, r, &in) {
			return
		}
		in.Normalize()
		if fields := s.validator.Check(&in); fields != nil {
			writeFieldErrors(w, fields)
			return
		}

		svc := in.ToModel()
		if err := s.catalog.CreateService(r.Context(), svc); err != nil {
			writeStoreError(w, s.logger, err)
			return
		}
		writeData(w, http.StatusCreated, map[string]interface{}{"service": svc})

	default:
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
	}
}

// handleAdminService serves GET/PUT/DELETE /api/v1/admin/services/{id}.
func (s *HTTPServer) handleAdminService(w http.ResponseWriter, r *http.Request, _ *models.User) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/admin/services/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeNotFound(w)
		return
	}

	switch r.Method {
	case http.MethodGet:
		svc, err := s.catalog.GetService(r.Context(), id)
		if err != nil {
			writeStoreError(w, s.logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]interface{}{"service": svc})

	case http.MethodPut:
		var in validation.ServiceInput
		if !decodeJSON(w, r, &in) {
			return
		}
		in.Normalize()
		if fields := s.validator.Check(&in); fields != nil {
			writeFieldErrors(w, fields)
			return
		}

		svc := in.ToModel()
		svc.ID = id
		if err := s.catalog.UpdateService(r.Context(), svc); err != nil {
			writeStoreError(w, s.logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]interface{}{"service": svc})

	case http.MethodDelete:
		if err := s.catalog.DeleteService(r.Context(), id); err != nil {
			writeStoreError(w, s.logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]interface{}{"message": "service deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
	}
}
