package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventdesk/internal/models"
	"eventdesk/internal/validation"
)

type requestReceipt struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *HTTPServer) handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
		return
	}
	if !s.checkIntakeLimit(r) {
		writeError(w, http.StatusTooManyRequests, CodeValidationError, "rate limit exceeded")
		return
	}

	var in validation.ContactInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Normalize()
	if fields := s.validator.Check(&in); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	user, _ := s.currentUser(r)
	var userID *string
	if user != nil {
		userID = &user.ID
	}

	req := in.ToModel(userID)
	if err := s.requests.SubmitContactRequest(r.Context(), req); err != nil {
		writeStoreError(w, s.logger, err)
		return
	}

	writeData(w, http.StatusCreated, map[string]interface{}{
		"message": "Thanks! We received your message and will get back to you soon.",
		"request": requestReceipt{ID: req.ID, Status: req.Status, CreatedAt: req.CreatedAt},
	})
}

func (s *HTTPServer) handleQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
		return
	}
	if !s.checkIntakeLimit(r) {
		writeError(w, http.StatusTooManyRequests, CodeValidationError, "rate limit exceeded")
		return
	}

	var in validation.QuoteInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Normalize()
	if fields := s.validator.Check(&in); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	user, _ := s.currentUser(r)
	var userID *string
	if user != nil {
		userID = &user.ID
	}

	req := in.ToModel(userID)
	if err := s.requests.SubmitQuoteRequest(r.Context(), req); err != nil {
		writeStoreError(w, s.logger, err)
		return
	}

	writeData(w, http.StatusCreated, map[string]interface{}{
		"message": "Thanks! We received your request and will prepare a quote.",
		"request": requestReceipt{ID: req.ID, Status: req.Status, CreatedAt: req.CreatedAt},
	})
}

func (s *HTTPServer) handlePublicEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeFieldErrors(w, map[string][]string{"limit": {"must be a positive integer"}})
			return
		}
		limit = n
	}
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	events, err := s.catalog.ListPublishedEvents(r.Context(), category, limit)
	if err != nil {
		writeStoreError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"events": events})
}

func (s *HTTPServer) handlePublicServices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
		return
	}

	services, err := s.catalog.ListActiveServices(r.Context())
	if err != nil {
		writeStoreError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"services": services})
}

func (s *HTTPServer) handlePublicSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
		return
	}

	settings, err := s.settings.Get(r.Context())
	if err != nil {
		writeStoreError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"settings": settings})
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
		return
	}

	var in validation.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Normalize()
	if fields := s.validator.Check(&in); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	user, session, err := s.auth.Register(r.Context(), in.Email, in.Name, in.Password)
	if err != nil {
		writeStoreError(w, s.logger, err)
		return
	}

	s.setSessionCookie(w, session.Token)
	writeData(w, http.StatusCreated, map[string]interface{}{"user": user})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
		return
	}

	var in validation.LoginInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Normalize()
	if fields := s.validator.Check(&in); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	user, session, err := s.auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeStoreError(w, s.logger, err)
		return
	}

	s.setSessionCookie(w, session.Token)
	writeData(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
		return
	}

	if token := s.sessionToken(r); token != "" {
		if err := s.auth.Logout(r.Context(), token); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to delete session")
		}
	}
	s.clearSessionCookie(w)
	writeData(w, http.StatusOK, map[string]interface{}{"message": "logged out"})
}

func (s *HTTPServer) handleMe(w http.ResponseWriter, r *http.Request, user *models.User) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (s *HTTPServer) handleOwnRequests(w http.ResponseWriter, r *http.Request, user *models.User) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
		return
	}

	requests, err := s.requests.ListOwnRequests(r.Context(), user.ID)
	if err != nil {
		writeStoreError(w, s.logger, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

func (s *HTTPServer) handleNotifications(w http.ResponseWriter, r *http.Request, user *models.User) {
	switch r.Method {
	case http.MethodGet:
		notifications, unread, err := s.notifications.List(r.Context(), user.ID)
		if err != nil {
			writeStoreError(w, s.logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]interface{}{
			"notifications": notifications,
			"unreadCount":   unread,
		})

	case http.MethodPatch:
		var in struct {
			ID      string `json:"id"`
			MarkAll bool   `json:"markAll"`
		}
		if !decodeJSON(w, r, &in) {
			return
		}

		if in.MarkAll {
			if err := s.notifications.MarkAllRead(r.Context(), user.ID); err != nil {
				writeStoreError(w, s.logger, err)
				return
			}
			writeData(w, http.StatusOK, map[string]interface{}{"message": "all notifications marked read"})
			return
		}

		if in.ID == "" {
			writeFieldErrors(w, map[string][]string{"id": {"is required"}})
			return
		}
		if err := s.notifications.MarkRead(r.Context(), user.ID, in.ID); err != nil {
			writeStoreError(w, s.logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]interface{}{"message": "notification marked read"})

	case http.MethodDelete:
		var in struct {
			ID        string `json:"id"`
			DeleteAll bool   `json:"deleteAll"`
		}
		if !decodeJSON(w, r, &in) {
			return
		}

		if in.DeleteAll {
			if err := s.notifications.DeleteAll(r.Context(), user.ID); err != nil {
				writeStoreError(w, s.logger, err)
				return
			}
			writeData(w, http.StatusOK, map[string]interface{}{"message": "all notifications deleted"})
			return
		}

		if in.ID == "" {
			writeFieldErrors(w, map[string][]string{"id": {"is required"}})
			return
		}
		if err := s.notifications.Delete(r.Context(), user.ID, in.ID); err != nil {
			writeStoreError(w, s.logger, err)
			return
		}
		writeData(w, http.StatusOK, map[string]interface{}{"message": "notification deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, CodeValidationError, "method not allowed")
	}
}
