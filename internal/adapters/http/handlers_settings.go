package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"steward/internal/adapters/http/middleware"
	"steward/internal/application/records"
	"steward/internal/domain/settings"
	"steward/internal/domain/validation"
)

// settingsRequest is the JSON body of PUT /api/settings.
type settingsRequest struct {
	ChurchName   string `json:"church_name"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	CurrencyCode string `json:"currency_code"`
	Timezone     string `json:"timezone"`
	ServiceTimes string `json:"service_times"`
}

// handleSettingsPage handles GET /settings and GET /api/settings
func (s *server) handleSettingsPage(w http.ResponseWriter, r *http.Request) {
	st := s.settings(r.Context())
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, st)
		return
	}
	s.renderTemplate(w, r, "settings.html", http.StatusOK, map[string]any{"Settings": st})
}

// handleSaveSettings handles POST /settings and PUT /api/settings (admin only)
func (s *server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	if s.deps.Stores.Settings == nil {
		internalError(w, errors.New("settings store not configured"))
		return
	}
	var req settingsRequest
	if isJSONBody(r) {
		if err := strictDecode(w, r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		req = settingsRequest{
			ChurchName:   r.FormValue("church_name"),
			Address:      r.FormValue("address"),
			Phone:        r.FormValue("phone"),
			Email:        r.FormValue("email"),
			CurrencyCode: r.FormValue("currency_code"),
			Timezone:     r.FormValue("timezone"),
			ServiceTimes: r.FormValue("service_times"),
		}
	}

	st := settings.Settings{
		ChurchName:   req.ChurchName,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        req.Email,
		CurrencyCode: req.CurrencyCode,
		Timezone:     req.Timezone,
		ServiceTimes: req.ServiceTimes,
		UpdatedAt:    s.now(),
	}
	if err := st.Validate(); err != nil {
		var fields validation.Errors
		if isHTMLRequest(r) && errors.As(err, &fields) {
			s.renderTemplate(w, r, "settings.html", http.StatusUnprocessableEntity, map[string]any{
				"Settings": st,
				"Errors":   fields,
			})
			return
		}
		s.writeError(w, r, err)
		return
	}
	if err := s.deps.Stores.Settings.Save(r.Context(), st); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: save settings: %w", records.ErrUnavailable, err))
		return
	}

	m, _ := middleware.MarkerFromContext(r.Context())
	slog.Info("settings_event", "event", "settings_saved", "by", m.Email, "currency", st.CurrencyCode)
	done(w, r, "/settings", http.StatusOK, st)
}
