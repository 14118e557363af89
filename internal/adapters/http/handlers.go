package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"steward/internal/adapters/http/middleware"
	"steward/internal/application/form"
	"steward/internal/application/orchestrators"
	"steward/internal/application/records"
	"steward/internal/domain/attendance"
	emailDomain "steward/internal/domain/email"
	"steward/internal/domain/member"
	"steward/internal/domain/prayer"
	"steward/internal/domain/validation"
	"steward/internal/domain/visitor"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func isHTMLRequest(r *http.Request) bool {
	return middleware.WantsHTML(r)
}

func isJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode_response_failed", "error", err)
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	Retryable bool              `json:"retryable,omitempty"`
}

// classify maps an error to its HTTP status and client-safe body.
func classify(err error) (int, errorBody) {
	var fields validation.Errors
	switch {
	case errors.As(err, &fields):
		return http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Fields: fields}
	case errors.Is(err, records.ErrNotFound):
		return http.StatusNotFound, errorBody{Error: "not found"}
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorBody{Error: orchestrators.ErrInvalidCredentials.Error()}
	case errors.Is(err, orchestrators.ErrRetryable), errors.Is(err, records.ErrUnavailable):
		return http.StatusServiceUnavailable, errorBody{Error: "service temporarily unavailable, please retry", Retryable: true}
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, visitor.ErrAlreadyConverted),
		errors.Is(err, member.ErrAlreadyInactive),
		errors.Is(err, member.ErrAlreadyActive),
		errors.Is(err, emailDomain.ErrAlreadySent),
		errors.Is(err, emailDomain.ErrNotOutgoing),
		errors.Is(err, orchestrators.ErrSendInFlight),
		errors.Is(err, form.ErrSubmitInFlight):
		return http.StatusConflict, errorBody{Error: err.Error()}
	case errors.Is(err, orchestrators.ErrNoAccountStore):
		return http.StatusConflict, errorBody{Error: err.Error()}
	case errors.Is(err, prayer.ErrEmptyUpdate), errors.Is(err, prayer.ErrInvalidStatus),
		errors.Is(err, orchestrators.ErrCurrentPasswordWrong), errors.Is(err, orchestrators.ErrNewPasswordSame):
		return http.StatusUnprocessableEntity, errorBody{Error: err.Error()}
	default:
		return http.StatusInternalServerError, errorBody{Error: "internal server error"}
	}
}

// writeError answers with the status matching err, as JSON or an error page.
// Collaborator failures are logged at ERROR; client errors are not logged here.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	switch {
	case status == http.StatusInternalServerError:
		slog.Error("internal_error", "path", r.URL.Path, "error", err)
	case body.Retryable:
		slog.Error("dependency_unavailable", "path", r.URL.Path, "error", err)
	}
	if isHTMLRequest(r) {
		s.renderTemplate(w, r, "error.html", status, map[string]any{
			"Status":    status,
			"Message":   body.Error,
			"Fields":    body.Fields,
			"Retryable": body.Retryable,
		})
		return
	}
	writeJSON(w, status, body)
}

// done finishes a successful mutation: 303 to location for browsers, v as JSON otherwise.
func done(w http.ResponseWriter, r *http.Request, location string, status int, v any) {
	if isHTMLRequest(r) {
		http.Redirect(w, r, location, http.StatusSeeOther)
		return
	}
	if v == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, status, v)
}

// --- Auth ---

// handleLoginPage handles GET /login
func (s *server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	// If already logged in, go straight to the dashboard
	if _, err := s.deps.Markers.Get(r); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	s.renderTemplate(w, r, "login.html", http.StatusOK, map[string]any{})
}

// loginRequest is the JSON body of POST /login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin handles POST /login
func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.LoginInput
	if isJSONBody(r) {
		var body loginRequest
		if err := strictDecode(w, r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input = orchestrators.LoginInput{Email: body.Email, Password: body.Password}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input = orchestrators.LoginInput{Email: r.FormValue("email"), Password: r.FormValue("password")}
	}

	id, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{Authenticator: s.deps.Authenticator})
	if err != nil {
		if !errors.Is(err, orchestrators.ErrInvalidCredentials) {
			s.writeError(w, r, err)
			return
		}
		if isHTMLRequest(r) || !isJSONBody(r) {
			s.renderTemplate(w, r, "login.html", http.StatusUnauthorized, map[string]any{
				"Email": input.Email,
				"Error": orchestrators.ErrInvalidCredentials.Error(),
			})
			return
		}
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: orchestrators.ErrInvalidCredentials.Error()})
		return
	}

	marker := middleware.Marker{ID: id.ID, Name: id.Name, Email: id.Email, Role: id.Role}
	if err := s.deps.Markers.Set(w, marker); err != nil {
		internalError(w, err)
		return
	}
	if isJSONBody(r) {
		writeJSON(w, http.StatusOK, marker)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleLogout handles POST /logout
func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if m, ok := middleware.MarkerFromContext(r.Context()); ok {
		slog.Info("auth_event", "event", "logout", "email", m.Email)
	}
	s.deps.Markers.Clear(w)
	done(w, r, "/login", http.StatusNoContent, nil)
}

// handleAccountPage handles GET /account
func (s *server) handleAccountPage(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, r, "account.html", http.StatusOK, map[string]any{
		"Managed": s.deps.Accounts == nil,
		"Saved":   r.URL.Query().Get("saved") != "",
	})
}

// handleChangePassword handles POST /account/password and POST /api/account/password
func (s *server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
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
		req.CurrentPassword = r.FormValue("current_password")
		req.NewPassword = r.FormValue("new_password")
		if req.NewPassword != r.FormValue("confirm_password") {
			s.renderTemplate(w, r, "account.html", http.StatusUnprocessableEntity, map[string]any{
				"Error": "The new passwords do not match.",
			})
			return
		}
	}

	m, _ := middleware.MarkerFromContext(r.Context())
	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		Email:           m.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}, orchestrators.ChangePasswordDeps{AccountStore: s.deps.Accounts})
	if err != nil {
		status, body := classify(err)
		if isHTMLRequest(r) && status != http.StatusServiceUnavailable && status != http.StatusInternalServerError {
			msg := body.Error
			if body.Fields != nil {
				msg = validation.Errors(body.Fields).Error()
			}
			s.renderTemplate(w, r, "account.html", status, map[string]any{
				"Managed": s.deps.Accounts == nil,
				"Error":   msg,
			})
			return
		}
		s.writeError(w, r, err)
		return
	}
	done(w, r, "/account?saved=1", http.StatusOK, nil)
}

// handleSession handles GET /api/session
func (s *server) handleSession(w http.ResponseWriter, r *http.Request) {
	m, _ := middleware.MarkerFromContext(r.Context())
	writeJSON(w, http.StatusOK, m)
}
