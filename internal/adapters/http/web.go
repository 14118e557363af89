package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"steward/internal/adapters/email"
	"steward/internal/adapters/filestore"
	"steward/internal/adapters/http/middleware"
	"steward/internal/application/orchestrators"
	"steward/internal/application/records"
	"steward/internal/domain/account"
	"steward/internal/domain/attendance"
	"steward/internal/domain/donation"
	emailDomain "steward/internal/domain/email"
	"steward/internal/domain/media"
	"steward/internal/domain/member"
	"steward/internal/domain/offering"
	"steward/internal/domain/prayer"
	"steward/internal/domain/sermon"
	"steward/internal/domain/settings"
	"steward/internal/domain/tithe"
	"steward/internal/domain/visitor"
)

// SettingsStore persists the church profile.
type SettingsStore interface {
	Get(ctx context.Context) (settings.Settings, error)
	Save(ctx context.Context, s settings.Settings) error
}

// Stores holds all storage dependencies.
type Stores struct {
	Members    records.Store[member.Member]
	Visitors   records.Store[visitor.Visitor]
	Attendance records.Store[attendance.Attendance]
	Tithes     records.Store[tithe.Tithe]
	Offerings  records.Store[offering.Offering]
	Donations  records.Store[donation.Donation]
	Sermons    records.Store[sermon.Sermon]
	Media      records.Store[media.File]
	Prayers    records.Store[prayer.Request]
	Emails     records.Store[emailDomain.Email]
	Settings   SettingsStore
}

// Config carries the HTTP settings read from the environment.
type Config struct {
	Production     bool
	CSRFKey        []byte // 32 bytes; random per start when empty outside production
	RateLimit      int    // requests per second per IP
	TrustedOrigins []string
	SlowRequest    time.Duration
	UploadDir      string // served at /uploads/ when set
	MailFrom       string
	MailReplyTo    string
}

// Deps is everything NewMux wires into the handlers.
type Deps struct {
	Stores        Stores
	Authenticator orchestrators.Authenticator
	Accounts      orchestrators.AccountStoreForLogin // nil when logins come from an allow list
	Markers       middleware.MarkerStore
	Files         filestore.Storage
	Mailer        email.Sender
	Config        Config
	Now           func() time.Time
}

// DefaultRateLimit is the per-IP requests per second when Config.RateLimit is unset.
const DefaultRateLimit = 10

var (
	financeOnly = middleware.RequireRole(account.RoleAdmin, account.RoleFinance)
	adminOnly   = middleware.RequireRole(account.RoleAdmin)
)

// server holds the wired dependencies of every handler.
type server struct {
	deps     Deps
	services Services
	pages    *pages
	now      func() time.Time
}

// LoadCSRFKey decodes a hex CSRF secret (32 bytes).
// In production the key MUST be set. In development a random key is generated per startup.
func LoadCSRFKey(keyHex string, production bool) ([]byte, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, errors.New("STEWARD_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key, nil
	}
	if production {
		return nil, errors.New("STEWARD_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate CSRF key: %w", err)
	}
	slog.Warn("using random CSRF key (forms won't survive restart); set STEWARD_CSRF_KEY for production")
	return key, nil
}

// NewMux wires HTTP handlers for the app.
func NewMux(deps Deps) (http.Handler, error) {
	s, err := newServer(deps)
	if err != nil {
		return nil, err
	}
	csrfKey := s.deps.Config.CSRFKey
	if len(csrfKey) == 0 {
		key, err := LoadCSRFKey("", s.deps.Config.Production)
		if err != nil {
			return nil, err
		}
		csrfKey = key
	}

	rate := s.deps.Config.RateLimit
	if rate <= 0 {
		rate = DefaultRateLimit
	}
	limiter := middleware.NewRateLimiter(rate, time.Second)

	// Apply middleware: Timing -> RateLimit -> SecurityHeaders -> CSRF -> Mux
	return middleware.Chain(s.routes(),
		middleware.CSRF(csrfKey, middleware.CSRFOptions{
			Secure:         s.deps.Config.Production,
			TrustedOrigins: s.deps.Config.TrustedOrigins,
		}),
		middleware.SecurityHeaders,
		middleware.RateLimit(limiter),
		middleware.Timing(s.deps.Config.SlowRequest),
	), nil
}

// newServer applies the defaults of deps and loads the page templates.
func newServer(deps Deps) (*server, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Authenticator == nil || deps.Markers == nil {
		return nil, errors.New("web: authenticator and marker store are required")
	}
	if deps.Mailer == nil {
		deps.Mailer = email.NewNoopSender()
	}
	pg, err := loadPages()
	if err != nil {
		return nil, err
	}
	deps.Stores = guardStores(deps.Stores)
	return &server{
		deps:     deps,
		services: NewServices(deps.Stores, deps.Now),
		pages:    pg,
		now:      deps.Now,
	}, nil
}

// serveUploads serves stored files. Only media a browser renders without
// running script is shown inline; everything else downloads.
func serveUploads(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if !inlineType(mime.TypeByExtension(path.Ext(r.URL.Path))) {
			w.Header().Set("Content-Disposition", "attachment")
		}
		files.ServeHTTP(w, r)
	})
}

func inlineType(ct string) bool {
	ct, _, _ = strings.Cut(ct, ";")
	switch {
	case ct == "image/svg+xml":
		return false
	case strings.HasPrefix(ct, "image/"), strings.HasPrefix(ct, "audio/"), strings.HasPrefix(ct, "video/"):
		return true
	}
	return ct == "application/pdf"
}

// routes registers the public pages and wraps everything else in the session gate.
func (s *server) routes() http.Handler {
	outer := http.NewServeMux()
	outer.HandleFunc("GET /login", s.handleLoginPage)
	outer.HandleFunc("POST /login", s.handleLogin)
	outer.HandleFunc("GET /healthz", s.handleHealth)
	outer.Handle("GET /static/", http.FileServerFS(staticFS))
	if dir := s.deps.Config.UploadDir; dir != "" {
		outer.Handle("GET /uploads/", http.StripPrefix("/uploads/", serveUploads(dir)))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /api/session", s.handleSession)
	mux.HandleFunc("GET /account", s.handleAccountPage)
	mux.HandleFunc("POST /account/password", s.handleChangePassword)
	mux.HandleFunc("POST /api/account/password", s.handleChangePassword)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)

	for _, res := range s.resources() {
		res.register(mux)
	}

	mux.HandleFunc("GET /attendance/check-in", s.handleCheckInPage)
	mux.HandleFunc("POST /attendance/check-in", s.handleCheckIn)
	mux.HandleFunc("POST /api/attendance/check-in", s.handleCheckIn)
	mux.HandleFunc("POST /visitors/{id}/convert", s.handleConvertVisitor)
	mux.HandleFunc("POST /api/visitors/{id}/convert", s.handleConvertVisitor)
	mux.HandleFunc("GET /members/import", s.handleImportPage)
	mux.HandleFunc("POST /members/import", s.handleImportMembers)
	mux.HandleFunc("POST /api/members/import", s.handleImportMembers)
	mux.HandleFunc("POST /members/{id}/deactivate", s.handleMemberStatus(true))
	mux.HandleFunc("POST /api/members/{id}/deactivate", s.handleMemberStatus(true))
	mux.HandleFunc("POST /members/{id}/reactivate", s.handleMemberStatus(false))
	mux.HandleFunc("POST /api/members/{id}/reactivate", s.handleMemberStatus(false))
	mux.HandleFunc("POST /prayer-requests/{id}/updates", s.handlePrayerUpdate)
	mux.HandleFunc("POST /api/prayer-requests/{id}/updates", s.handlePrayerUpdate)
	mux.HandleFunc("POST /media/upload", s.handleMediaUpload)
	mux.HandleFunc("POST /api/media/upload", s.handleMediaUpload)
	mux.HandleFunc("POST /mail/{id}/send", s.handleSendMail)
	mux.HandleFunc("POST /api/mail/{id}/send", s.handleSendMail)

	mux.Handle("GET /reports/finance", financeOnly(http.HandlerFunc(s.handleFinanceReport)))
	mux.Handle("GET /api/reports/finance", financeOnly(http.HandlerFunc(s.handleFinanceReport)))
	mux.HandleFunc("GET /reports/attendance", s.handleAttendanceReport)
	mux.HandleFunc("GET /api/reports/attendance", s.handleAttendanceReport)

	mux.HandleFunc("GET /settings", s.handleSettingsPage)
	mux.Handle("POST /settings", adminOnly(http.HandlerFunc(s.handleSaveSettings)))
	mux.HandleFunc("GET /api/settings", s.handleSettingsPage)
	mux.Handle("PUT /api/settings", adminOnly(http.HandlerFunc(s.handleSaveSettings)))

	outer.Handle("/", middleware.SessionGate(s.deps.Markers)(mux))
	return outer
}

// guardStores marks storage failures as retryable for the workflows that
// use the stores without a records.Service.
func guardStores(st Stores) Stores {
	byService, _ := st.Attendance.(serviceLister)
	st.Members = records.Guard(st.Members)
	st.Visitors = records.Guard(st.Visitors)
	st.Attendance = attendanceStore{Store: records.Guard(st.Attendance), byService: byService}
	st.Tithes = records.Guard(st.Tithes)
	st.Offerings = records.Guard(st.Offerings)
	st.Donations = records.Guard(st.Donations)
	st.Sermons = records.Guard(st.Sermons)
	st.Media = records.Guard(st.Media)
	st.Prayers = records.Guard(st.Prayers)
	st.Emails = records.Guard(st.Emails)
	return st
}

type serviceLister interface {
	ListForService(ctx context.Context, serviceType string, day time.Time) ([]attendance.Attendance, error)
}

// attendanceStore keeps the per-service query of the SQLite store visible to check-in.
type attendanceStore struct {
	records.Store[attendance.Attendance]
	byService serviceLister
}

func (a attendanceStore) ListForService(ctx context.Context, serviceType string, day time.Time) ([]attendance.Attendance, error) {
	if a.byService != nil {
		items, err := a.byService.ListForService(ctx, serviceType, day)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", records.ErrUnavailable, err)
		}
		return items, nil
	}
	all, err := a.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []attendance.Attendance
	for _, rec := range all {
		if rec.ServiceType == serviceType {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// settings returns the church profile, falling back to the defaults when the store fails.
func (s *server) settings(ctx context.Context) settings.Settings {
	if s.deps.Stores.Settings == nil {
		return settings.Defaults()
	}
	st, err := s.deps.Stores.Settings.Get(ctx)
	if err != nil {
		slog.Error("settings_load_failed", "error", err)
		return settings.Defaults()
	}
	return st
}
