package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	emailPkg "steward/internal/adapters/email"
	"steward/internal/adapters/filestore"
	web "steward/internal/adapters/http"
	"steward/internal/adapters/http/middleware"
	"steward/internal/adapters/storage"
	accountStore "steward/internal/adapters/storage/account"
	attendanceStore "steward/internal/adapters/storage/attendance"
	donationStore "steward/internal/adapters/storage/donation"
	emailStore "steward/internal/adapters/storage/email"
	mediaStore "steward/internal/adapters/storage/media"
	memberStore "steward/internal/adapters/storage/member"
	"steward/internal/adapters/storage/memory"
	offeringStore "steward/internal/adapters/storage/offering"
	prayerStore "steward/internal/adapters/storage/prayer"
	sermonStore "steward/internal/adapters/storage/sermon"
	settingsStore "steward/internal/adapters/storage/settings"
	titheStore "steward/internal/adapters/storage/tithe"
	visitorStore "steward/internal/adapters/storage/visitor"
	"steward/internal/application/orchestrators"
	"steward/internal/domain/account"
	"steward/internal/domain/attendance"
	"steward/internal/domain/donation"
	emailDomain "steward/internal/domain/email"
	"steward/internal/domain/media"
	"steward/internal/domain/member"
	"steward/internal/domain/offering"
	"steward/internal/domain/prayer"
	"steward/internal/domain/sermon"
	"steward/internal/domain/tithe"
	"steward/internal/domain/visitor"
	"steward/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	logging.Setup(envOrDefault("STEWARD_LOG_LEVEL", "info"), envOrDefault("STEWARD_LOG_FORMAT", "text"))
	if err := run(); err != nil {
		slog.Error("startup_failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	production := envOrDefault("STEWARD_ENV", "development") == "production"

	stores, accounts, closeDB, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	// Demo data outside production, in either storage mode
	if !production {
		if err := orchestrators.ExecuteSeedDemo(ctx, orchestrators.DemoSeedDeps{
			Members:    stores.Members,
			Visitors:   stores.Visitors,
			Attendance: stores.Attendance,
			Tithes:     stores.Tithes,
			Offerings:  stores.Offerings,
			Donations:  stores.Donations,
			Sermons:    stores.Sermons,
			Media:      stores.Media,
			Prayers:    stores.Prayers,
			Emails:     stores.Emails,
		}, time.Now()); err != nil {
			return err
		}
	}

	auth, editable, err := authenticator(ctx, accounts, production)
	if err != nil {
		return err
	}

	hashKey, err := loadKey("STEWARD_SESSION_HASH_KEY", 32, production)
	if err != nil {
		return err
	}
	blockKey, err := loadKey("STEWARD_SESSION_BLOCK_KEY", 32, production)
	if err != nil {
		return err
	}
	csrfKey, err := web.LoadCSRFKey(os.Getenv("STEWARD_CSRF_KEY"), production)
	if err != nil {
		return err
	}

	mailFrom := envOrDefault("STEWARD_MAIL_FROM", "Church Office <office@example.org>")
	mailReplyTo := os.Getenv("STEWARD_MAIL_REPLY_TO")
	var mailer emailPkg.Sender
	if key := os.Getenv("STEWARD_RESEND_KEY"); key != "" {
		mailer = emailPkg.NewResendSender(key, mailFrom, mailReplyTo)
		slog.Info("mail sender configured", "provider", "resend")
	} else {
		mailer = emailPkg.NewNoopSender()
		if production {
			slog.Warn("STEWARD_RESEND_KEY is not set; mail delivery is disabled")
		}
	}

	uploadDir := envOrDefault("STEWARD_UPLOAD_DIR", "uploads")
	s3cfg := filestore.S3Config{
		Bucket:    os.Getenv("STEWARD_S3_BUCKET"),
		Region:    envOrDefault("STEWARD_S3_REGION", "us-east-1"),
		Endpoint:  os.Getenv("STEWARD_S3_ENDPOINT"),
		AccessKey: os.Getenv("STEWARD_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("STEWARD_S3_SECRET_KEY"),
		PublicURL: os.Getenv("STEWARD_S3_PUBLIC_URL"),
	}
	var files filestore.Storage
	if s3cfg.Enabled() {
		files = filestore.NewS3Storage(s3cfg)
		uploadDir = ""
		slog.Info("file storage configured", "backend", "s3", "bucket", s3cfg.Bucket)
	} else {
		files = filestore.NewLocalStorage(uploadDir, "/uploads")
		slog.Info("file storage configured", "backend", "local", "dir", uploadDir)
	}

	handler, err := web.NewMux(web.Deps{
		Stores:        stores,
		Authenticator: auth,
		Accounts:      editable,
		Markers:       middleware.NewCookieMarkerStore(hashKey, blockKey, production),
		Files:         files,
		Mailer:        mailer,
		Config: web.Config{
			Production:  production,
			CSRFKey:     csrfKey,
			RateLimit:   envInt("STEWARD_RATE_LIMIT", web.DefaultRateLimit),
			UploadDir:   uploadDir,
			MailFrom:    mailFrom,
			MailReplyTo: mailReplyTo,
		},
	})
	if err != nil {
		return err
	}

	addr := envOrDefault("STEWARD_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute, // media uploads
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("steward starting", "version", version, "addr", addr, "production", production)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// accountStoreForAuth is what both auth modes need from the account table.
type accountStoreForAuth interface {
	orchestrators.AccountStoreForLogin
	orchestrators.AccountStoreForCreate
}

// openStores builds the record stores for STEWARD_STORAGE (sqlite or memory).
func openStores(ctx context.Context) (web.Stores, accountStoreForAuth, func(), error) {
	mode := envOrDefault("STEWARD_STORAGE", "sqlite")
	switch mode {
	case "memory":
		slog.Info("storage configured", "backend", "memory")
		return web.Stores{
			Members:    memory.New[member.Member](),
			Visitors:   memory.New[visitor.Visitor](),
			Attendance: memory.New[attendance.Attendance](),
			Tithes:     memory.New[tithe.Tithe](),
			Offerings:  memory.New[offering.Offering](),
			Donations:  memory.New[donation.Donation](),
			Sermons:    memory.New[sermon.Sermon](),
			Media:      memory.New[media.File](),
			Prayers:    memory.New[prayer.Request](),
			Emails:     memory.New[emailDomain.Email](),
			Settings:   memory.NewSettings(),
		}, memory.NewAccounts(), func() {}, nil
	case "sqlite":
	default:
		return web.Stores{}, nil, nil, fmt.Errorf("STEWARD_STORAGE must be sqlite or memory, got %q", mode)
	}

	dbPath := envOrDefault("STEWARD_DB_PATH", "steward.db")
	db, err := storage.Open(ctx, dbPath)
	if err != nil {
		return web.Stores{}, nil, nil, err
	}
	schema, _ := storage.SchemaVersion(db)
	slog.Info("storage configured", "backend", "sqlite", "path", dbPath, "schema", schema)

	slow := time.Duration(envInt("STEWARD_SLOW_QUERY_MS", 0)) * time.Millisecond
	timed := storage.NewTimedDB(db, slow)
	return web.Stores{
		Members:    memberStore.NewSQLiteStore(timed),
		Visitors:   visitorStore.NewSQLiteStore(timed),
		Attendance: attendanceStore.NewSQLiteStore(timed),
		Tithes:     titheStore.NewSQLiteStore(timed),
		Offerings:  offeringStore.NewSQLiteStore(timed),
		Donations:  donationStore.NewSQLiteStore(timed),
		Sermons:    sermonStore.NewSQLiteStore(timed),
		Media:      mediaStore.NewSQLiteStore(timed),
		Prayers:    prayerStore.NewSQLiteStore(timed),
		Emails:     emailStore.NewSQLiteStore(timed),
		Settings:   settingsStore.NewSQLiteStore(timed),
	}, accountStore.NewSQLiteStore(timed), func() { timed.Close() }, nil
}

// authenticator picks the login check for STEWARD_AUTH_MODE. The account
// store is returned only when passwords can be changed from the app.
// Production refuses the demo credential.
func authenticator(ctx context.Context, accounts accountStoreForAuth, production bool) (orchestrators.Authenticator, orchestrators.AccountStoreForLogin, error) {
	adminEmail := os.Getenv("STEWARD_ADMIN_EMAIL")
	adminPassword := os.Getenv("STEWARD_ADMIN_PASSWORD")
	if production && adminPassword == orchestrators.DefaultCredential.Password &&
		account.NormalizeEmail(adminEmail) == account.NormalizeEmail(orchestrators.DefaultCredential.Email) {
		return nil, nil, errors.New("the demo login cannot be used in production; set STEWARD_ADMIN_EMAIL and STEWARD_ADMIN_PASSWORD")
	}

	switch mode := envOrDefault("STEWARD_AUTH_MODE", "allowlist"); mode {
	case "allowlist":
		if adminEmail == "" || adminPassword == "" {
			if production {
				return nil, nil, errors.New("STEWARD_ADMIN_EMAIL and STEWARD_ADMIN_PASSWORD are required in production")
			}
			slog.Warn("using the demo login; set STEWARD_ADMIN_EMAIL and STEWARD_ADMIN_PASSWORD to replace it")
			return orchestrators.NewAllowList(), nil, nil
		}
		return orchestrators.NewAllowList(orchestrators.Credential{
			Email:    adminEmail,
			Password: adminPassword,
			Name:     "Administrator",
		}), nil, nil
	case "accounts":
		if adminEmail == "" || adminPassword == "" {
			return nil, nil, errors.New("STEWARD_ADMIN_EMAIL and STEWARD_ADMIN_PASSWORD are required in accounts mode")
		}
		if err := orchestrators.ExecuteSeedAdmin(ctx, orchestrators.CreateAccountDeps{AccountStore: accounts}, adminEmail, adminPassword); err != nil {
			return nil, nil, fmt.Errorf("seed admin: %w", err)
		}
		return orchestrators.NewAccountAuthenticator(accounts), accounts, nil
	default:
		return nil, nil, fmt.Errorf("STEWARD_AUTH_MODE must be allowlist or accounts, got %q", mode)
	}
}

// loadKey decodes a hex key of size bytes. Outside production a missing key
// is generated, which signs everyone out on restart.
func loadKey(name string, size int, production bool) ([]byte, error) {
	if raw := os.Getenv(name); raw != "" {
		key, err := hex.DecodeString(raw)
		if err != nil || len(key) != size {
			return nil, fmt.Errorf("%s must be %d hex characters", name, size*2)
		}
		return key, nil
	}
	if production {
		return nil, fmt.Errorf("%s is required in production", name)
	}
	key := make([]byte, size)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate %s: %w", name, err)
	}
	slog.Warn("using a random session key; sessions end on restart", "env", name)
	return key, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("ignoring non-numeric setting", "env", key, "value", v)
		return fallback
	}
	return n
}
