package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"station-console/internal/audit"
	"station-console/internal/auth"
	maintenanceapp "station-console/internal/maintenance/application"
	maintenancehttp "station-console/internal/maintenance/interfaces/http"
	"station-console/internal/observability/metrics"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Printf("dotenv load error: %v", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)

	sessions, err := auth.NewSessionManager(
		[]byte(cfg.SessionSecret),
		auth.WithSessionTTL(cfg.SessionTTL),
		auth.WithSecureCookies(cfg.SecureCookies),
		auth.WithCookieName(cfg.SessionCookie),
	)
	if err != nil {
		logger.Fatalf("session manager error: %v", err)
	}

	maintenanceService, err := maintenanceapp.NewService(db, maintenanceapp.WithOperatorID(cfg.DefaultOperatorID))
	if err != nil {
		logger.Fatalf("maintenance service error: %v", err)
	}
	maintenanceHandler, err := maintenancehttp.NewHandler(maintenanceService, sessions, auditRepo, logger)
	if err != nil {
		logger.Fatalf("maintenance handler error: %v", err)
	}
	loginHandler, err := auth.NewLoginHandler(sessions, cfg.AdminToken, maintenancehttp.PagePath, logger)
	if err != nil {
		logger.Fatalf("login handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics", "/login", "/logout"}, nil)
	authMiddleware := auth.NewMiddleware(sessions, policy)

	mux := http.NewServeMux()
	mux.Handle(maintenancehttp.PagePath, maintenanceHandler)
	mux.Handle(maintenancehttp.PagePath+"/", maintenanceHandler)
	mux.Handle(auth.DefaultLoginPath, loginHandler)
	mux.HandleFunc("/logout", loginHandler.Logout)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, maintenancehttp.PagePath, http.StatusSeeOther)
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           loggingMiddleware(authMiddleware.Wrap(mux), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
