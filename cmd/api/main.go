package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/harborlight-care/leadcore/internal/entity"
	"github.com/harborlight-care/leadcore/internal/infra/database"
	"github.com/harborlight-care/leadcore/internal/infra/filestore"
	"github.com/harborlight-care/leadcore/internal/infra/http/handlers"
	"github.com/harborlight-care/leadcore/internal/infra/http/middleware"
	"github.com/harborlight-care/leadcore/internal/infra/mail"
	"github.com/harborlight-care/leadcore/internal/infra/queue"
	"github.com/harborlight-care/leadcore/internal/infra/webhook"
	"github.com/harborlight-care/leadcore/internal/notify"
	"github.com/harborlight-care/leadcore/internal/ratelimit"
	"github.com/harborlight-care/leadcore/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	defer rdb.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "guest"),
		envOr("RABBITMQ_PASS", "guest"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	clock := usecase.SystemClock{}

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)
	resourceRepo := database.NewResourceRepository(db)
	tokenRepo := database.NewTokenRepository(db)
	attemptRepo := database.NewAttemptRepository(db)

	// 2. Rate limiter: max attempts per IP inside a sliding window, bucket
	// state in redis so every instance sees the same counts.
	maxAttempts := envInt("RATE_LIMIT_MAX", 5)
	window := time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 600)) * time.Second
	limiter := ratelimit.New(ratelimit.NewRedisStore(rdb), maxAttempts, window)

	// 3. Transports and channels
	mailSender := mail.NewSMTPSender(
		os.Getenv("MAIL_HOST"),
		envInt("MAIL_PORT", 587),
		os.Getenv("MAIL_USER"),
		os.Getenv("MAIL_PASS"),
		envOr("MAIL_FROM", "no-reply@harborlightcare.co.uk"),
	)
	webhookTransport := webhook.NewHTTPTransport(10*time.Second, webhook.WithThrottle(2, 5))

	registry := notify.NewRegistry(
		notify.NewEmailChannel(notify.ChannelEmail, mailSender,
			notify.WithReplyTo(os.Getenv("MAIL_REPLY_TO")),
			notify.WithBcc(splitNonEmpty(os.Getenv("MAIL_BCC"))...),
		),
		notify.NewEmailChannel(notify.ChannelOnCallEmail, mailSender),
		notify.NewWebhookChannel(webhookTransport),
		notify.NewSMSChannel(webhookTransport, os.Getenv("SMS_GATEWAY_URL")),
	)

	rules := notify.DefaultRules(notify.RuleConfig{
		StaffEmail:      envOr("STAFF_EMAIL", "enquiries@harborlightcare.co.uk"),
		OnCallEmail:     envOr("ONCALL_EMAIL", "oncall@harborlightcare.co.uk"),
		AlertWebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),
		SMSTarget:       os.Getenv("ONCALL_SMS_NUMBER"),
	})

	templates := notify.NewTemplateChain(
		notify.MapResolver(loadTemplateOverrides()),
		notify.BuiltinTemplates,
	)

	// 4. Engine, producer and worker. Urgent channels are async: the engine
	// enqueues them and the worker delivers with an idempotency guard.
	producer := queue.NewProducer(rabbitMQ.Ch)
	engine := notify.NewEngine(registry, rules, templates, meteredAttempts{attemptRepo},
		notify.WithPublisher(producer),
		notify.WithChannelTimeout(10*time.Second),
	)

	worker := queue.NewWorker(rabbitMQ.Ch, engine, queue.NewRedisIdempotencyStore(rdb, 24*time.Hour))
	go worker.Start(queue.QueueName)

	// 5. UseCases
	files := filestore.NewDiskStore(envOr("RESOURCE_ROOT", "./resources"))
	tokenService := usecase.NewTokenService(tokenRepo, resourceRepo, files, clock)
	formVerifier := usecase.NewFormTokenVerifier(os.Getenv("FORM_TOKEN_SECRET"), 24*time.Hour, clock)

	submitUC := &usecase.SubmitLeadUseCase{
		Leads:     leadRepo,
		Resources: resourceRepo,
		Limiter:   limiter,
		Security:  formVerifier,
		Tokens:    tokenService,
		Notifier:  engine,
		Clock:     clock,
		BaseURL:   envOr("BASE_URL", "http://localhost:8080"),
		AdminURL:  envOr("ADMIN_URL", "http://localhost:8080/admin"),
		SiteName:  envOr("SITE_NAME", "Harborlight Care"),
	}
	statusUC := &usecase.UpdateLeadStatusUseCase{Leads: leadRepo, Clock: clock}

	// 6. Handlers and router
	leadHandler := handlers.NewLeadHandler(submitUC, formVerifier)
	downloadHandler := handlers.NewDownloadHandler(tokenService)
	statusHandler := handlers.NewStatusHandler(statusUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn, rdb)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: splitNonEmpty(envOr("CORS_ORIGINS", "*")),
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Post("/api/leads", leadHandler.HandleSubmit)
	r.Get("/api/form-token", leadHandler.HandleFormToken)
	r.Get("/api/download/{token}", downloadHandler.HandleRedeem)
	r.Patch("/api/leads/{id}/status", statusHandler.HandleUpdate)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + envOr("PORT", "8080")
	log.Printf("🔥 Lead service running on %s", port)
	http.ListenAndServe(port, r)
}

// meteredAttempts records the audit row and bumps the channel counters in
// one place.
type meteredAttempts struct {
	repo notify.AttemptRecorder
}

func (m meteredAttempts) Append(ctx context.Context, attempt *entity.NotificationAttempt) error {
	middleware.RecordNotification(attempt.Channel, attempt.Outcome)
	return m.repo.Append(ctx, attempt)
}

// loadTemplateOverrides reads TEMPLATE_OVERRIDE_* vars into template ids,
// e.g. TEMPLATE_OVERRIDE_STAFF_ALERT_SUBJECT overrides staff_alert_subject.
func loadTemplateOverrides() map[string]string {
	overrides := make(map[string]string)
	const prefix = "TEMPLATE_OVERRIDE_"
	for _, kv := range os.Environ() {
		key, val, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, prefix) && val != "" {
			overrides[strings.ToLower(strings.TrimPrefix(key, prefix))] = val
		}
	}
	return overrides
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
