package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"paygate/internal/db"
	"paygate/internal/domain/transactions"
	"paygate/internal/notifications"
	"paygate/internal/payments"
	"paygate/internal/ratelimiter"

	"github.com/9ssi7/exponent"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a new zap logger with color.
func NewLogger(env string) (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	level := zapcore.InfoLevel
	if env == "development" {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level)

	return zap.New(core).Sugar(), nil
}

var version = "0.1.0"

func envBool(key string, def bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
		fmt.Printf("Invalid %s, defaulting to %t\n", key, def)
	}
	return def
}

func envInt(key string, def int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
		fmt.Printf("Invalid %s, defaulting to %d\n", key, def)
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		fmt.Printf("Invalid %s, defaulting to %s\n", key, def)
	}
	return def
}

func envString(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func loadConfig() config {
	return config{
		addr:   envString("ADDR", ":8080"),
		env:    envString("ENV", "development"),
		apiURL: os.Getenv("EXTERNAL_URL"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(envInt("DB_MAX_CONNS", 10)),
			maxIdleTime: envDuration("DB_MAX_IDLE_TIME", 15*time.Minute),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
		},
		botUsername: os.Getenv("BOT_USERNAME"),
		expoToken:   os.Getenv("EXPO_ACCESS_TOKEN"),
		platega: plategaConfig{
			merchantID: os.Getenv("PLATEGA_MERCHANT_ID"),
			apiSecret:  os.Getenv("PLATEGA_API_SECRET"),
			currency:   payments.Currency(envString("PLATEGA_CURRENCY", string(payments.CurrencyRUB))),
			baseURL:    os.Getenv("PLATEGA_BASE_URL"),
		},
		paymentTimeout: envDuration("PAYMENT_HTTP_TIMEOUT", 30*time.Second),
		rateLimiter: ratelimiter.Config{
			RequestsPerTimeFrame: envInt("RATELIMITER_REQUESTS_COUNT", 20),
			TimeFrame:            envDuration("RATELIMITER_TIME_FRAME", 5*time.Second),
			Enabled:              envBool("RATE_LIMITER_ENABLED", true),
		},
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := loadConfig()

	logger, err := NewLogger(cfg.env)
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// Database
	pool, err := db.New(context.Background(), db.Config{
		Addr:        cfg.db.addr,
		MaxConns:    cfg.db.maxConns,
		MaxIdleTime: cfg.db.maxIdleTime,
	})
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	repo := transactions.NewRepository(pool)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		logger.Fatal(err)
	}

	// Push notifications
	expo := exponent.NewClient(exponent.WithAccessToken(cfg.expoToken))
	push := notifications.NewExpoAdapter(expo)

	// Gateways
	manager := payments.NewPaymentManager()
	currencies := make(map[payments.GatewayType]payments.Currency)

	gw := payments.Gateway{
		ID:       1,
		Type:     payments.GatewayPlatega,
		Currency: cfg.platega.currency,
		IsActive: true,
		Settings: payments.PlategaSettings{
			MerchantID: cfg.platega.merchantID,
			APISecret:  payments.SecretString(cfg.platega.apiSecret),
		},
	}
	var opts []payments.Option
	if cfg.platega.baseURL != "" {
		opts = append(opts, payments.WithBaseURL(cfg.platega.baseURL))
	}
	platega, err := payments.NewPlategaGateway(
		gw,
		notifications.NewBotLink(cfg.botUsername),
		payments.AppConfig{HTTPTimeout: cfg.paymentTimeout},
		logger,
		opts...,
	)
	if err != nil {
		logger.Fatal(err)
	}
	manager.RegisterGateway(platega)
	currencies[gw.Type] = gw.Currency

	// Rate limiter
	limiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	app := &application{
		config:       cfg,
		logger:       logger,
		payments:     manager,
		currencies:   currencies,
		transactions: repo,
		push:         push,
		rateLimiter:  limiter,
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		stat := pool.Stat()
		return map[string]any{
			"total_conns":    stat.TotalConns(),
			"idle_conns":     stat.IdleConns(),
			"acquired_conns": stat.AcquiredConns(),
			"max_conns":      stat.MaxConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
