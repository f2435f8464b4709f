package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/balcao/backend/checkout"
	"github.com/balcao/backend/config"
	"github.com/balcao/backend/controllers"
	"github.com/balcao/backend/middleware"
	"github.com/balcao/backend/reports"
	"github.com/balcao/backend/repository"
	"github.com/balcao/backend/repository/memory"
	"github.com/balcao/backend/routes"
	"github.com/balcao/backend/utils"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("store", zap.Error(err))
	}
	defer closeStore()

	mode, err := checkout.ParseMode(cfg.CheckoutMode)
	if err != nil {
		log.Fatal("checkout mode", zap.Error(err))
	}
	coordinator := checkout.New(repos, checkout.WithMode(mode), checkout.WithLogger(log.Named("checkout")))
	aggregator := reports.NewAggregator(repos, log.Named("reports"))

	secret := cfg.JWTSecret
	if secret == "" {
		secret = randomSecret()
		log.Warn("JWT_SECRET not set, sessions will not survive a restart")
	}
	issuer := utils.NewTokenIssuer(secret, cfg.JWTTTL)

	scheduler, err := stockScheduler(cfg, repos, log.Named("stock"))
	if err != nil {
		log.Fatal("stock alert", zap.Error(err))
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	reg := prometheus.NewRegistry()
	middleware.InitMetrics(reg, append(checkout.Collectors(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)...)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log.Named("http")), middleware.PrometheusMiddleware())
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
		}))
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handler := controllers.NewHandler(repos, coordinator, aggregator, issuer, log.Named("api"))
	routes.InitializeRoutes(r, handler, issuer)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver), zap.String("checkout_mode", string(mode)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Repositories, func(), error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Warn("using in-memory store, data is lost on exit")
		return memory.New().Repositories(), func() {}, nil
	}

	client, db, err := config.ConnectDatabase(ctx, cfg, log)
	if err != nil {
		return repository.Repositories{}, nil, err
	}
	store := repository.NewMongo(db, cfg.MongoTransactions)
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return repository.Repositories{}, nil, err
	}
	return store.Repositories(), func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error("mongo disconnect", zap.Error(err))
		}
	}, nil
}

func stockScheduler(cfg *config.Config, repos repository.Repositories, log *zap.Logger) (*gocron.Scheduler, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	var mailer *utils.Mailer
	var to []string
	if cfg.SMTPEnabled() {
		mailer = utils.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.AlertFrom)
		to = strings.Split(cfg.AlertTo, ",")
	}
	return utils.ScheduleStockAlert(loc, cfg.AlertAt, utils.NewStockAlert(repos.Products, mailer, to, log))
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
