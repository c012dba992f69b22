package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/santhosharam/kottravai-backend/internal/app"
	"github.com/santhosharam/kottravai-backend/internal/config"
	"github.com/santhosharam/kottravai-backend/internal/events"
	"github.com/santhosharam/kottravai-backend/internal/handler"
	"github.com/santhosharam/kottravai-backend/internal/identity"
	"github.com/santhosharam/kottravai-backend/internal/mailer"
	"github.com/santhosharam/kottravai-backend/internal/payment"
	"github.com/santhosharam/kottravai-backend/internal/postgres"
	"github.com/santhosharam/kottravai-backend/internal/repo"
	"github.com/santhosharam/kottravai-backend/internal/service"
	"github.com/santhosharam/kottravai-backend/internal/shiprocket"
	"github.com/santhosharam/kottravai-backend/internal/sms"
	"github.com/santhosharam/kottravai-backend/internal/worker"
	"github.com/santhosharam/kottravai-backend/pkg/cache"
	"github.com/santhosharam/kottravai-backend/pkg/trm"

	"github.com/joho/godotenv"

	_ "github.com/santhosharam/kottravai-backend/docs"
)

// @title           Kottravai API
// @version         1.0
// @description     Storefront backend: catalog, orders, payments, shipping and auth.
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	orderRepo := repo.NewOrderRepo(db)
	productRepo := repo.NewProductRepo(db)
	reviewRepo := repo.NewReviewRepo(db)
	wishlistRepo := repo.NewWishlistRepo(db)
	mobileOTPRepo := repo.NewOTPRepo(db, "otps")
	emailOTPRepo := repo.NewOTPRepo(db, "email_otps")

	txManager := trm.NewManager(db)
	productCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)

	supabase := identity.NewClient(logger, conf.Supabase)
	razorpay := payment.NewClient(logger, conf.Razorpay)
	shipper := shiprocket.NewClient(logger, conf.Shiprocket)
	smtpMailer := mailer.New(logger, conf.SMTP)
	smsClient := sms.New(logger, conf.SMS)

	var publisher service.Publisher
	application := app.New(logger, conf, supabase)
	if conf.Kafka.Enabled() {
		kafkaPublisher := events.NewKafkaPublisher(logger, conf.Kafka)
		application.SetClosers(kafkaPublisher)
		publisher = kafkaPublisher
		logger.Info("kafka publisher enabled", slog.String("topic", conf.Kafka.Topic))
	}

	orderService := service.NewOrderService(logger, txManager, orderRepo, smtpMailer, shipper, publisher, conf.SMTP.AdminEmail)
	productService := service.NewProductService(logger, productRepo, reviewRepo, productCache)
	wishlistService := service.NewWishlistService(logger, wishlistRepo)
	authService := service.NewAuthService(logger, mobileOTPRepo, emailOTPRepo, smsClient, smtpMailer, supabase)

	application.SetHTTPHandlers(
		handler.NewOrderHandler(logger, orderService, conf.Admin.Secret),
		handler.NewProductHandler(logger, productService, conf.Admin.Secret, conf.Admin.ProtectCatalog),
		handler.NewWishlistHandler(logger, wishlistService),
		handler.NewAuthHandler(logger, authService),
		handler.NewPaymentHandler(logger, razorpay),
		handler.NewContactHandler(logger, smtpMailer, conf.SMTP.AdminEmail),
		handler.NewShippingHandler(logger, shipper, conf.Admin.Secret),
	)
	application.SetWorkers(worker.NewReconciler(logger, orderService, conf.Reconciler))
	application.SetDrain(orderService.Wait)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	productCache.StartJanitor(ctx)
	application.Start(ctx)
	<-ctx.Done()
	application.Stop()
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
