package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/saitejagovikar/my-website-sub000/internal/address"
	"github.com/saitejagovikar/my-website-sub000/internal/auth"
	"github.com/saitejagovikar/my-website-sub000/internal/cart"
	"github.com/saitejagovikar/my-website-sub000/internal/catalog"
	"github.com/saitejagovikar/my-website-sub000/internal/checkout"
	"github.com/saitejagovikar/my-website-sub000/internal/config"
	"github.com/saitejagovikar/my-website-sub000/internal/gateway"
	"github.com/saitejagovikar/my-website-sub000/internal/httpapi"
	"github.com/saitejagovikar/my-website-sub000/internal/notify"
	"github.com/saitejagovikar/my-website-sub000/internal/order"
	"github.com/saitejagovikar/my-website-sub000/internal/storage"
)

type indexCreator interface {
	CreateIndexes(ctx context.Context) error
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := storage.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	cancel()
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Client().Disconnect(ctx); err != nil {
			log.Printf("mongodb disconnect: %v", err)
		}
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	sessions := cart.NewRedisSessionStore(redisClient)
	mirror := cart.NewMongoMirrorRepository(db)
	syncer := cart.NewSyncer(sessions, mirror, cfg.SyncDebounce)
	carts := cart.NewService(sessions, mirror, syncer)

	products := catalog.NewMongoRepository(db)
	addressRepo := address.NewMongoAddressRepository(db)
	addresses := address.NewService(addressRepo, address.NewMongoProfileRepository(db))
	orders := order.NewMongoRepository(db)

	for _, repo := range []interface{}{mirror, orders, addressRepo} {
		if ic, ok := repo.(indexCreator); ok {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := ic.CreateIndexes(ctx); err != nil {
				log.Printf("index creation: %v", err)
			}
			cancel()
		}
	}

	publisher := notify.NewKafkaPublisher(cfg.KafkaBrokers...)
	defer publisher.Close()

	orderSvc := order.NewService(orders, publisher)

	razorpay := gateway.WithBreaker(gateway.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpaySecret))
	orchestrator := checkout.NewOrchestrator(razorpay, orders, carts, addresses, publisher)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Verifier:       auth.NewVerifier(cfg.JWTSecret),
		Carts:          httpapi.NewCartHandler(carts, products, cfg.RequestTimeout),
		Checkout:       httpapi.NewCheckoutHandler(orchestrator, carts, addresses, cfg.RequestTimeout),
		Orders:         httpapi.NewOrdersHandler(orderSvc, cfg.RequestTimeout),
		Addresses:      httpapi.NewAddressHandler(addresses, cfg.RequestTimeout),
		Products:       httpapi.NewProductHandler(products, cfg.RequestTimeout),
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	// push any debounced cart writes before the mirror goes away
	syncer.Flush()

	log.Println("server exited")
}
