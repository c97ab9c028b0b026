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

	"cvs-storefront/internal/config"
	"cvs-storefront/internal/db"
	"cvs-storefront/internal/httpserver"
	adminrepo "cvs-storefront/internal/repository/admin"
	cartrepo "cvs-storefront/internal/repository/cart"
	categoryrepo "cvs-storefront/internal/repository/category"
	checkoutrepo "cvs-storefront/internal/repository/checkout"
	orderrepo "cvs-storefront/internal/repository/order"
	productrepo "cvs-storefront/internal/repository/product"
	storerepo "cvs-storefront/internal/repository/store"
	adminsvc "cvs-storefront/internal/service/admin"
	cartsvc "cvs-storefront/internal/service/cart"
	catalogsvc "cvs-storefront/internal/service/catalog"
	checkoutsvc "cvs-storefront/internal/service/checkout"
	ordersvc "cvs-storefront/internal/service/order"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	categoryRepo := categoryrepo.NewPostgres(dbpool)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	checkoutRepo := checkoutrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	adminRepo := adminrepo.NewPostgres(dbpool)
	storeRepo := storerepo.NewPostgres(dbpool)

	cartService := cartsvc.New(cartRepo, productRepo, cfg.CartTTL, logger)
	catalogService := catalogsvc.New(categoryRepo, productRepo)
	checkoutService := checkoutsvc.New(checkoutRepo, orderRepo, checkoutsvc.Options{
		PartnerMapURL:  cfg.PartnerMapURL,
		PublicBaseURL:  cfg.PublicBaseURL,
		CallbackWindow: cfg.CallbackWindow,
	}, logger)
	orderService := ordersvc.New(orderRepo, logger)
	adminService := adminsvc.New(adminRepo, cfg.AdminJWTSecret, cfg.AdminTokenTTL)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CartSvc:     cartService,
		CatalogSvc:  catalogService,
		CheckoutSvc: checkoutService,
		OrderSvc:    orderService,
		AdminSvc:    adminService,
		Stores:      storeRepo,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepCarts(sweepCtx, cartService, cfg.CartSweepInterval, logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// sweepCarts drops carts idle past their TTL on a fixed interval.
func sweepCarts(ctx context.Context, svc *cartsvc.Service, interval time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := svc.Sweep(ctx)
			if err != nil {
				logger.Printf("cart sweep failed: %v", err)
				continue
			}
			if removed > 0 {
				logger.Printf("cart sweep removed %d idle carts", removed)
			}
		}
	}
}
