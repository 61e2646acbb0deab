package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/velora-shop/cartserv/config"
	"github.com/velora-shop/cartserv/internal/auth"
	"github.com/velora-shop/cartserv/internal/client"
	delivery "github.com/velora-shop/cartserv/internal/delivery/http"
	"github.com/velora-shop/cartserv/internal/httpserver"
	"github.com/velora-shop/cartserv/internal/store"
	"github.com/velora-shop/cartserv/internal/usecase"
	"github.com/velora-shop/cartserv/pkg/lyfecycle"
	"github.com/velora-shop/cartserv/pkg/redis"
)

// App assembles the storefront cart service: guest store on Redis, the
// Cart API client, the cart usecase and the HTTP surface, started and
// stopped as ordered components.
type App struct {
	cfg  config.Config
	cmps []cmp
}

type cmp struct {
	Service lyfecycle.Lyfecycle
	Name    string
}

func New(cfg config.Config) *App {
	return &App{cfg: cfg}
}

func (app *App) Start(ctx context.Context) error {
	redisDB := redis.NewRedisDB(app.cfg.Redis)
	guestStore := store.NewRedisStore(redisDB, time.Duration(app.cfg.Checkout.GuestCartTTLHours)*time.Hour)

	session := auth.NewSession()
	cartAPI := client.New(app.cfg.CartAPI, session)
	cartUseCase := usecase.New(session, cartAPI, guestStore, app.cfg.Checkout.ShippingFee)
	handler := delivery.NewHandler(cartUseCase)
	httpServer := httpserver.NewServer(app.cfg.HTTP, handler.Router())

	app.cmps = append(
		app.cmps,
		cmp{redisDB, "redis"},
		cmp{httpServer, "http server"},
	)

	okCh, errCh := make(chan struct{}), make(chan error)

	go func() {
		for _, c := range app.cmps {
			log.Printf("%v is starting", c.Name)

			if err := c.Service.Start(ctx); err != nil {
				err = fmt.Errorf("cannot start %s: %v", c.Name, err)

				log.Println(err)

				errCh <- err

				return
			}

			log.Printf("%v started", c.Name)
		}

		if err := cartUseCase.Restore(ctx); err != nil {
			log.Printf("failed to restore guest cart: %v", err)
		}

		okCh <- struct{}{}
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("startup timed out")
	case err := <-errCh:
		return err
	case <-okCh:
		log.Printf("Application started!")
		return nil
	}
}

func (app *App) Stop(ctx context.Context) error {
	log.Println("shutting down service...")
	okCh, errCh := make(chan struct{}), make(chan error)

	go func() {
		for i := len(app.cmps) - 1; i >= 0; i-- {
			c := app.cmps[i]
			log.Printf("stopping %q...", c.Name)

			if err := c.Service.Stop(ctx); err != nil {
				log.Println(err)
				errCh <- err

				return
			}
		}

		okCh <- struct{}{}
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out")
	case err := <-errCh:
		return err
	case <-okCh:
		log.Println("Application stopped!")
		return nil
	}
}
