package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"approval-routing-backend/config"
	apiv1 "approval-routing-backend/controllers/v1"
	"approval-routing-backend/fiberlog"
	"approval-routing-backend/initializers"
	"approval-routing-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	app := fiber.New()
	app.Use(fiberRecover.New())
	app.Use(middleware.WithBodyLimit(config.Conf.App.BodyLimit))
	if config.Conf.App.ErrNotifyURL != "" {
		app.Use(middleware.ErrNotify(config.Conf.App.ErrNotifyURL))
	}

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE",
	}))
	apiV1.Use(middleware.AuthorizationRequired())
	apiv1.InitRoutingApiRouters(apiV1)
	apiv1.InitStepApiRouters(apiV1)
	apiv1.InitDelegationApiRouters(apiV1)
	apiv1.InitUserApiRouters(apiV1)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-c
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		time.Sleep(time.Second)
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
