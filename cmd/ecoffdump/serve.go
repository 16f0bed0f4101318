package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/samcharles93/ecoff/internal/api"
	"github.com/samcharles93/ecoff/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		maxUpload   int64
		rateLimit   float64
		rateBurst   int
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the HTTP decode API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.Int64Flag{
				Name:        "max-upload",
				Usage:       "maximum object size in bytes",
				Value:       api.DefaultMaxUpload,
				Destination: &maxUpload,
			},
			&cli.FloatFlag{
				Name:        "rate",
				Usage:       "requests per second per client (0 = unlimited)",
				Value:       20,
				Destination: &rateLimit,
			},
			&cli.IntFlag{
				Name:        "burst",
				Usage:       "rate limiter burst size",
				Value:       40,
				Destination: &rateBurst,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyServeConfig(cmd, cfg, &addr, &maxUpload, &rateLimit, &rateBurst)
			log := logger.FromContext(ctx)

			server := api.NewServer(api.NewObjectStore(), api.Config{
				Decoder:   decoder(),
				MaxUpload: maxUpload,
				Logger:    log.WithGroup("api"),
			})
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			e.Use(api.RateLimit(api.RateLimitConfig{
				Limit: rate.Limit(rateLimit),
				Burst: rateBurst,
			}))
			server.Register(e)

			log.Info("starting server", "address", addr, "strict", strict, "max_upload", maxUpload, "rate", rateLimit)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
