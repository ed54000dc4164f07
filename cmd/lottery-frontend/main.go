package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"

	"github.com/ethpandaops/lottery/handlers"
	"github.com/ethpandaops/lottery/handlers/middleware"
	"github.com/ethpandaops/lottery/metrics"
	"github.com/ethpandaops/lottery/services"
	"github.com/ethpandaops/lottery/types"
	"github.com/ethpandaops/lottery/utils"
)

func main() {
	configPath := flag.String("config", "", "Path to the config file, if empty string defaults will be used")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &types.Config{}
	err := utils.ReadConfig(cfg, *configPath)
	if err != nil {
		logrus.Fatalf("error reading config file: %v", err)
	}
	utils.Config = cfg
	logWriter, logger := utils.InitLogger()
	defer logWriter.Dispose()

	logger.WithFields(logrus.Fields{
		"config":  *configPath,
		"version": utils.BuildVersion,
		"release": utils.BuildRelease,
	}).Printf("starting")

	err = services.InitLotteryService(ctx, logger)
	if err != nil {
		logger.Fatalf("error initializing lottery service: %v", err)
	}

	err = services.GlobalLotteryService.StartService(ctx)
	if err != nil {
		logger.Fatalf("error starting lottery service: %v", err)
	}

	if cfg.Metrics.Enabled && !cfg.Metrics.Public {
		err = metrics.StartMetricsServer(ctx, logger.WithField("module", "metrics"), cfg.Metrics.Host, cfg.Metrics.Port)
		if err != nil {
			logger.Fatalf("error starting metrics server: %v", err)
		}
	}

	if cfg.RateLimit.Enabled {
		err = services.StartCallRateLimiter(ctx, cfg.RateLimit.ProxyCount, cfg.RateLimit.Rate, cfg.RateLimit.Burst)
		if err != nil {
			logger.Fatalf("error starting call rate limiter: %v", err)
		}
	}

	var webserver *http.Server
	if cfg.Frontend.Enabled {
		webserver, err = startWebserver(ctx, logger)
		if err != nil {
			logger.Fatalf("error starting webserver: %v", err)
		}
	}

	utils.WaitForCtrlC()
	logger.Println("exiting...")

	// stops pending lottery actions, the metrics server and the rate limiter cleanup
	cancel()

	if webserver != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		webserver.Shutdown(shutdownCtx)
	}
	services.GlobalLotteryService.StopService()
}

func startWebserver(ctx context.Context, logger logrus.FieldLogger) (*http.Server, error) {
	handlers.SetActionContext(ctx)

	router := mux.NewRouter()

	// reads are free, every state changing call costs one token
	for _, path := range []string{"/", "/index", "/index/data", "/index/ws"} {
		middleware.SetEndpointCost(http.MethodGet, path, 0)
	}

	router.HandleFunc("/", handlers.Index).Methods("GET")
	router.HandleFunc("/index", handlers.Index).Methods("GET")
	router.HandleFunc("/index/data", handlers.IndexData).Methods("GET")
	router.HandleFunc("/index/ws", handlers.IndexWebsocket).Methods("GET")
	router.HandleFunc("/enter", handlers.Enter).Methods("POST")
	router.HandleFunc("/select-winner", handlers.SelectWinner).Methods("POST")
	router.HandleFunc("/refresh", handlers.Refresh).Methods("GET")

	if utils.Config.Frontend.Pprof {
		// add pprof handler
		router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
		router.Handle("/debug/metrics", metrics.GetMetricsHandler())
	}

	if utils.Config.Metrics.Enabled && utils.Config.Metrics.Public {
		middleware.SetEndpointCost(http.MethodGet, "/metrics", 0)
		router.Handle("/metrics", metrics.GetMetricsHandler())
	}

	router.NotFoundHandler = http.HandlerFunc(handlers.NotFound)

	n := negroni.New()
	n.Use(negroni.NewRecovery())
	if len(utils.Config.Frontend.CorsOrigins) > 0 {
		n.Use(cors.New(cors.Options{
			AllowedOrigins: utils.Config.Frontend.CorsOrigins,
			AllowedMethods: []string{http.MethodGet},
		}))
	}
	n.UseHandler(middleware.CallCostMiddleware(middleware.RateLimitMiddleware(router)))

	if utils.Config.Frontend.HttpWriteTimeout == 0 {
		utils.Config.Frontend.HttpWriteTimeout = time.Second * 15
	}
	if utils.Config.Frontend.HttpReadTimeout == 0 {
		utils.Config.Frontend.HttpReadTimeout = time.Second * 15
	}
	if utils.Config.Frontend.HttpIdleTimeout == 0 {
		utils.Config.Frontend.HttpIdleTimeout = time.Second * 60
	}
	srv := &http.Server{
		Addr:         utils.Config.Server.Host + ":" + utils.Config.Server.Port,
		WriteTimeout: utils.Config.Frontend.HttpWriteTimeout,
		ReadTimeout:  utils.Config.Frontend.HttpReadTimeout,
		IdleTimeout:  utils.Config.Frontend.HttpIdleTimeout,
		Handler:      n,
	}

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, err
	}

	logger.Printf("http server listening on %v", srv.Addr)
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Error serving frontend")
		}
	}()

	return srv, nil
}
