package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rmacdonaldsmith/txrelay-go/internal/logging"
	"github.com/rmacdonaldsmith/txrelay-go/internal/metrics"
	"github.com/rmacdonaldsmith/txrelay-go/internal/payload"
	"github.com/rmacdonaldsmith/txrelay-go/internal/relay"
	"github.com/rmacdonaldsmith/txrelay-go/internal/zmqfeed"
	relaypkg "github.com/rmacdonaldsmith/txrelay-go/pkg/relay"
)

const (
	appName    = "txrelay"
	appVersion = "0.1.0"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to YAML config file (overrides the other flags)")
		endpoint    = flag.String("endpoint", "tcp://localhost:5556", "Feed endpoint to connect to")
		prefix      = flag.String("prefix", "", "Marketplace tag prefix (trytes)")
		nodeURL     = flag.String("node-url", "http://localhost:14265", "Node HTTP API for bundle payload lookups")
		metricsAddr = flag.String("metrics-listen", ":9108", "Prometheus metrics listen address (empty disables)")
		logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		showVersion = flag.Bool("version", false, "Show version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", appName, appVersion)
		os.Exit(0)
	}

	logging.Configure(logging.Config{Level: *logLevel, Service: appName})
	log := logging.Logger()

	var config *relay.Config
	if *configPath != "" {
		loaded, err := relay.LoadConfigFile(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
		}
		config = loaded
	} else {
		config = relay.NewConfig(*endpoint, *prefix)
		config.NodeURL = *nodeURL
		if err := config.Validate(); err != nil {
			log.Fatal().Err(err).Msg("invalid configuration")
		}
	}

	extractor, err := payload.NewHTTPExtractor(config.NodeURL, config.ExtractTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create payload extractor")
	}

	registry := prometheus.NewRegistry()
	feedMetrics := metrics.NewFeedMetrics(registry)

	r, err := relay.NewFeedRelay(config, zmqfeed.New(), extractor)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create relay")
	}
	r.WithLogger(log).WithMetrics(feedMetrics)

	id, err := r.Subscribe("tx", func(topic string, event relaypkg.Event) {
		log.Info().
			Str("topic", topic).
			Str("kind", event.Kind.String()).
			Str("hash", event.Hash).
			Str("address", event.Address).
			Int64("timestamp", event.Timestamp).
			RawJSON("data", event.Data).
			Msg("transaction event")
	})
	if err != nil {
		log.Fatal().Err(err).Str("endpoint", config.Endpoint).Msg("failed to subscribe to feed")
	}
	log.Info().
		Str("endpoint", config.Endpoint).
		Str("prefix", config.Prefix).
		Str("subscription", string(id)).
		Msg("relay running")

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, registry)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	if err := r.Close(); err != nil {
		log.Error().Err(err).Msg("error closing relay")
	}
}

func serveMetrics(addr string, registry *prometheus.Registry) {
	log := logging.Logger()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info().Str("addr", addr).Msg("metrics server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("metrics server failed")
	}
}
