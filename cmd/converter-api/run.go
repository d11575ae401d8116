package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	apiserver "github.com/gemforge/cad-converter/internal/api_server"
	"github.com/gemforge/cad-converter/internal/client"
	"github.com/gemforge/cad-converter/internal/config"
	"github.com/gemforge/cad-converter/internal/events"
	"github.com/gemforge/cad-converter/internal/service"
	"github.com/gemforge/cad-converter/internal/storage"
	"github.com/gemforge/cad-converter/internal/store"
	"github.com/gemforge/cad-converter/pkg/log"
	"github.com/gemforge/cad-converter/pkg/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the converter api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalw("reading configuration", "error", err)
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}

		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()

		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Starting converter API service")
		defer zap.S().Info("Converter API service stopped")

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := s.InitialMigration(); err != nil {
			zap.S().Fatalw("running initial migration", "error", err)
		}

		prometheus.MustRegister(metrics.NewConversionStatsCollector(s))

		objects, err := storage.NewMinioStore(
			storage.WithEndpoint(cfg.Service.S3.Endpoint),
			storage.WithBucket(cfg.Service.S3.Bucket),
			storage.WithAccessKey(cfg.Service.S3.AccessKey),
			storage.WithSecretKey(cfg.Service.S3.SecretKey),
			storage.WithSSL(cfg.Service.S3.UseSSL),
			storage.WithPublicBaseURL(cfg.Service.S3.PublicBaseURL),
		)
		if err != nil {
			zap.S().Fatalw("initializing object store", "error", err)
		}

		cad := client.NewCadClient(cfg.Service.CadService.URL, client.WithTimeout(cfg.Service.CadService.Timeout))

		var producerOpts []events.ProducerOptions
		if cfg.Service.Kafka.Topic != "" {
			producerOpts = append(producerOpts, events.WithOutputTopic(cfg.Service.Kafka.Topic))
		}
		ep := events.NewEventProducer(newEventWriter(cfg), producerOpts...)
		defer func() { _ = ep.Close() }()

		converter := service.NewConversionService(s, cad, objects, ep)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			server := apiserver.New(cfg, converter, listener)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalw("running api server", "error", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalw("creating metrics listener", "error", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalw("running metrics server", "error", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}

func newEventWriter(cfg *config.Config) events.Writer {
	if len(cfg.Service.Kafka.Brokers) == 0 {
		return &events.StdoutWriter{}
	}

	w, err := events.NewKafkaWriter(cfg.Service.Kafka.Brokers, cfg.Service.Kafka.ClientID)
	if err != nil {
		zap.S().Errorw("failed to create kafka writer, falling back to stdout", "error", err)
		return &events.StdoutWriter{}
	}
	return w
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
