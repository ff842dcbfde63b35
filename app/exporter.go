package app

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/longhorn/dsm-exporter/api"
	"github.com/longhorn/dsm-exporter/client"
	"github.com/longhorn/dsm-exporter/controller"
	"github.com/longhorn/dsm-exporter/datastore"
	"github.com/longhorn/dsm-exporter/metrics_collector/client_go_adaper"
	"github.com/longhorn/dsm-exporter/metrics_collector/registry"
	"github.com/longhorn/dsm-exporter/monitoring"
	"github.com/longhorn/dsm-exporter/types"
	"github.com/longhorn/dsm-exporter/util"
	"github.com/longhorn/dsm-exporter/util/server"

	metricscollector "github.com/longhorn/dsm-exporter/metrics_collector"
)

var VERSION = "dev"

const shutdownTimeout = 5 * time.Second

func ExporterCmd() cli.Command {
	return cli.Command{
		Name:  "exporter",
		Usage: "Poll a DiskStation and expose its metrics for Prometheus",
		Flags: ExporterFlags(),
		Action: func(c *cli.Context) {
			if err := startExporter(c); err != nil {
				logrus.Fatalf("Error running exporter: %v", err)
			}
		},
	}
}

func startExporter(c *cli.Context) error {
	cfg, err := LoadConfig(c)
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	logger := logrus.StandardLogger()
	logger.WithFields(Settings(cfg)).Infof("Starting DSM exporter %v", VERSION)

	reg := registry.NewRegistry(logger)
	requestMetrics := client_go_adaper.NewRequestMetrics()
	if err := requestMetrics.Register(reg); err != nil {
		return errors.Wrap(err, "failed to register request metrics")
	}
	mc, err := metricscollector.NewMetricsCollector(logger, reg)
	if err != nil {
		return err
	}
	pollCollector, err := monitoring.InitMonitoringSystem(logger, reg)
	if err != nil {
		return err
	}

	port, err := cfg.PortNumber()
	if err != nil {
		return err
	}
	dsm, err := client.NewClient(&client.ClientOpts{
		Host:      cfg.Host,
		Port:      port,
		Username:  cfg.Username,
		Password:  cfg.Password,
		UseTLS:    cfg.UseTLS,
		VerifyTLS: cfg.VerifyTLS,
		Timeout:   time.Duration(cfg.RequestTimeout) * time.Second,
		Observer:  requestMetrics,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	ctx := util.NewShutdownContext(context.Background())
	if err := dsm.Login(ctx); err != nil {
		return err
	}
	defer logout(dsm)

	srv := server.NewTCPServer(cfg.ListenAddress,
		api.NewRouter(api.NewServer(logger, dsm.BaseURL(), reg.Handler(), pollCollector)))
	listener, err := srv.Listen()
	if err != nil {
		return err
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(listener)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Failed to shut down metrics server")
		}
	}()

	ds := datastore.NewDataStore(logger, dsm)
	pc := controller.NewPollController(logger, time.Duration(cfg.PollInterval)*time.Second, ds, mc, pollCollector)
	runErr := make(chan error, 1)
	go func() {
		runErr <- pc.Run(ctx)
	}()

	select {
	case err = <-runErr:
	case err = <-serveErr:
		if err == nil {
			err = errors.New("metrics server stopped unexpectedly")
		}
	}
	return err
}

func logout(dsm *client.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := dsm.Logout(ctx); err != nil {
		logrus.WithError(err).Warn("Failed to log out from the DiskStation")
	}
}

// Settings lists the effective value of every setting with the password
// masked.
func Settings(cfg *types.Config) logrus.Fields {
	fields := logrus.Fields{}
	for _, name := range types.SettingNameList {
		value := cfg.GetValue(name)
		if name == types.SettingNamePassword && value != "" {
			value = "********"
		}
		fields[string(name)] = value
	}
	return fields
}
