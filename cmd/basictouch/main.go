// basictouch bridges a parameter table to a TouchOSC style remote surface.
//
//	basictouch -config basictouch.yaml
//	curl http://127.0.0.1:8080/api/layout
//	curl -X POST http://127.0.0.1:8080/api/start
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/from-vacuum/basic-touch/config"
	"github.com/from-vacuum/basic-touch/osc"
	"github.com/from-vacuum/basic-touch/param"
	"github.com/from-vacuum/basic-touch/touch"
)

func main() {
	configPath := flag.String("config", "basictouch.yaml", "configuration file")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "text", "log format (text, json)")
	flag.Parse()

	logger := logrus.New()
	if err := setupLogger(logger, *logLevel, *logFormat); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, *configPath, logger)
	stop()
	if err != nil {
		logger.WithError(err).Fatal("basictouch stopped")
	}
}

func setupLogger(logger *logrus.Logger, level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(lvl)

	switch format {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return errors.Errorf("unknown log format %q", format)
	}
	return nil
}

func run(ctx context.Context, configPath string, logger *logrus.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	table, err := param.LoadTable(cfg.Parameters)
	if err != nil {
		return err
	}

	store := param.NewMemory(table)
	presets := param.NewPresets(store, table.Presets, logger)
	defer presets.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := touch.NewMetrics(reg)

	mode, err := touch.ParseMode(cfg.Transport.Mode)
	if err != nil {
		return err
	}
	dispatcher := &osc.Dispatcher{}
	transport := touch.NewTransport(mode, dispatcher, metrics, logger)

	opts := cfg.Options(logger, metrics)
	opts.Presets = presets
	surface := touch.New(store, transport, opts)
	if err := surface.Register(dispatcher); err != nil {
		return errors.Wrap(err, "register handlers")
	}
	store.OnChange(surface.OnValueChange)
	store.OnModeChange(surface.OnModeChange)

	g, ctx := errgroup.WithContext(ctx)

	switch mode {
	case touch.ModeUDP:
		client, err := osc.Dial(cfg.Transport.Send)
		if err != nil {
			return errors.Wrapf(err, "dial %s", cfg.Transport.Send)
		}
		defer client.Close()
		transport.SetDatagram(client)

	case touch.ModeTCP:
		c, err := net.Dial("tcp", cfg.Transport.Send)
		if err != nil {
			return errors.Wrapf(err, "dial %s", cfg.Transport.Send)
		}
		conn := osc.NewStreamConn(c, logger)
		transport.SetStream(conn)
		g.Go(func() error {
			err := conn.Serve(transport.ReceiveStream)
			logger.WithField("conn", conn.ID()).Warn("surface stream closed")
			return err
		})
		g.Go(func() error {
			<-ctx.Done()
			return ignoreClosed(conn.Close())
		})
	}

	if cfg.Transport.Listen != "" {
		pc, err := net.ListenPacket("udp", cfg.Transport.Listen)
		if err != nil {
			return errors.Wrapf(err, "listen %s", cfg.Transport.Listen)
		}
		server := &osc.Server{
			Handler: func(data []byte, _ net.Addr) { transport.ReceiveDatagram(data) },
			Logger:  logger,
		}
		logger.WithField("addr", pc.LocalAddr()).Info("listening for OSC datagrams")
		g.Go(func() error { return server.Serve(pc) })
		g.Go(func() error {
			<-ctx.Done()
			return ignoreClosed(pc.Close())
		})
	}

	if cfg.Admin.Listen != "" {
		a := &admin{
			surface:  surface,
			store:    store,
			table:    table,
			presets:  presets,
			gatherer: reg,
			log:      logger,
		}
		srv := &http.Server{
			Addr:              cfg.Admin.Listen,
			Handler:           a.router(logger.IsLevelEnabled(logrus.DebugLevel)),
			ReadHeaderTimeout: 5 * time.Second,
		}
		logger.WithField("addr", cfg.Admin.Listen).Info("admin API listening")
		g.Go(func() error {
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		if err := surface.Start(ctx, table.Params()); err != nil && ctx.Err() != nil {
			return nil
		}
		logger.WithField("transport", mode).Infof("published %d rows", len(surface.Rows()))
		return nil
	})

	return g.Wait()
}

func ignoreClosed(err error) error {
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
