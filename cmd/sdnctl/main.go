package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pathweave/sdnctl"
	"github.com/pathweave/sdnctl/config"
	"github.com/pathweave/sdnctl/controller"
	"github.com/pathweave/sdnctl/pathengine"
	"github.com/pathweave/sdnctl/statspoller"
	"github.com/pathweave/sdnctl/topology"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.json", "path to the controller's JSON configuration file")
	bootstrapPath := flag.String("bootstrap", "", "path to an optional JSON topology bootstrap file")
	flag.Parse()

	log := logrus.New()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Error("failed to load configuration")
		return 1
	}
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	store := &topology.Store{IdleTimeout: 30 * time.Second}

	if *bootstrapPath != "" {
		boot, err := config.LoadBootstrap(*bootstrapPath)
		if err != nil {
			log.WithError(err).Error("failed to load topology bootstrap")
			return 1
		}
		boot.Apply(store)
		log.WithField("switches", len(boot.Switches)).Info("applied topology bootstrap")
	}

	engine := &pathengine.Engine{
		Store: store,
		Cost:  cfg.CostFunc(),
		RefBw: cfg.OSPFReferenceBandwidth,
	}

	ctrl := controller.New(store, engine, log)

	ln, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		log.WithError(err).Error("failed to listen")
		return 1
	}

	srv := &of.Server{
		Handler:     ctrl.Mux(),
		ConnState:   ctrl.ConnState,
		IdleTimeout: 30 * time.Second,
	}

	poller := &statspoller.Poller{
		Conns:    ctrl,
		Interval: time.Duration(cfg.PollIntervalSec) * time.Second,
		Log:      log,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The listener, stats poller and topology sweeper are supervised
	// as one cancellable group: a SIGINT/SIGTERM or any one of them
	// failing tears down the other two.
	g, ctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		<-ctx.Done()
		return ln.Close()
	})

	g.Go(func() error {
		log.WithField("addr", cfg.ListenAddr()).Info("listening for switch connections")
		if err := srv.Serve(ln); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	})

	g.Go(func() error {
		poller.Run(ctx)
		return nil
	})

	g.Go(func() error {
		return store.SweepLoop(ctx, time.Duration(cfg.PollIntervalSec)*time.Second)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("controller exited with error")
		return 1
	}

	log.Info("shut down cleanly")
	return 0
}
