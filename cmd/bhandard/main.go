// Command bhandard serves a TTL key/value cache over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/rudransh61/Bhandar/internal/config"
	"github.com/rudransh61/Bhandar/internal/log"
	"github.com/rudransh61/Bhandar/internal/server"
	"github.com/rudransh61/Bhandar/pkg/bhandar"
)

func main() {
	opts, err := config.Parse(os.Args[1:])
	if err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		// go-flags has already printed its own parse errors
		if _, ok := err.(*flags.Error); !ok {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(2)
	}

	log.SetOutput(os.Stdout, opts.LogPretty)
	log.SetLevel(opts.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Fatal().Err(err).Msg("cmd/bhandard")
	}
}

func run(ctx context.Context, opts *config.Opts) error {
	store := bhandar.NewStore(opts.StoreOptions()...)
	srv := server.New(store, server.Config{
		Addr:            opts.Addr,
		RequestTimeout:  opts.RequestTimeout,
		ShutdownTimeout: opts.ShutdownTimeout,
		TTLParser:       opts.TTLParser,
	})

	log.Info(ctx).
		Str("addr", opts.Addr).
		Strs("ttl-units", opts.TTLParser.Units()).
		Dur("reap-interval", opts.ReapInterval).
		Msg("cmd/bhandard: starting")

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return srv.Run(ctx)
	})
	if opts.ReapInterval > 0 {
		reaper := bhandar.NewReaper(store,
			bhandar.WithInterval(opts.ReapInterval),
			bhandar.WithObserver(srv.Metrics().ObserveSweep),
		)
		eg.Go(func() error {
			return reaper.Run(ctx)
		})
	}

	err := eg.Wait()
	log.Info(ctx).Msg("cmd/bhandard: exiting")
	return err
}
