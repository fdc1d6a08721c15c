// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/siderolabs/go-optee/internal/ta"
	"github.com/siderolabs/go-optee/pkg/loopback"
	"github.com/siderolabs/go-optee/pkg/remote"
)

const (
	flagListen    = "listen"
	flagMaxBuffer = "max-buffer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve the sample trusted applications over gRPC",
	Long:  "this daemon hosts the sample trusted applications in process and exposes them to teectl --remote clients",
	RunE:  serve,
}

var errServeFailed = errors.New("error serving tee")

func init() {
	pf := serveCmd.PersistentFlags()
	pf.String(flagListen, "localhost:5070", "address to listen on")
	pf.Uint64(flagMaxBuffer, remote.DefaultMaxBuffer, "largest memory reference accepted from a client")

	if err := viper.BindPFlags(pf); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, _ []string) error {
	tee := loopback.New(logger.With("module", "loopback"))
	if err := ta.InstallAll(tee, logger); err != nil {
		return err
	}

	for _, h := range tee.Applications() {
		logger.Info("application installed", "uuid", h.UUID, "description", h.Description, "flags", h.Flags)
	}

	lis, err := net.Listen("tcp", viper.GetString(flagListen))
	if err != nil {
		return fmt.Errorf("%w: %w", errServeFailed, err)
	}

	server := remote.NewServer(tee, logger.With("module", "remote"))
	server.SetMaxBuffer(viper.GetUint64(flagMaxBuffer))

	srv := grpc.NewServer()
	server.Register(srv)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Graceful shutdown on SIGINT/SIGTERM
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	defer signal.Stop(sig)

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logger.Info("serving", "addr", lis.Addr().String())

		return srv.Serve(lis)
	})

	eg.Go(func() error {
		select {
		case s := <-sig:
			logger.Debug("signal received", "signal", s)
		case <-ctx.Done():
		}

		srv.GracefulStop()

		return tee.Close(context.WithoutCancel(ctx))
	})

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("%w: %w", errServeFailed, err)
	}

	logger.Info("graceful shutdown done, fair winds!")

	return nil
}
