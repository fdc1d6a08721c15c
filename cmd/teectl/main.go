// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package main is the main package invoking the tool
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/siderolabs/go-optee/internal/grpclog"
	"github.com/siderolabs/go-optee/internal/ta"
	"github.com/siderolabs/go-optee/internal/util"
	"github.com/siderolabs/go-optee/internal/version"
	"github.com/siderolabs/go-optee/pkg/loopback"
	"github.com/siderolabs/go-optee/pkg/remote"
	"github.com/siderolabs/go-optee/pkg/teec"
)

const (
	flagLogLevel = "log-level"
	flagRemote   = "remote"
)

var rootCmd = &cobra.Command{
	Use:               "teectl",
	Short:             "toolset around the TEE parameter boundary",
	Long:              "this tool packs and inspects TEE operations and invokes trusted applications, in process or over gRPC",
	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

var errLogLevel = errors.New("error parsing log level")

var logger *slog.Logger

func setup(cmd *cobra.Command, _ []string) error {
	level, err := util.ParseLevel(viper.GetString(flagLogLevel))
	if err != nil {
		return fmt.Errorf("%w: %w", errLogLevel, err)
	}

	logger = util.NewLogger(os.Stderr, level).With("command", cmd.Name())

	grpclog.Install(grpclog.New(logger.With("module", "grpc"), 2))

	util.TraceLog(logger, version.String()+" © 2026 Sidero Labs, Inc.")

	return nil
}

// openContext returns a client context on the remote TEE when one is
// configured, and on an in-process TEE hosting the sample applications
// otherwise. The returned function releases everything.
func openContext() (*teec.Context, func(context.Context) error, error) {
	if addr := viper.GetString(flagRemote); addr != "" {
		conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to set up connection to %q: %w", addr, err)
		}

		logger.Debug("using remote tee", "addr", addr)

		tctx := teec.NewContext(remote.NewClient(conn, logger.With("module", "remote")), logger.With("module", "teec"))

		return tctx, func(ctx context.Context) error {
			return multierror.Append(tctx.Close(ctx), conn.Close()).ErrorOrNil()
		}, nil
	}

	tee := loopback.New(logger.With("module", "loopback"))
	if err := ta.InstallAll(tee, logger); err != nil {
		return nil, nil, err
	}

	tctx := teec.NewContext(tee, logger.With("module", "teec"))

	return tctx, func(ctx context.Context) error {
		return multierror.Append(tctx.Close(ctx), tee.Close(ctx)).ErrorOrNil()
	}, nil
}

func init() {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`-`, `_`))
	viper.SetEnvPrefix("teectl")

	pf := rootCmd.PersistentFlags()
	pf.String(flagLogLevel, "warn", "log level (error, warn, info, debug, trace)")
	pf.String(flagRemote, "", "address of a teectl serve instance; the sample applications run in process when empty")

	if err := viper.BindPFlags(pf); err != nil {
		panic(err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
