// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/siderolabs/go-optee/internal/ta"
	"github.com/siderolabs/go-optee/pkg/teec"
)

const flagDecrement = "dec"

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "invoke one of the sample trusted applications",
}

var invokeHelloCmd = &cobra.Command{
	Use:     "hello [value]",
	Short:   "increment or decrement a value inside the hello application",
	Example: "teectl invoke hello 42 --dec",
	Args:    cobra.ExactArgs(1),
	RunE:    invokeHello,
}

var invokeReverseCmd = &cobra.Command{
	Use:     "reverse [text]",
	Short:   "reverse text inside the reverse application",
	Example: "teectl invoke reverse 'fair winds'",
	Args:    cobra.ExactArgs(1),
	RunE:    invokeReverse,
}

func init() {
	invokeHelloCmd.Flags().Bool(flagDecrement, false, "decrement instead of increment")

	invokeCmd.AddCommand(invokeHelloCmd, invokeReverseCmd)
	rootCmd.AddCommand(invokeCmd)
}

func invokeHello(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[0], err)
	}

	command := ta.HelloCmdIncValue
	if dec, _ := cmd.Flags().GetBool(flagDecrement); dec {
		command = ta.HelloCmdDecValue
	}

	tctx, closeContext, err := openContext()
	if err != nil {
		return err
	}

	defer closeContext(cmd.Context()) //nolint:errcheck

	sessions, err := teec.NewParamValue(0, 0, teec.ParamTypeValueOutput)
	if err != nil {
		return err
	}

	count := teec.NewOperation(sessions, teec.ParamNone{}, teec.ParamNone{}, teec.ParamNone{})

	session, err := tctx.OpenSession(cmd.Context(), teec.UUIDFrom(ta.HelloUUID), teec.LoginPublic, count)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	defer session.Close(cmd.Context()) //nolint:errcheck

	if v, err := count.Value(0); err == nil {
		logger.Debug("session opened", "session", session.ID(), "sessions", v.A())
	}

	inout, err := teec.NewParamValue(uint32(value), 0, teec.ParamTypeValueInout)
	if err != nil {
		return err
	}

	op := teec.NewOperation(inout, teec.ParamNone{}, teec.ParamNone{}, teec.ParamNone{})

	if err := session.InvokeCommand(cmd.Context(), command, op); err != nil {
		return err
	}

	v, err := op.Value(0)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), v.A())

	return nil
}

func invokeReverse(cmd *cobra.Command, args []string) error {
	tctx, closeContext, err := openContext()
	if err != nil {
		return err
	}

	defer closeContext(cmd.Context()) //nolint:errcheck

	session, err := tctx.OpenSession(cmd.Context(), teec.UUIDFrom(ta.ReverseUUID), teec.LoginPublic, nil)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	defer session.Close(cmd.Context()) //nolint:errcheck

	in, err := teec.NewParamTmpRef([]byte(args[0]), teec.ParamTypeMemrefTempInput)
	if err != nil {
		return err
	}

	// Start without room and let the application say how much it needs.
	var out []byte

	for {
		outRef, err := teec.NewParamTmpRef(out, teec.ParamTypeMemrefTempOutput)
		if err != nil {
			return err
		}

		op := teec.NewOperation(in, outRef, teec.ParamNone{}, teec.ParamNone{})

		err = session.InvokeCommand(cmd.Context(), ta.ReverseCmdReverse, op)
		if errors.Is(err, teec.ErrShortBuffer) {
			size, serr := op.Size(1)
			if serr != nil {
				return serr
			}

			if size <= uint64(len(out)) {
				return fmt.Errorf("application asked for %d bytes with %d supplied: %w", size, len(out), err)
			}

			logger.Debug("growing output buffer", "have", len(out), "need", size)
			out = make([]byte, size)

			continue
		}

		if err != nil {
			return err
		}

		result, err := op.Buffer(1)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(result))

		return nil
	}
}
