// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/siderolabs/go-optee/pkg/teec"
	"github.com/siderolabs/go-optee/pkg/utee"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "pack and unpack parameter types words",
}

var typesPackCmd = &cobra.Command{
	Use:     "pack [type...]",
	Short:   "pack up to four client parameter types",
	Example: "teectl types pack ValueInput MemrefTempOutput",
	Args:    cobra.RangeArgs(1, 4),
	RunE:    typesPack,
}

var typesUnpackCmd = &cobra.Command{
	Use:     "unpack [word]",
	Short:   "unpack a parameter types word as both sides of the boundary read it",
	Example: "teectl types unpack 0x61",
	Args:    cobra.ExactArgs(1),
	RunE:    typesUnpack,
}

func init() {
	typesCmd.AddCommand(typesPackCmd, typesUnpackCmd)
	rootCmd.AddCommand(typesCmd)
}

func typesPack(cmd *cobra.Command, args []string) error {
	var types [4]teec.ParamType

	for i, name := range args {
		t, ok := teec.ParseParamType(name)
		if !ok {
			return fmt.Errorf("unknown parameter type %q", name)
		}

		types[i] = t
	}

	packed := teec.NewParamTypes(types[0], types[1], types[2], types[3])
	fmt.Fprintf(cmd.OutOrStdout(), "0x%04x\n", packed.Uint32())

	return nil
}

func typesUnpack(cmd *cobra.Command, args []string) error {
	word, err := strconv.ParseUint(args[0], 0, 32)
	if err != nil {
		return fmt.Errorf("invalid types word %q: %w", args[0], err)
	}

	out := cmd.OutOrStdout()

	client := teec.ParamTypes(word)
	fmt.Fprintf(out, "client:              %s\n", client)

	if slots := client.Unrecognized(); len(slots) > 0 {
		fmt.Fprintf(out, "  unrecognized slots: %v\n", slots)
	}

	app := utee.ParamTypes(word)
	fmt.Fprintf(out, "trusted application: %s\n", app)

	if slots := app.Unrecognized(); len(slots) > 0 {
		fmt.Fprintf(out, "  unrecognized slots: %v\n", slots)
	}

	if word > 0xffff {
		logger.Warn("bits above the four slots are ignored", "word", fmt.Sprintf("0x%x", word))
	}

	return nil
}
