// SPDX-FileCopyrightText: Copyright (c) 2026 Sidero Labs, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/siderolabs/go-optee/pkg/param"
	"github.com/siderolabs/go-optee/pkg/remote"
	"github.com/siderolabs/go-optee/pkg/teec"
)

const flagBlockSize = "block-size"

var layoutCmd = &cobra.Command{
	Use:   "layout [param...]",
	Short: "print the TEEC_Operation image of an operation",
	Long: `builds an operation from up to four parameters and prints its binary image.

Parameters are written TYPE, TYPE:a,b for values, TYPE:size for temporary
references and TYPE:offset,size for partial references into a registered block.`,
	Example: "teectl layout ValueInput:7,9 MemrefTempOutput:16 None MemrefPartialInout:8,32",
	Args:    cobra.MaximumNArgs(param.Slots),
	RunE:    layout,
}

var blockSize int

func init() {
	layoutCmd.Flags().IntVar(&blockSize, flagBlockSize, 4096, "size of the registered block partial references point into")
	rootCmd.AddCommand(layoutCmd)
}

func layout(cmd *cobra.Command, args []string) error {
	tctx, closeContext, err := openContext()
	if err != nil {
		return err
	}

	defer closeContext(cmd.Context()) //nolint:errcheck

	shm, err := tctx.AllocateSharedMemory(blockSize, teec.MemInput|teec.MemOutput)
	if err != nil {
		return err
	}

	var params [param.Slots]teec.Param

	for i, arg := range args {
		if params[i], err = parseParam(arg, shm); err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}
	}

	op := teec.NewOperation(params[0], params[1], params[2], params[3])

	b, err := op.MarshalBinary()
	if err != nil {
		return err
	}

	img, err := teec.ParseImage(b)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "paramTypes: %s\n", img.Types)

	for i, s := range img.Slots {
		fmt.Fprintf(out, "params[%d]:  %s\n", i, s)
	}

	fmt.Fprintf(out, "\n%s", hex.Dump(b))

	return nil
}

func parseParam(arg string, shm *teec.SharedMemory) (teec.Param, error) {
	name, rest, _ := strings.Cut(arg, ":")

	typ, ok := teec.ParseParamType(name)
	if !ok {
		return nil, fmt.Errorf("unknown parameter type %q", name)
	}

	var nums []uint64

	if rest != "" {
		for _, field := range strings.Split(rest, ",") {
			n, err := strconv.ParseUint(field, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q: %w", field, err)
			}

			nums = append(nums, n)
		}
	}

	num := func(i int) uint64 {
		if i < len(nums) {
			return nums[i]
		}

		return 0
	}

	switch typ.Class() {
	case param.ClassNone:
		return teec.ParamNone{}, nil
	case param.ClassValue:
		return teec.NewParamValue(uint32(num(0)), uint32(num(1)), typ)
	case param.ClassTempMemref:
		if num(0) > remote.DefaultMaxBuffer {
			return nil, fmt.Errorf("temporary reference of %d bytes exceeds %d", num(0), remote.DefaultMaxBuffer)
		}

		return teec.NewParamTmpRef(make([]byte, num(0)), typ)
	case param.ClassRegisteredMemref:
		if typ == teec.ParamTypeMemrefWhole {
			return teec.NewParamMemrefWhole(shm)
		}

		return teec.NewParamMemrefPartial(shm, num(0), num(1), typ)
	}

	return nil, fmt.Errorf("unsupported parameter type %s", typ)
}
