package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Probe the board peripherals and report failures",
	RunE: func(cmd *cobra.Command, args []string) error {
		board, bus := newSimBoard()
		injectFault, _ := cmd.Flags().GetBool("inject-fault")
		if !injectFault {
			// A healthy clock chip answers one register read.
			stubRTCRead(bus)
		}

		err := board.SelfTest()
		if err == nil {
			color.Green("all probes passed")
			return nil
		}

		if merr, ok := err.(*multierror.Error); ok {
			for _, probeErr := range merr.Errors {
				color.Red("FAIL %s", probeErr)
			}
			return fmt.Errorf("%d of 3 probes failed", len(merr.Errors))
		}
		return err
	},
}

func init() {
	selftestCmd.Flags().Bool("inject-fault", false, "leave the clock bus dead so its probe fails")
	rootCmd.AddCommand(selftestCmd)
}
