package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gheinzer/zlv-mint-elob-gplib/fault"
)

// conditions maps condition names to their codes for the demo command.
var conditions = map[string]fault.Code{
	"ERR_STR_TOO_LONG":       fault.StrTooLong,
	"ERR_BITRATE_TOO_LOW":    fault.BitrateTooLow,
	"ERR_BUS_TRANSMISSION":   fault.BusTransmission,
	"ERR_BUFFER_OVERFLOW":    fault.BufferOverflow,
	"ERR_OUT_OF_RANGE":       fault.OutOfRange,
	"ERR_INVALID_STR":        fault.InvalidString,
	"ERR_INVALID_UNIT":       fault.InvalidUnit,
	"ERR_PRECISION_VIOLATED": fault.PrecisionViolated,
	"ERR_USER":               fault.User,
}

type recordInfo struct {
	Condition string `json:"condition"`
	Code      int    `json:"code"`
	Message   string `json:"message,omitempty"`
	File      string `json:"file"`
	Line      int    `json:"line"`
	Function  string `json:"function"`
}

var raiseCmd = &cobra.Command{
	Use:   "raise [condition]",
	Short: "Raise a fault and show how the runtime handles it",
	Long: "Raises the given condition (default ERR_USER) inside a guarded\n" +
		"section and prints the captured record. With --uncaught the raise\n" +
		"happens with no guard active, so the terminal handler takes over:\n" +
		"the diagnostic goes to stderr and the process exits.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureFault()
		fault.RegisterName(fault.User, "ERR_USER")

		code := fault.User
		if len(args) > 0 {
			name := strings.ToUpper(args[0])
			c, ok := conditions[name]
			if !ok {
				return fmt.Errorf("unknown condition %q (one of: %s)", args[0], conditionNames())
			}
			code = c
		}
		message, _ := cmd.Flags().GetString("message")
		uncaught, _ := cmd.Flags().GetBool("uncaught")

		doRaise := func() {
			if message != "" {
				fault.Raisef(code, "%s", message)
			} else {
				fault.Raise(code)
			}
		}

		if uncaught {
			doRaise() // does not return
			return nil
		}

		var rec fault.Record
		fault.GuardCapture(doRaise, func(r fault.Record) {
			log.Debug().Str("condition", r.Name).Msg("fault caught by guard")
		}, &rec)

		msg, _ := rec.Message()
		return printJSON(recordInfo{
			Condition: rec.Name,
			Code:      int(rec.Code),
			Message:   msg,
			File:      rec.Location.File,
			Line:      rec.Location.Line,
			Function:  rec.Location.Function,
		})
	},
}

func conditionNames() string {
	names := make([]string, 0, len(conditions))
	for name := range conditions {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func init() {
	raiseCmd.Flags().String("message", "", "attach a message to the fault")
	raiseCmd.Flags().Bool("uncaught", false, "raise with no guard active")
	rootCmd.AddCommand(raiseCmd)
}
