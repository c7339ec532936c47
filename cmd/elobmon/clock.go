package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gheinzer/zlv-mint-elob-gplib/drivers/ds1307"
	"github.com/gheinzer/zlv-mint-elob-gplib/fault"
)

type clockInfo struct {
	Time      string   `json:"time"`
	Weekday   string   `json:"weekday"`
	Unix      int64    `json:"unix"`
	Registers []string `json:"registers"`
}

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Read the real-time clock of the simulated board",
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureFault()
		rtc := ds1307.New(newSimDevice(time.Now()))
		return printJSON(readClock(rtc))
	},
}

var clockSetCmd = &cobra.Command{
	Use:   "set <rfc3339-time>",
	Short: "Set the clock and read it back",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureFault()
		t, err := time.Parse(time.RFC3339, args[0])
		if err != nil {
			return fmt.Errorf("invalid time %q: %w", args[0], err)
		}

		rtc := ds1307.New(newSimDevice(time.Now()))
		var rec fault.Record
		failed := false
		fault.GuardCapture(func() {
			rtc.SetTime(t)
		}, func(fault.Record) { failed = true }, &rec)
		if failed {
			return fmt.Errorf("clock rejected the time: %s", rec)
		}
		log.Info().Time("time", t).Msg("clock set")
		return printJSON(readClock(rtc))
	},
}

func readClock(rtc *ds1307.RTC) clockInfo {
	t := rtc.Time()
	registers := rtc.ReadAll()
	hex := make([]string, len(registers))
	for i, value := range registers {
		hex[i] = fmt.Sprintf("0x%02X", value)
	}
	return clockInfo{
		Time:      t.Format(time.RFC3339),
		Weekday:   t.Weekday().String(),
		Unix:      t.Unix(),
		Registers: hex,
	}
}

func init() {
	clockCmd.AddCommand(clockSetCmd)
	rootCmd.AddCommand(clockCmd)
}
