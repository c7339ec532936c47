package main

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	elob "github.com/gheinzer/zlv-mint-elob-gplib"
	"github.com/gheinzer/zlv-mint-elob-gplib/hw"
)

// UART1 register addresses on the simulated bus.
const (
	regUSBCtrlA hw.Reg = 0xC8
	regUSBData  hw.Reg = 0xCE
)

const echoWidth = 24

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Drive the board interactively",
	Long: "Keys 0-7 toggle the user LEDs, r flips the switch inputs to a\n" +
		"random pattern, other keys echo through the looped-back USB UART,\n" +
		"q or Ctrl+C exits.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isTerminalIO() {
			return errors.New("term needs an interactive terminal")
		}
		board, bus := newSimBoard()

		// The simulated transmitter is always ready, and every byte it
		// sends arrives back on the receive interrupt.
		bus.Stub(regUSBCtrlA, 1<<5) // UDRE
		bus.OnWrite(func(reg hw.Reg, value byte) {
			if reg == regUSBData {
				board.USB.OnRecv(value)
			}
		})

		var echo string
		renderPanel(board, echo)
		err := keyboard.Listen(func(key keys.Key) (bool, error) {
			switch key.Code {
			case keys.CtrlC, keys.Escape:
				return true, nil
			case keys.RuneKey:
				switch r := key.String(); {
				case r == "q":
					return true, nil
				case r == "r":
					bus.Stub(0x26, byte(rand.Intn(256))) // PINC
				case len(r) == 1 && r >= "0" && r <= "7":
					index := uint8(r[0] - '0')
					board.SetLED(index, board.LEDs()&(1<<index) == 0)
				default:
					board.USB.SendString(r)
					for board.USB.Available() {
						echo += string(board.USB.ReadByte())
					}
					if len(echo) > echoWidth {
						echo = echo[len(echo)-echoWidth:]
					}
				}
			}
			renderPanel(board, echo)
			return false, nil
		})
		fmt.Println()
		return err
	},
}

func renderPanel(board *elob.Board, echo string) {
	leds := board.LEDs()
	var cells []string
	for i := 7; i >= 0; i-- {
		if leds&(1<<i) != 0 {
			cells = append(cells, color.GreenString("●"))
		} else {
			cells = append(cells, color.New(color.Faint).Sprint("○"))
		}
	}
	fmt.Printf("\r  LEDs %s   switches %08b   uart %-*s",
		strings.Join(cells, " "), board.Switches(), echoWidth, echo)
}

func init() {
	rootCmd.AddCommand(termCmd)
}
