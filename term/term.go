// Package term provides terminal emulator control via ANSI escape
// sequences and the styled rendering of fatal fault diagnostics.
package term

import (
	"fmt"
	"io"
)

// Color is a standard terminal emulator color.
type Color int

const (
	Black   Color = 0
	Red     Color = 1
	Green   Color = 2
	Yellow  Color = 3
	Blue    Color = 4
	Magenta Color = 5
	Cyan    Color = 6
	White   Color = 7
	Default Color = 9
)

// Style is a terminal emulator text style.
type Style int

const (
	StyleReset         Style = 0
	StyleBold          Style = 1
	StyleDim           Style = 2
	StyleItalic        Style = 3
	StyleUnderline     Style = 4
	StyleBlinking      Style = 5
	StyleReverse       Style = 6
	StyleHidden        Style = 8
	StyleStrikethrough Style = 9
)

// Terminal writes ANSI control sequences to an underlying byte stream,
// typically the serial-over-USB link to the attached terminal emulator.
type Terminal struct {
	w io.Writer
}

// New returns a Terminal writing to w.
func New(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// SetForegroundColor sets the foreground color of the terminal emulator.
func (t *Terminal) SetForegroundColor(c Color) {
	fmt.Fprintf(t.w, "\x1b[3%dm", c)
}

// SetBackgroundColor sets the background color of the terminal emulator.
func (t *Terminal) SetBackgroundColor(c Color) {
	fmt.Fprintf(t.w, "\x1b[4%dm", c)
}

// SetColors sets the foreground and background colors in one call.
func (t *Terminal) SetColors(foreground, background Color) {
	t.SetForegroundColor(foreground)
	t.SetBackgroundColor(background)
}

// SetStyle sets the text style of the terminal emulator.
func (t *Terminal) SetStyle(s Style) {
	fmt.Fprintf(t.w, "\x1b[%dm", s)
}

// Print writes s to the terminal.
func (t *Terminal) Print(s string) {
	io.WriteString(t.w, s)
}

// Println writes s followed by a CRLF line ending, which terminal
// emulators on the serial link expect.
func (t *Terminal) Println(s string) {
	io.WriteString(t.w, s)
	io.WriteString(t.w, "\r\n")
}
