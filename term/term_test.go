package term

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gheinzer/zlv-mint-elob-gplib/fault"
)

func TestEscapeSequences(t *testing.T) {
	tests := []struct {
		name     string
		emit     func(*Terminal)
		expected string
	}{
		{
			name:     "foreground red",
			emit:     func(tm *Terminal) { tm.SetForegroundColor(Red) },
			expected: "\x1b[31m",
		},
		{
			name:     "background yellow",
			emit:     func(tm *Terminal) { tm.SetBackgroundColor(Yellow) },
			expected: "\x1b[43m",
		},
		{
			name:     "both colors",
			emit:     func(tm *Terminal) { tm.SetColors(Black, Red) },
			expected: "\x1b[30m\x1b[41m",
		},
		{
			name:     "style bold",
			emit:     func(tm *Terminal) { tm.SetStyle(StyleBold) },
			expected: "\x1b[1m",
		},
		{
			name:     "style reset",
			emit:     func(tm *Terminal) { tm.SetStyle(StyleReset) },
			expected: "\x1b[0m",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(New(&buf))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestPrintln(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Println("hello")
	assert.Equal(t, "hello\r\n", buf.String())
}

func TestReporterOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, WithoutColor())
	r.ReportFault(fault.Record{
		Code:     fault.BitrateTooLow,
		Name:     "ERR_BITRATE_TOO_LOW",
		Location: fault.Location{File: "uart.go", Line: 99, Function: "uart.SetBaudrate"},
	})
	out := buf.String()
	assert.Contains(t, out, " ERR_BITRATE_TOO_LOW ")
	assert.Contains(t, out, "(no message)")
	assert.Contains(t, out, "uart.go:99")
	assert.Contains(t, out, "The above error was not caught.")
	assert.Contains(t, out, "Reset the board to continue operation.")
}

func TestReporterDisablesColorForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)
	r.ReportFault(fault.Record{Code: fault.OutOfRange, Name: "ERR_OUT_OF_RANGE"})
	// A bytes.Buffer is not a terminal, so no escape sequences at all.
	assert.NotContains(t, buf.String(), "\x1b[")
}
