package fault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeNames(t *testing.T) {
	tests := []struct {
		code Code
		name string
	}{
		{None, "ERR_NONE"},
		{StrTooLong, "ERR_STR_TOO_LONG"},
		{BitrateTooLow, "ERR_BITRATE_TOO_LOW"},
		{BusTransmission, "ERR_BUS_TRANSMISSION"},
		{BufferOverflow, "ERR_BUFFER_OVERFLOW"},
		{OutOfRange, "ERR_OUT_OF_RANGE"},
		{InvalidString, "ERR_INVALID_STR"},
		{InvalidUnit, "ERR_INVALID_UNIT"},
		{PrecisionViolated, "ERR_PRECISION_VIOLATED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.code.Name())
			assert.Equal(t, tt.name, tt.code.String())
		})
	}
}

func TestUnregisteredCodeName(t *testing.T) {
	assert.Equal(t, "ERR_4242", Code(4242).Name())
}

func TestRegisterName(t *testing.T) {
	code := User + 77
	require.NoError(t, RegisterName(code, "ERR_APP_SPECIFIC"))
	defer delete(codeNames, code)

	assert.Equal(t, "ERR_APP_SPECIFIC", code.Name())
	assert.Error(t, RegisterName(code, "ERR_AGAIN"))
	assert.Error(t, RegisterName(BufferOverflow, "ERR_TAKEN"))
}
