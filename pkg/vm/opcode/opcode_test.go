package opcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringer(t *testing.T) {
	tests := map[Opcode]string{
		ADD:    "ADD",
		SUB:    "SUB",
		0xff:   "Opcode(255)",
	}
	for o, s := range tests {
		assert.Equal(t, s, o.String())
	}
}

func TestFromString(t *testing.T) {
	_, err := FromString("abcdef")
	require.Error(t, err)

	op, err := FromString(SYSCALL.String())
	require.NoError(t, err)
	require.Equal(t, SYSCALL, op)
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(NOP))
	assert.False(t, IsValid(Opcode(0xff)))
}
