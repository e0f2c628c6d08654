package masterdata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/masterdata"
)

func TestPadCode(t *testing.T) {
	assert.Equal(t, "00001", masterdata.PadCode(1, masterdata.ProductCodeWidth))
	assert.Equal(t, "0042", masterdata.PadCode(42, masterdata.CustomerCodeWidth))
	assert.Equal(t, "12345", masterdata.PadCode(12345, 4))
}

func TestNextCode(t *testing.T) {
	tests := []struct {
		last  string
		width int
		want  string
	}{
		{"", 4, "0001"},
		{"0001", 4, "0002"},
		{"0099", 4, "0100"},
		{"9999", 4, "10000"},
		{"00007", 5, "00008"},
	}
	for _, tt := range tests {
		got, err := masterdata.NextCode(tt.last, tt.width)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestNextCode_NoNumerico(t *testing.T) {
	_, err := masterdata.NextCode("AB12", 4)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
