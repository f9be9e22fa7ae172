package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Month
		wantErr bool
	}{
		{"January", time.January, false},
		{"  march ", time.March, false},
		{"SEP", time.September, false},
		{"Sept", time.September, false},
		{"12", time.December, false},
		{"0", 0, true},
		{"13", 0, true},
		{"", 0, true},
		{"Smarch", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMonth(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMonth)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseYear(t *testing.T) {
	y, err := ParseYear(" 2022 ")
	require.NoError(t, err)
	assert.Equal(t, 2022, y)

	y, err = ParseYear("2021.0")
	require.NoError(t, err)
	assert.Equal(t, 2021, y)

	for _, bad := range []string{"", "twenty", "-1", "0"} {
		_, err := ParseYear(bad)
		assert.ErrorIs(t, err, ErrInvalidYear, bad)
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"0", 0, false},
		{"", 0, false},
		{"42", 42, false},
		{"1,234", 1234, false},
		{"17.0", 17, false},
		{"17.5", 0, true},
		{"-3", 0, true},
		{"+3", 0, true},
		{"abc", 0, true},
		{".", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCount(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
