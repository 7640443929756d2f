package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanSize(t *testing.T) {
	tests := []struct {
		size float64
		want string
	}{
		{0, "0.0B"},
		{1, "1.0B"},
		{1023, "1023.0B"},
		{1024, "1.0KiB"},
		{1536, "1.5KiB"},
		{8687494, "8.3MiB"},
		{math.Pow(1024, 3) * 2, "2.0GiB"},
		{math.Pow(1024, 8), "1.0YiB"},
		{math.Pow(1024, 9), "1024.0YiB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanSize(tt.size))
		})
	}
}

func TestHumanDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00.00"},
		{173.33, "00:02:53.33"},
		{173.82, "00:02:53.82"},
		{3661.0, "01:01:01.00"},
		{59.999, "00:01:00.00"},
		{90061.5, "25:01:01.50"},
		{-3, "00:00:00.00"},
		{math.NaN(), "00:00:00.00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanDuration(tt.seconds))
		})
	}
}

func TestEvaluateRatio(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"25/1", 25},
		{"24000/1001", 24000.0 / 1001.0},
		{"16:9", 16.0 / 9.0},
		{"30", 30},
		{"29.97", 29.97},
		{" 4:3 ", 4.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := EvaluateRatio(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEvaluateRatioInvalid(t *testing.T) {
	for _, input := range []string{"", "0/0", "25/0", "abc", "a/b", "1/x", "NaN"} {
		t.Run(input, func(t *testing.T) {
			_, err := EvaluateRatio(input)
			assert.ErrorIs(t, err, ErrUnparseableRatio)
		})
	}
}

func TestReduceRatio(t *testing.T) {
	w, h := ReduceRatio(1920, 1080)
	assert.Equal(t, 16, w)
	assert.Equal(t, 9, h)

	w, h = ReduceRatio(428, 240)
	assert.Equal(t, 107, w)
	assert.Equal(t, 60, h)

	w, h = ReduceRatio(0, 0)
	assert.Equal(t, 0, w)
	assert.Equal(t, 0, h)

	assert.Equal(t, 120, GCD(1920, 1080))
}

func TestFrameRateText(t *testing.T) {
	tests := []struct {
		fps  float64
		want string
	}{
		{25, "25 fps"},
		{24000.0 / 1001.0, "23.98 fps"},
		{30000.0 / 1001.0, "29.97 fps"},
		{120, "120 fps"},
		{23.99999, "24 fps"},
		{12.5, "12.50 fps"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FrameRateText(tt.fps))
		})
	}
}

func TestBitRateText(t *testing.T) {
	assert.Equal(t, "360 kb/s", BitRateText(360000))
	assert.Equal(t, "128 kb/s", BitRateText(127600))
	assert.Equal(t, "3 kb/s", BitRateText(2500))
	assert.Equal(t, "0 kb/s", BitRateText(0))
}
