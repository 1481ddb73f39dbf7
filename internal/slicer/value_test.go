package slicer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"contrast/internal/slicer"
)

func TestCast(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"True", true},
		{"false", false},
		{"", nil},
		{"none", nil},
		{"None", nil},
		{"0.2", 0.2},
		{"-1.75", -1.75},
		{"42", int64(42)},
		{"-3", int64(-3)},
		{"0", int64(0)},
		{"75%", "75%"},
		{"0.4,0.4", "0.4,0.4"},
		{"  marlin  ", "marlin"},
		{"1e3", "1e3"}, // only plain decimal notation is numeric
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, slicer.Cast(tc.in), "Cast(%q)", tc.in)
	}
}

func TestPercentToRatio(t *testing.T) {
	r, ok := slicer.PercentToRatio("75%")
	assert.True(t, ok)
	assert.InDelta(t, 0.75, r, 1e-9)

	r, ok = slicer.PercentToRatio(" 110% ")
	assert.True(t, ok)
	assert.InDelta(t, 1.1, r, 1e-9)

	_, ok = slicer.PercentToRatio("0.75")
	assert.False(t, ok)
}

func TestRatioToPercent(t *testing.T) {
	assert.Equal(t, "75%", slicer.RatioToPercent(0.75))
	assert.Equal(t, "100%", slicer.RatioToPercent(1.0))
}

func TestPercentRatioEqual(t *testing.T) {
	assert.True(t, slicer.PercentRatioEqual("75%", 0.75))
	assert.True(t, slicer.PercentRatioEqual(0.75, "75%"))
	assert.True(t, slicer.PercentRatioEqual("100%", int64(1)))
	assert.False(t, slicer.PercentRatioEqual("75%", 0.8))
}

func TestNormalizeNumber(t *testing.T) {
	assert.Equal(t, int64(3), slicer.NormalizeNumber(3.0))
	assert.Equal(t, 3.5, slicer.NormalizeNumber(3.5))
	assert.Equal(t, int64(7), slicer.NormalizeNumber(int64(7)))
	assert.Equal(t, int64(2), slicer.NormalizeNumber("2"))
	assert.Equal(t, "abc", slicer.NormalizeNumber("abc"))
}

func TestInvertNumber(t *testing.T) {
	assert.Equal(t, int64(-2), slicer.InvertNumber(int64(2)))
	assert.Equal(t, 0.2, slicer.InvertNumber(-0.2))
	assert.Equal(t, int64(-1), slicer.InvertNumber("1"))
	assert.Equal(t, "no", slicer.InvertNumber("no"))
}
