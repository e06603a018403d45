package color_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/coreman2200/stripscript/internal/color"
)

var TestHSLIsExpectedRGB = []struct {
	H, S, L int
	Expect  RGB
}{
	{0, 100, 50, RGB{255, 0, 0}},
	{120, 100, 50, RGB{0, 255, 0}},
	{240, 100, 50, RGB{0, 0, 255}},
	{0, 0, 100, RGB{255, 255, 255}},
	{0, 0, 0, RGB{0, 0, 0}},
}

var TestOpCombinesValues = []struct {
	Op      Op
	Current int
	Operand int
	Expect  int
}{
	{Replace, 10, 20, 20},
	{Add, 10, 20, 30},
	{Subtract, 10, 20, -10},
	{Average, 10, 20, 15},
	{Min, 10, 20, 10},
	{Max, 10, 20, 20},
}

func TestHSLToRGB(t *testing.T) {
	for k, v := range TestHSLIsExpectedRGB {
		t.Run("Given HSL"+strconv.Itoa(k), func(t *testing.T) {
			got := NewHSL(v.H, v.S, v.L).RGB()
			assert.Equal(t, v.Expect, got, "should be same colour")
		})
	}
}

func TestRGBToHSLRoundTrip(t *testing.T) {
	for k, v := range TestHSLIsExpectedRGB {
		t.Run("Given RGB"+strconv.Itoa(k), func(t *testing.T) {
			hsl := FromRGB(v.Expect)
			assert.Equal(t, v.Expect, hsl.RGB())
		})
	}
}

func TestOpApply(t *testing.T) {
	for _, v := range TestOpCombinesValues {
		t.Run(v.Op.String(), func(t *testing.T) {
			assert.Equal(t, v.Expect, v.Op.Apply(v.Current, v.Operand))
		})
	}
}

func TestParseOp(t *testing.T) {
	assert.Equal(t, Subtract, ParseOp("sub"))
	assert.Equal(t, Average, ParseOp("AVG"))
	assert.Equal(t, Inherit, ParseOp("blend"))
	assert.False(t, Inherit.Resolved())
	assert.True(t, Max.Resolved())
}

func TestScaleCapsBrightness(t *testing.T) {
	c := RGB{200, 100, 50}
	assert.Equal(t, c, c.Scale(100, 0))
	assert.Equal(t, RGB{100, 50, 25}, c.Scale(80, 50))
	assert.Equal(t, RGB{}, c.Scale(0, 0))
}
