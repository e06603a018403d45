package script

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv runs on a clock the test moves by hand.
func testEnv(now *int64) *Env {
	return &Env{
		Now:  func() int64 { return *now },
		Rand: rand.New(rand.NewSource(1)),
		Log:  zerolog.Nop(),
	}
}

func testContext() *RootContext {
	now := int64(1)
	return NewRootContext(testEnv(&now))
}

var TestUnitValuesAreParsed = []struct {
	Text   string
	Expect UnitValue
}{
	{"10%", UnitValue{10, UnitPercent}},
	{"2.5cm", UnitValue{2.5, UnitCentimeter}},
	{"-3px", UnitValue{-3, UnitPixel}},
	{"7", UnitValue{7, UnitInherit}},
	{"abc", UnitValue{1, UnitInherit}},
}

func TestParseUnitValue(t *testing.T) {
	for _, tc := range TestUnitValuesAreParsed {
		t.Run(tc.Text, func(t *testing.T) {
			assert.Equal(t, tc.Expect, ParseUnitValue(tc.Text, 1, UnitInherit))
		})
	}
}

var TestStringDurations = []struct {
	Text   string
	Expect int
}{
	{"250ms", 250},
	{"2s", 2000},
	{"40", 40},
	{"soon", -1},
}

func TestStringMsecs(t *testing.T) {
	ctx := testContext()
	for _, tc := range TestStringDurations {
		t.Run(tc.Text, func(t *testing.T) {
			assert.Equal(t, tc.Expect, String(tc.Text).Msecs(ctx, -1))
		})
	}
}

var TestParsedKinds = []struct {
	Name   string
	Doc    any
	Expect Kind
}{
	{"nil", nil, KindNull},
	{"empty string", "", KindNull},
	{"null text", "null", KindNull},
	{"number", 3.5, KindNumber},
	{"bool", true, KindBool},
	{"bool text", "false", KindBool},
	{"string", "hello", KindString},
	{"variable", "var(x)", KindVariable},
	{"system", " sys(red)", KindVariable},
	{"function", []any{"add", 1.0, 2.0}, KindFunction},
	{"pattern", []any{0.0, 120.0}, KindPattern},
	{"pattern object", map[string]any{"pattern": []any{1.0, 2.0}}, KindPattern},
	{"plain object", map[string]any{"a": 1.0}, KindNull},
	{"empty array", []any{}, KindNull},
}

func TestParseValueKinds(t *testing.T) {
	for _, tc := range TestParsedKinds {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expect, ParseValue(tc.Doc).Kind())
		})
	}
}

func TestVariableDefaults(t *testing.T) {
	ctx := testContext()
	assert.Equal(t, 10.0, ParseValue("var(missing)|10").Float(ctx, 0))
	assert.Equal(t, 12.0, ParseValue("var(missing|12)").Float(ctx, 0))
	assert.Equal(t, 3.0, ParseValue("var(missing)").Float(ctx, 3))

	ctx.SetValue("x", Number(7))
	assert.Equal(t, 7, ParseValue("var(x)|10").Int(ctx, 0))
	assert.Equal(t, "var(x)|10", ParseValue("var(x|10)").JSON())
}

func TestVariableSelfReference(t *testing.T) {
	ctx := testContext()
	ctx.SetValue("loop", ParseValue("var(loop)"))
	assert.Equal(t, 5.0, ctx.Value("loop").Float(ctx, 5))

	ctx.SetValue("a", ParseValue("var(b)|1"))
	ctx.SetValue("b", ParseValue("var(a)|2"))
	assert.NotPanics(t, func() { ctx.Value("a").Float(ctx, 0) })
}

func TestSystemColors(t *testing.T) {
	ctx := testContext()
	ctx.SetParams(map[string]any{"speed": 3.0})
	assert.Equal(t, 200, ParseValue("sys(blue)").Int(ctx, -1))
	assert.Equal(t, 3, ParseValue("var(speed)").Int(ctx, -1))
}

var TestFunctionResults = []struct {
	Name   string
	Doc    []any
	Expect float64
}{
	{"add", []any{"+", 1.0, 2.0}, 3},
	{"subtract", []any{"sub", 5.0, 2.0}, 3},
	{"negate", []any{"-", 4.0}, -4},
	{"multiply", []any{"*", 3.0, 4.0}, 12},
	{"divide", []any{"div", 9.0, 3.0}, 3},
	{"divide by zero", []any{"/", 9.0, 0.0}, 0},
	{"mod", []any{"mod", 7.0, 4.0}, 3},
	{"mod by zero", []any{"%", 7.0, 0.0}, 0},
	{"min", []any{"min", 3.0, 2.0}, 2},
	{"max", []any{"MAX", 3.0, 2.0}, 3},
	{"nested", []any{"add", []any{"mult", 2.0, 3.0}, 1.0}, 7},
}

func TestFunctions(t *testing.T) {
	ctx := testContext()
	for _, tc := range TestFunctionResults {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expect, ParseValue(tc.Doc).Float(ctx, 0))
		})
	}
}

func TestRandomFunctionsStayInRange(t *testing.T) {
	ctx := testContext()
	r := ParseValue([]any{"rand", 10.0, 20.0})
	of := ParseValue([]any{"randof", 1.0, 5.0, 9.0})
	for i := 0; i < 100; i++ {
		v := r.Int(ctx, -1)
		require.True(t, v >= 10 && v <= 20, "rand gave %d", v)
		assert.Contains(t, []int{1, 5, 9}, of.Int(ctx, -1))
	}
}

func TestSequenceWraps(t *testing.T) {
	ctx := testContext()
	seq := ParseValue([]any{"seq", 0.0, 2.0, 1.0})
	var got []int
	for i := 0; i < 5; i++ {
		got = append(got, seq.Int(ctx, -1))
	}
	assert.Equal(t, []int{0, 1, 2, 0, 1}, got)
}

func TestEvalSnapshotsRandom(t *testing.T) {
	ctx := testContext()
	snap := ParseValue([]any{"rand", 0.0, 1000.0}).Eval(ctx)
	require.Equal(t, KindNumber, snap.Kind())
	first := snap.Int(ctx, -1)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, snap.Int(ctx, -1))
	}
}

func TestSystemStepReads(t *testing.T) {
	ctx := testContext()
	step := ParseValue("sys(step)")
	assert.False(t, step.Bool(ctx, true))
	assert.True(t, step.Equals(ctx, "0"))

	ctx.BeginStep()
	assert.True(t, step.Bool(ctx, false))
	assert.True(t, step.Equals(ctx, "1"))
	assert.Equal(t, 1, step.Int(ctx, -1))
}
