package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	var _ Value = Null{}
	var _ Value = String("test")
	var _ Value = Int(42)
	var _ Value = Float(1.5)
	var _ Value = Bool(true)
}

func TestOf(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Value
	}{
		{"nil", nil, Null{}},
		{"string", "member1", String("member1")},
		{"int", 20, Int(20)},
		{"int32", int32(7), Int(7)},
		{"int64", int64(80), Int(80)},
		{"float", 34.5, Float(34.5)},
		{"bool", true, Bool(true)},
		{"value passthrough", Int(3), Int(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Of(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOfUnsupported(t *testing.T) {
	_, err := Of([]int{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported literal type")

	assert.Panics(t, func() { MustOf(struct{}{}) })
}

func TestOfNormalizesText(t *testing.T) {
	// e + combining acute accent (NFD) becomes the single code point (NFC).
	decomposed := "e\u0301"
	got, err := Of(decomposed)
	require.NoError(t, err)
	assert.Equal(t, String("\u00e9"), got)

	got, err = Of(String(decomposed))
	require.NoError(t, err)
	assert.Equal(t, String("\u00e9"), got)
}

func TestParam(t *testing.T) {
	tests := []struct {
		name  string
		input Value
		want  any
	}{
		{"null", Null{}, nil},
		{"string", String("teamA"), "teamA"},
		{"int", Int(30), int64(30)},
		{"float", Float(0.5), 0.5},
		{"bool", Bool(false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Param(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyDistinguishesKinds(t *testing.T) {
	assert.Equal(t, `"1"`, Key(String("1")))
	assert.Equal(t, "1", Key(Int(1)))
	assert.Equal(t, "1f", Key(Float(1)))
	assert.Equal(t, "null", Key(Null{}))
	assert.Equal(t, "true", Key(Bool(true)))

	assert.NotEqual(t, Key(String("1")), Key(Int(1)))
	assert.NotEqual(t, Key(Int(1)), Key(Float(1)))
}
