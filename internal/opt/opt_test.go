package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroValueIsAbsent(t *testing.T) {
	var v Value[string]
	assert.False(t, v.IsPresent())

	got, ok := v.Get()
	assert.False(t, ok)
	assert.Equal(t, "", got)
}

func TestSomeHoldsZeroValues(t *testing.T) {
	// A present zero is still a constraint, unlike a sentinel.
	v := Some(0)
	assert.True(t, v.IsPresent())
	assert.Equal(t, 0, v.MustGet())
}

func TestFromPtr(t *testing.T) {
	age := 20
	assert.Equal(t, Some(20), FromPtr(&age))
	assert.Equal(t, None[int](), FromPtr[int](nil))
}

func TestOrElse(t *testing.T) {
	assert.Equal(t, "x", None[string]().OrElse("x"))
	assert.Equal(t, "y", Some("y").OrElse("x"))
}

func TestMustGetPanicsWhenAbsent(t *testing.T) {
	assert.Panics(t, func() { None[int]().MustGet() })
}

func TestString(t *testing.T) {
	assert.Equal(t, "None", None[int]().String())
	assert.Equal(t, "Some(80)", Some(80).String())
}
