// Package ir provides the literal value types carried by query predicates.
//
// Values are a sealed set (Null, String, Int, Float, Bool). Every literal that
// appears in a predicate is lifted into a Value before it reaches the SQL
// compiler, which turns it into a bound parameter; literals are never
// interpolated into SQL text.
//
// ir imports nothing internal. All other internal packages may import it.
package ir
