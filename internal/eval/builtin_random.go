// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"math/big"
	"math/rand/v2"

	"nickandperla.net/lamina/internal/diag"
	"nickandperla.net/lamina/internal/value"
)

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// maxRandStr bounds the length randstr accepts.
const maxRandStr = 1 << 20

var randomBuiltins = []Builtin{
	{"rand", 0, 0, func(e *Evaluator, _ []value.Value) (value.Value, error) {
		return value.Float(e.randFloat()), nil
	}},
	{"randint", 2, 2, builtinRandInt},
	{"randstr", 1, 1, builtinRandStr},
}

// randFloat draws from the evaluator's seeded source, or from the
// process-wide one when no seed was given.
func (e *Evaluator) randFloat() float64 {
	if e.rng != nil {
		return e.rng.Float64()
	}
	return rand.Float64()
}

func (e *Evaluator) randUint64() uint64 {
	if e.rng != nil {
		return e.rng.Uint64()
	}
	return rand.Uint64()
}

func (e *Evaluator) randInt64N(n int64) int64 {
	if e.rng != nil {
		return e.rng.Int64N(n)
	}
	return rand.Int64N(n)
}

func (e *Evaluator) randIntN(n int) int {
	if e.rng != nil {
		return e.rng.IntN(n)
	}
	return rand.IntN(n)
}

// builtinRandInt returns a uniform integer in [a, b].
func builtinRandInt(e *Evaluator, args []value.Value) (value.Value, error) {
	a, ok1 := value.ToBigInt(args[0])
	b, ok2 := value.ToBigInt(args[1])
	if !ok1 || !ok2 {
		return nil, diag.Errorf(diag.TypeError, "randint expects integers, got %s and %s", args[0].Kind(), args[1].Kind())
	}
	if a.Cmp(b) > 0 {
		return nil, diag.Errorf(diag.ValueError, "randint: empty range [%s, %s]", a, b)
	}
	span := new(big.Int).Sub(b, a)
	span.Add(span, big.NewInt(1))
	if span.IsInt64() {
		r := big.NewInt(e.randInt64N(span.Int64()))
		return value.IntValue(r.Add(r, a)), nil
	}
	// Wider spans draw 64 extra bits so the modulo bias is negligible.
	r := new(big.Int)
	for range span.BitLen()/64 + 2 {
		r.Lsh(r, 64)
		r.Or(r, new(big.Int).SetUint64(e.randUint64()))
	}
	r.Mod(r, span)
	return value.IntValue(r.Add(r, a)), nil
}

func builtinRandStr(e *Evaluator, args []value.Value) (value.Value, error) {
	n, err := integer("randstr", args[0])
	if err != nil {
		return nil, err
	}
	if n < 0 || n > maxRandStr {
		return nil, diag.Errorf(diag.ValueError, "randstr length %d out of range [0, %d]", n, maxRandStr)
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = alphanumeric[e.randIntN(len(alphanumeric))]
	}
	return value.String(buf), nil
}
