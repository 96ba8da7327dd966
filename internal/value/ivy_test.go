package value

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"robpike.io/ivy/config"
	"robpike.io/ivy/exec"
	"robpike.io/ivy/parse"
	"robpike.io/ivy/run"
	"robpike.io/ivy/scan"
)

// ivyOracle evaluates expressions with ivy, whose rationals are exact and
// serve as a reference for the numeric tower.
type ivyOracle struct {
	conf        config.Config
	out, errOut bytes.Buffer
}

func newIvyOracle() *ivyOracle {
	o := &ivyOracle{}
	o.conf.SetFormat("")
	o.conf.SetMaxBits(1e6)
	o.conf.SetMaxDigits(1e4)
	o.conf.SetMaxStack(100000)
	o.conf.SetOrigin(1)
	o.conf.SetPrompt("")
	o.conf.SetOutput(&o.out)
	o.conf.SetErrOutput(&o.errOut)
	return o
}

func (o *ivyOracle) eval(t *testing.T, src string) string {
	t.Helper()
	context := exec.NewContext(&o.conf)
	scanner := scan.New(context, "input", strings.NewReader(src))
	parser := parse.NewParser("input", scanner, context)
	o.out.Reset()
	o.errOut.Reset()
	if !run.Run(parser, context, false) {
		t.Fatalf("ivy failed on %q: %s", src, o.errOut.String())
	}
	return strings.TrimSpace(o.out.String())
}

// randExpr builds a random exact expression, returning its ivy spelling and
// its value. Ivy evaluates right to left, so every operation is parenthesized.
func randExpr(r *rand.Rand, depth int) (string, Value, error) {
	if depth == 0 || r.IntN(4) == 0 {
		n := r.Int64N(41) - 20
		d := r.Int64N(9) + 1
		v, err := NewRational(bigInt(n), bigInt(d))
		if err != nil {
			return "", nil, err
		}
		if d == 1 {
			return fmt.Sprintf("(%d)", n), v, nil
		}
		return fmt.Sprintf("(%d/%d)", n, d), v, nil
	}

	ls, lv, err := randExpr(r, depth-1)
	if err != nil {
		return "", nil, err
	}
	if r.IntN(6) == 0 {
		k := r.IntN(4)
		v, err := Pow(lv, Int(k))
		return fmt.Sprintf("(%s ** %d)", ls, k), v, err
	}
	rs, rv, err := randExpr(r, depth-1)
	if err != nil {
		return "", nil, err
	}
	ops := []struct {
		ivy string
		op  Op
	}{{"+", OpAdd}, {"-", OpSub}, {"*", OpMul}, {"/", OpDiv}}
	o := ops[r.IntN(len(ops))]
	v, err := Binary(o.op, lv, rv)
	return fmt.Sprintf("(%s %s %s)", ls, o.ivy, rs), v, err
}

func TestRationalArithmeticMatchesIvy(t *testing.T) {
	oracle := newIvyOracle()
	r := rand.New(rand.NewPCG(1, 2))

	checked := 0
	for checked < 200 {
		src, got, err := randExpr(r, 4)
		if err != nil {
			// Division by zero somewhere in the tree; ivy would fail too.
			continue
		}
		checked++
		want := oracle.eval(t, src)
		if got.String() != want {
			t.Errorf("%s = %s, ivy says %s", src, got, want)
		}
	}
}

func TestBigIntegersMatchIvy(t *testing.T) {
	oracle := newIvyOracle()
	for _, n := range []int64{20, 25, 30, 52} {
		got, err := Factorial(Int(n))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := oracle.eval(t, fmt.Sprintf("!%d", n))
		if got.String() != want {
			t.Errorf("%d! = %s, ivy says %s", n, got, want)
		}
	}

	got, err := Pow(Int(3), Int(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := oracle.eval(t, "3 ** 100"); got.String() != want {
		t.Errorf("3^100 = %s, ivy says %s", got, want)
	}
}
