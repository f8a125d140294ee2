package calculus

import "math"

// eulerSentinel is the VAL literal that the builder reads as the constant e
// instead of a number. The comparison is bit-exact.
const eulerSentinel = 2.718281828459045

// constantValues holds every named constant Const.Eval knows about. "tau" is a
// legal name in the grammar but deliberately has no entry.
var constantValues = map[string]float64{
	"e":  math.E,
	"pi": math.Pi,
}

func isNum(n Node, v float64) bool {
	num, ok := n.(*Num)
	return ok && num.val == v
}

func isZero(n Node) bool { return isNum(n, 0) }
func isOne(n Node) bool  { return isNum(n, 1) }

func isConst(n Node, name string) bool {
	c, ok := n.(*Const)
	return ok && c.name == name
}

// bothNums returns the payloads of l and r when both are literal numbers.
func bothNums(l, r Node) (float64, float64, bool) {
	ln, ok1 := l.(*Num)
	rn, ok2 := r.(*Num)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return ln.val, rn.val, true
}

func isWhole(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v) && v == math.Trunc(v)
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
