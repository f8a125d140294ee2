// cmd/calculus/main.go: command line front end for the calculus engine
//
// Usage:
//
//	calculus eval --x 2 '(VAL:2.0)' '(VAR:x)' '(TIMES:*)' '(VAL:5.0)' '(PLUS:+)'
//	calculus diff '(VAR:x)' '(VAL:3.0)' '(POW:^)'
//	calculus sample --from -1 --to 1 --steps 4 '(VAR:x)' '(LN:ln)'
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewCommandCalculus(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "calculus:", err)
		os.Exit(1)
	}
}
