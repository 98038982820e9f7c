package braced_test

import (
	"fmt"

	"github.com/walteh/pefan/pkg/braced"
)

func ExampleTransform() {
	fmt.Print(braced.Transform("if True { a = 3; if False { b = 4 } else { c = 5 } }"))

	// Output:
	// if True:
	//     a = 3
	//     if False:
	//         b = 4
	//     else:
	//         c = 5
}

func ExampleLower() {
	res := braced.Lower("for f in data { total += int(f) } ")
	fmt.Printf("%d lines, indent %d, state %s\n", len(res.Lines), res.Indent, res.FinalState)
	fmt.Printf("%q\n", res.Lines[1])

	// Output:
	// 3 lines, indent 0, state BlockProbe
	// "    total += int(f)"
}
