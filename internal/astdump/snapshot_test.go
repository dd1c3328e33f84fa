package astdump

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/stevepryde/bop-lang/internal/lexer"
	"github.com/stevepryde/bop-lang/internal/parser"
)

// TestDumpSnapshotFizzbuzz pins the full JSON shape astdump produces for a
// representative multi-construct program (functions, if/elseif/else,
// a for loop, method calls, string interpolation) so an unintended change
// to the dumper's field names or nesting shows up as a diff.
func TestDumpSnapshotFizzbuzz(t *testing.T) {
	source := `fn fizzbuzz(n) {
	if n % 15 == 0 {
		return "FizzBuzz"
	} else if n % 3 == 0 {
		return "Fizz"
	} else {
		return str(n)
	}
}

let results = []
for i in range(1, 4) {
	results.push(fizzbuzz(i))
}
let count = results.len()
print("done: {count}")
`
	out := dump(t, source)
	snaps.MatchSnapshot(t, out)
}
