package astdump

import (
	"testing"

	"github.com/tidwall/gjson"

	"github.com/stevepryde/bop-lang/internal/lexer"
	"github.com/stevepryde/bop-lang/internal/parser"
)

func dump(t *testing.T, source string) string {
	t.Helper()
	l := lexer.New(source)
	p, err := parser.New(l)
	if err != nil {
		t.Fatalf("lexer/parser setup: %v", err)
	}
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	out, err := Dump(prog)
	if err != nil {
		t.Fatalf("dump error: %v", err)
	}
	if !gjson.Valid(out) {
		t.Fatalf("dumped document is not valid JSON: %s", out)
	}
	return out
}

func TestDumpLetStatement(t *testing.T) {
	out := dump(t, `let x = 5`)
	if got := gjson.Get(out, "type").String(); got != "Program" {
		t.Fatalf("type = %q", got)
	}
	if got := gjson.Get(out, "statements.0.type").String(); got != "Let" {
		t.Fatalf("statements.0.type = %q", got)
	}
	if got := gjson.Get(out, "statements.0.name").String(); got != "x" {
		t.Fatalf("statements.0.name = %q", got)
	}
	if got := gjson.Get(out, "statements.0.value.type").String(); got != "NumLit" {
		t.Fatalf("statements.0.value.type = %q", got)
	}
	if got := gjson.Get(out, "statements.0.value.value").Float(); got != 5 {
		t.Fatalf("statements.0.value.value = %v", got)
	}
}

func TestDumpIfElseIfChain(t *testing.T) {
	out := dump(t, `
if x > 1 {
	print("a")
} else if x > 0 {
	print("b")
} else {
	print("c")
}
`)
	if got := gjson.Get(out, "statements.0.type").String(); got != "If" {
		t.Fatalf("type = %q", got)
	}
	if n := len(gjson.Get(out, "statements.0.else_ifs").Array()); n != 1 {
		t.Fatalf("expected 1 else-if clause, got %d", n)
	}
	if got := gjson.Get(out, "statements.0.else.statements.0.expr.name").String(); got != "print" {
		t.Fatalf("else branch call name = %q", got)
	}
}

func TestDumpFnDeclAndCall(t *testing.T) {
	out := dump(t, `
fn add(a, b) {
	return a + b
}
print(add(1, 2))
`)
	if got := gjson.Get(out, "statements.0.type").String(); got != "FnDecl" {
		t.Fatalf("type = %q", got)
	}
	params := gjson.Get(out, "statements.0.params").Array()
	if len(params) != 2 || params[0].String() != "a" || params[1].String() != "b" {
		t.Fatalf("params = %v", params)
	}
	if got := gjson.Get(out, "statements.0.body.statements.0.value.op").String(); got != "+" {
		t.Fatalf("return value op = %q", got)
	}
	if got := gjson.Get(out, "statements.1.expr.args.0.name").String(); got != "add" {
		t.Fatalf("call arg 0 name = %q", got)
	}
}

func TestDumpStringInterpolationSegments(t *testing.T) {
	out := dump(t, `let name="Alice"; print("Hi {name}!")`)
	segs := gjson.Get(out, "statements.1.expr.args.0.segments").Array()
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d: %v", len(segs), segs)
	}
	if !segs[1].Get("ident").Bool() || segs[1].Get("text").String() != "name" {
		t.Fatalf("middle segment = %v", segs[1])
	}
}

func TestDumpArrayAndMethodCall(t *testing.T) {
	out := dump(t, `let a=[1,2,3]; a.push(4)`)
	elems := gjson.Get(out, "statements.0.value.elements").Array()
	if len(elems) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elems))
	}
	if got := gjson.Get(out, "statements.1.expr.type").String(); got != "Method" {
		t.Fatalf("type = %q", got)
	}
	if got := gjson.Get(out, "statements.1.expr.name").String(); got != "push" {
		t.Fatalf("method name = %q", got)
	}
}
