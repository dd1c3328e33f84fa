// Package astdump renders a parsed Bop program as JSON, for debugging and
// for tests that want to assert on tree shape without hand-walking
// ast.Node values.
//
// The document is built incrementally, one sjson.SetRaw call per node,
// mirroring the same recursive descent the parser used to build the tree
// in the first place, rather than marshaling a parallel struct tree with
// encoding/json.
package astdump

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/stevepryde/bop-lang/internal/ast"
)

// Dump renders prog as an indented JSON document: `{"type":"Program",
// "statements":[...]}`.
func Dump(prog *ast.Program) (string, error) {
	doc := "{}"
	doc, err := sjson.Set(doc, "type", "Program")
	if err != nil {
		return "", err
	}
	return setStatements(doc, "statements", prog.Statements)
}

func setStatements(doc, path string, stmts []ast.Statement) (string, error) {
	doc, err := sjson.SetRaw(doc, path, "[]")
	if err != nil {
		return "", err
	}
	for idx, s := range stmts {
		frag, err := dumpStatement(s)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, fmt.Sprintf("%s.%d", path, idx), frag)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

func setExpr(doc, path string, e ast.Expression) (string, error) {
	frag, err := dumpExpression(e)
	if err != nil {
		return "", err
	}
	return sjson.SetRaw(doc, path, frag)
}

func dumpStatement(stmt ast.Statement) (string, error) {
	switch s := stmt.(type) {
	case *ast.Let:
		doc, err := node("Let", s.Line())
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, "name", s.Name)
		if err != nil {
			return "", err
		}
		return setExpr(doc, "value", s.Value)
	case *ast.Assign:
		doc, err := node("Assign", s.Line())
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, "op", assignOpName(s.Op))
		if err != nil {
			return "", err
		}
		targetFrag, err := dumpAssignTarget(s.Target)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, "target", targetFrag)
		if err != nil {
			return "", err
		}
		return setExpr(doc, "value", s.Value)
	case *ast.If:
		doc, err := node("If", s.Line())
		if err != nil {
			return "", err
		}
		doc, err = setExpr(doc, "cond", s.Cond)
		if err != nil {
			return "", err
		}
		thenFrag, err := dumpBlock(s.Then)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, "then", thenFrag)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, "else_ifs", "[]")
		if err != nil {
			return "", err
		}
		for idx, elif := range s.ElseIfs {
			condFrag, err := dumpExpression(elif.Cond)
			if err != nil {
				return "", err
			}
			bodyFrag, err := dumpBlock(elif.Body)
			if err != nil {
				return "", err
			}
			elifDoc := "{}"
			elifDoc, err = sjson.SetRaw(elifDoc, "cond", condFrag)
			if err != nil {
				return "", err
			}
			elifDoc, err = sjson.SetRaw(elifDoc, "body", bodyFrag)
			if err != nil {
				return "", err
			}
			doc, err = sjson.SetRaw(doc, fmt.Sprintf("else_ifs.%d", idx), elifDoc)
			if err != nil {
				return "", err
			}
		}
		if s.Else != nil {
			elseFrag, err := dumpBlock(s.Else)
			if err != nil {
				return "", err
			}
			doc, err = sjson.SetRaw(doc, "else", elseFrag)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case *ast.While:
		doc, err := node("While", s.Line())
		if err != nil {
			return "", err
		}
		doc, err = setExpr(doc, "cond", s.Cond)
		if err != nil {
			return "", err
		}
		bodyFrag, err := dumpBlock(s.Body)
		if err != nil {
			return "", err
		}
		return sjson.SetRaw(doc, "body", bodyFrag)
	case *ast.Repeat:
		doc, err := node("Repeat", s.Line())
		if err != nil {
			return "", err
		}
		doc, err = setExpr(doc, "count", s.Count)
		if err != nil {
			return "", err
		}
		bodyFrag, err := dumpBlock(s.Body)
		if err != nil {
			return "", err
		}
		return sjson.SetRaw(doc, "body", bodyFrag)
	case *ast.For:
		doc, err := node("For", s.Line())
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, "ident", s.Ident)
		if err != nil {
			return "", err
		}
		doc, err = setExpr(doc, "iter", s.Iter)
		if err != nil {
			return "", err
		}
		bodyFrag, err := dumpBlock(s.Body)
		if err != nil {
			return "", err
		}
		return sjson.SetRaw(doc, "body", bodyFrag)
	case *ast.FnDecl:
		doc, err := node("FnDecl", s.Line())
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, "name", s.Name)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, "params", s.Params)
		if err != nil {
			return "", err
		}
		bodyFrag, err := dumpBlock(s.Body)
		if err != nil {
			return "", err
		}
		return sjson.SetRaw(doc, "body", bodyFrag)
	case *ast.Return:
		doc, err := node("Return", s.Line())
		if err != nil {
			return "", err
		}
		if s.Value == nil {
			return doc, nil
		}
		return setExpr(doc, "value", s.Value)
	case *ast.Break:
		return node("Break", s.Line())
	case *ast.Continue:
		return node("Continue", s.Line())
	case *ast.ExprStmt:
		doc, err := node("ExprStmt", s.Line())
		if err != nil {
			return "", err
		}
		return setExpr(doc, "expr", s.Expr)
	default:
		return "", fmt.Errorf("astdump: unhandled statement type %T", stmt)
	}
}

func dumpBlock(b *ast.Block) (string, error) {
	doc, err := node("Block", b.Line())
	if err != nil {
		return "", err
	}
	return setStatements(doc, "statements", b.Statements)
}

func dumpAssignTarget(t ast.AssignTarget) (string, error) {
	switch target := t.(type) {
	case *ast.NameTarget:
		doc, err := node("NameTarget", target.Line())
		if err != nil {
			return "", err
		}
		return sjson.Set(doc, "name", target.Name)
	case *ast.IndexTarget:
		doc, err := node("IndexTarget", target.Line())
		if err != nil {
			return "", err
		}
		doc, err = setExpr(doc, "receiver", target.Receiver)
		if err != nil {
			return "", err
		}
		return setExpr(doc, "key", target.Key)
	default:
		return "", fmt.Errorf("astdump: unhandled assign target type %T", t)
	}
}

func dumpExpression(expr ast.Expression) (string, error) {
	switch e := expr.(type) {
	case *ast.NumLit:
		doc, err := node("NumLit", e.Line())
		if err != nil {
			return "", err
		}
		return sjson.Set(doc, "value", e.Value)
	case *ast.StrLit:
		doc, err := node("StrLit", e.Line())
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, "segments", "[]")
		if err != nil {
			return "", err
		}
		for idx, seg := range e.Segments {
			segDoc := "{}"
			segDoc, err = sjson.Set(segDoc, "text", seg.Text)
			if err != nil {
				return "", err
			}
			segDoc, err = sjson.Set(segDoc, "ident", seg.Ident)
			if err != nil {
				return "", err
			}
			doc, err = sjson.SetRaw(doc, fmt.Sprintf("segments.%d", idx), segDoc)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case *ast.BoolLit:
		doc, err := node("BoolLit", e.Line())
		if err != nil {
			return "", err
		}
		return sjson.Set(doc, "value", e.Value)
	case *ast.NoneLit:
		return node("NoneLit", e.Line())
	case *ast.Ident:
		doc, err := node("Ident", e.Line())
		if err != nil {
			return "", err
		}
		return sjson.Set(doc, "name", e.Name)
	case *ast.ArrayLit:
		doc, err := node("ArrayLit", e.Line())
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, "elements", "[]")
		if err != nil {
			return "", err
		}
		for idx, el := range e.Elements {
			frag, err := dumpExpression(el)
			if err != nil {
				return "", err
			}
			doc, err = sjson.SetRaw(doc, fmt.Sprintf("elements.%d", idx), frag)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case *ast.DictLit:
		doc, err := node("DictLit", e.Line())
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, "entries", "[]")
		if err != nil {
			return "", err
		}
		for idx, entry := range e.Entries {
			valFrag, err := dumpExpression(entry.Value)
			if err != nil {
				return "", err
			}
			entryDoc := "{}"
			entryDoc, err = sjson.Set(entryDoc, "key", entry.Key)
			if err != nil {
				return "", err
			}
			entryDoc, err = sjson.SetRaw(entryDoc, "value", valFrag)
			if err != nil {
				return "", err
			}
			doc, err = sjson.SetRaw(doc, fmt.Sprintf("entries.%d", idx), entryDoc)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case *ast.Unary:
		doc, err := node("Unary", e.Line())
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, "op", unaryOpName(e.Op))
		if err != nil {
			return "", err
		}
		return setExpr(doc, "operand", e.Operand)
	case *ast.Binary:
		doc, err := node("Binary", e.Line())
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, "op", binaryOpName(e.Op))
		if err != nil {
			return "", err
		}
		doc, err = setExpr(doc, "left", e.Left)
		if err != nil {
			return "", err
		}
		return setExpr(doc, "right", e.Right)
	case *ast.Call:
		doc, err := node("Call", e.Line())
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, "name", e.Name)
		if err != nil {
			return "", err
		}
		return setArgs(doc, e.Args)
	case *ast.Method:
		doc, err := node("Method", e.Line())
		if err != nil {
			return "", err
		}
		doc, err = setExpr(doc, "receiver", e.Receiver)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, "name", e.Name)
		if err != nil {
			return "", err
		}
		return setArgs(doc, e.Args)
	case *ast.Index:
		doc, err := node("Index", e.Line())
		if err != nil {
			return "", err
		}
		doc, err = setExpr(doc, "receiver", e.Receiver)
		if err != nil {
			return "", err
		}
		return setExpr(doc, "key", e.Key)
	case *ast.IfExpr:
		doc, err := node("IfExpr", e.Line())
		if err != nil {
			return "", err
		}
		doc, err = setExpr(doc, "cond", e.Cond)
		if err != nil {
			return "", err
		}
		thenFrag, err := dumpBlock(e.Then)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, "then", thenFrag)
		if err != nil {
			return "", err
		}
		elseFrag, err := dumpBlock(e.Else)
		if err != nil {
			return "", err
		}
		return sjson.SetRaw(doc, "else", elseFrag)
	default:
		return "", fmt.Errorf("astdump: unhandled expression type %T", expr)
	}
}

func setArgs(doc string, args []ast.Expression) (string, error) {
	doc, err := sjson.SetRaw(doc, "args", "[]")
	if err != nil {
		return "", err
	}
	for idx, a := range args {
		frag, err := dumpExpression(a)
		if err != nil {
			return "", err
		}
		doc, err = sjson.SetRaw(doc, fmt.Sprintf("args.%d", idx), frag)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

func node(kind string, line int) (string, error) {
	doc, err := sjson.Set("{}", "type", kind)
	if err != nil {
		return "", err
	}
	return sjson.Set(doc, "line", line)
}

func assignOpName(op ast.AssignOp) string {
	switch op {
	case ast.AssignSet:
		return "="
	case ast.AssignAdd:
		return "+="
	case ast.AssignSub:
		return "-="
	case ast.AssignMul:
		return "*="
	case ast.AssignDiv:
		return "/="
	case ast.AssignMod:
		return "%="
	default:
		return "?"
	}
}

func unaryOpName(op ast.UnaryOp) string {
	switch op {
	case ast.UnaryNot:
		return "!"
	case ast.UnaryNeg:
		return "-"
	default:
		return "?"
	}
}

func binaryOpName(op ast.BinaryOp) string {
	switch op {
	case ast.BinAdd:
		return "+"
	case ast.BinSub:
		return "-"
	case ast.BinMul:
		return "*"
	case ast.BinDiv:
		return "/"
	case ast.BinMod:
		return "%"
	case ast.BinEq:
		return "=="
	case ast.BinNotEq:
		return "!="
	case ast.BinLt:
		return "<"
	case ast.BinGt:
		return ">"
	case ast.BinLtEq:
		return "<="
	case ast.BinGtEq:
		return ">="
	case ast.BinAnd:
		return "&&"
	case ast.BinOr:
		return "||"
	default:
		return "?"
	}
}
