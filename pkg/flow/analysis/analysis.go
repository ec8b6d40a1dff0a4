// Package analysis infers the literal path labels a router step can emit
// by statically reading its Go source. The pass is best-effort: anything
// it cannot prove degrades to unknown, never to a guess, so callers must
// treat a nil result as "do not synthesize a router edge" rather than "no
// edges".
package analysis

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"sort"
	"strconv"
)

// Analyzer performs literal-return inference. Diagnostics go to the
// injected logger; a nil logger falls back to slog.Default. Analyzer holds
// no mutable state and is safe for concurrent use.
type Analyzer struct {
	log *slog.Logger
}

func New(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{log: logger}
}

// FileReturns parses a Go source file and infers the literal string
// returns of every top-level function in it. Functions with no provable
// literals are absent from the result. An unreadable or unparsable file
// yields nil after logging a diagnostic; it is never fatal.
func (a *Analyzer) FileReturns(path string) map[string][]string {
	src, err := os.ReadFile(path)
	if err != nil {
		a.log.Error("step source unavailable", "path", path, "err", err)
		return nil
	}
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, 0)
	if err != nil {
		a.log.Error("step source parse failed", "path", path, "err", err)
		return nil
	}

	out := make(map[string][]string)
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		if returns := literalReturns(fn.Body); returns != nil {
			out[fn.Name.Name] = returns
		}
	}
	return out
}

// FuncReturns infers the literal string returns of a single function given
// as source text. name selects the function when src holds several; an
// empty name takes the first. Returns nil when nothing could be determined.
func (a *Analyzer) FuncReturns(name, src string) []string {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, name+".go", "package p\n\n"+src, 0)
	if err != nil {
		a.log.Error("step source parse failed", "step", name, "err", err)
		return nil
	}
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		if name == "" || fn.Name.Name == name {
			return literalReturns(fn.Body)
		}
	}
	a.log.Error("step source unavailable", "step", name, "err", fmt.Errorf("no function %q in source", name))
	return nil
}

// literalReturns is the inference pass proper: one forward sweep over
// assignment statements building the lookup tables, then a walk over every
// return statement. Nil means unknown.
func literalReturns(body *ast.BlockStmt) []string {
	mapLits := make(map[string][]string) // variable → every string value of a map literal
	scalars := make(map[string][]string) // variable or receiver.field path → string literals

	ast.Inspect(body, func(n ast.Node) bool {
		switch stmt := n.(type) {
		case *ast.IfStmt:
			// A two-armed if/else assigning string literals to the same
			// path is the statement form of a conditional expression;
			// record both arms instead of letting the second overwrite.
			if path, values, ok := twoArmedAssign(stmt); ok {
				scalars[path] = values
				return false
			}
		case *ast.AssignStmt:
			recordAssign(stmt, mapLits, scalars)
		}
		return true
	})

	found := make(map[string]bool)
	ast.Inspect(body, func(n ast.Node) bool {
		ret, ok := n.(*ast.ReturnStmt)
		if !ok || len(ret.Results) != 1 {
			return true
		}
		switch value := ret.Results[0].(type) {
		case *ast.BasicLit:
			if s, ok := stringLit(value); ok {
				found[s] = true
			}
		case *ast.IndexExpr:
			// Any key might be looked up at runtime, so every value of
			// the mapped literal is a possible return.
			if ident, ok := value.X.(*ast.Ident); ok {
				for _, s := range mapLits[ident.Name] {
					found[s] = true
				}
			}
		default:
			if path, ok := refPath(value); ok {
				for _, s := range scalars[path] {
					found[s] = true
				}
			}
		}
		return true
	})

	if len(found) == 0 {
		return nil
	}
	returns := make([]string, 0, len(found))
	for s := range found {
		returns = append(returns, s)
	}
	sort.Strings(returns)
	return returns
}

// recordAssign updates the lookup tables for a single-target assignment.
// A map literal whose every value is a string literal populates the
// map-literal table; a string literal populates the scalar table,
// replacing any earlier value for the same path.
func recordAssign(stmt *ast.AssignStmt, mapLits, scalars map[string][]string) {
	if len(stmt.Lhs) != 1 || len(stmt.Rhs) != 1 {
		return
	}
	path, ok := refPath(stmt.Lhs[0])
	if !ok {
		return
	}

	switch rhs := stmt.Rhs[0].(type) {
	case *ast.CompositeLit:
		if _, ok := rhs.Type.(*ast.MapType); !ok {
			return
		}
		ident, ok := stmt.Lhs[0].(*ast.Ident)
		if !ok {
			return
		}
		values := make([]string, 0, len(rhs.Elts))
		for _, elt := range rhs.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				return
			}
			lit, ok := kv.Value.(*ast.BasicLit)
			if !ok {
				return
			}
			s, ok := stringLit(lit)
			if !ok {
				return
			}
			values = append(values, s)
		}
		if len(values) > 0 {
			mapLits[ident.Name] = values
		}
	case *ast.BasicLit:
		if s, ok := stringLit(rhs); ok {
			scalars[path] = []string{s}
		}
	}
}

// twoArmedAssign matches `if cond { path = "a" } else { path = "b" }` where
// both arms are a single string-literal assignment to the same path.
func twoArmedAssign(stmt *ast.IfStmt) (string, []string, bool) {
	elseBlock, ok := stmt.Else.(*ast.BlockStmt)
	if !ok {
		return "", nil, false
	}
	thenPath, thenValue, ok := singleStringAssign(stmt.Body)
	if !ok {
		return "", nil, false
	}
	elsePath, elseValue, ok := singleStringAssign(elseBlock)
	if !ok || thenPath != elsePath {
		return "", nil, false
	}
	return thenPath, []string{thenValue, elseValue}, true
}

func singleStringAssign(block *ast.BlockStmt) (string, string, bool) {
	if len(block.List) != 1 {
		return "", "", false
	}
	assign, ok := block.List[0].(*ast.AssignStmt)
	if !ok || len(assign.Lhs) != 1 || len(assign.Rhs) != 1 {
		return "", "", false
	}
	path, ok := refPath(assign.Lhs[0])
	if !ok {
		return "", "", false
	}
	lit, ok := assign.Rhs[0].(*ast.BasicLit)
	if !ok {
		return "", "", false
	}
	value, ok := stringLit(lit)
	if !ok {
		return "", "", false
	}
	return path, value, true
}

// refPath renders an identifier or a single-level field selector as a
// lookup key: `x` or `recv.field`.
func refPath(expr ast.Expr) (string, bool) {
	switch v := expr.(type) {
	case *ast.Ident:
		return v.Name, true
	case *ast.SelectorExpr:
		if recv, ok := v.X.(*ast.Ident); ok {
			return recv.Name + "." + v.Sel.Name, true
		}
		return "_." + v.Sel.Name, true
	}
	return "", false
}

func stringLit(lit *ast.BasicLit) (string, bool) {
	if lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return s, true
}
