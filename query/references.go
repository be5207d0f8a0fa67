package query

import (
	"fmt"
	"sort"
	"strings"

	exprast "github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// References returns the variable paths an expr-lang source reads, sorted.
// Bound parameters and paths relative to a closure element, named or '#',
// are skipped; computed subscripts are written as [*].
func References(source string) ([]string, error) {
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}

	tree, err := parser.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", source, err)
	}

	paths := make(map[string]struct{})
	add := func(path string) {
		if path != "" && !strings.HasPrefix(path, paramPrefix) && !strings.HasPrefix(path, elemPrefix) {
			paths[path] = struct{}{}
		}
	}

	var visit func(node exprast.Node)
	visit = func(node exprast.Node) {
		switch n := node.(type) {
		case nil:
		case *exprast.IdentifierNode:
			add(n.Value)
		case *exprast.MemberNode:
			if path, ok := memberPath(n); ok {
				add(path)
			} else {
				visit(n.Node)
			}
			visit(n.Property)
		case *exprast.UnaryNode:
			visit(n.Node)
		case *exprast.BinaryNode:
			visit(n.Left)
			visit(n.Right)
		case *exprast.ChainNode:
			visit(n.Node)
		case *exprast.CallNode:
			switch callee := n.Callee.(type) {
			case *exprast.MemberNode:
				// a method call reads its receiver
				visit(callee.Node)
			case *exprast.IdentifierNode:
			default:
				visit(callee)
			}
			for _, arg := range n.Arguments {
				visit(arg)
			}
		case *exprast.BuiltinNode:
			for _, arg := range n.Arguments {
				visit(arg)
			}
		case *exprast.PredicateNode:
			visit(n.Node)
		case *exprast.ConditionalNode:
			visit(n.Cond)
			visit(n.Exp1)
			visit(n.Exp2)
		case *exprast.ArrayNode:
			for _, child := range n.Nodes {
				visit(child)
			}
		case *exprast.VariableDeclaratorNode:
			visit(n.Value)
			visit(n.Expr)
		case *exprast.SequenceNode:
			for _, child := range n.Nodes {
				visit(child)
			}
		}
	}
	visit(tree.Node)

	out := make([]string, 0, len(paths))
	for path := range paths {
		out = append(out, path)
	}
	sort.Strings(out)
	return out, nil
}

func memberPath(node *exprast.MemberNode) (string, bool) {
	var base string
	switch n := node.Node.(type) {
	case *exprast.IdentifierNode:
		base = n.Value
	case *exprast.MemberNode:
		var ok bool
		if base, ok = memberPath(n); !ok {
			return "", false
		}
	default:
		return "", false
	}

	switch p := node.Property.(type) {
	case *exprast.StringNode:
		return base + "." + p.Value, true
	case *exprast.IntegerNode:
		return fmt.Sprintf("%s[%d]", base, p.Value), true
	default:
		return base + "[*]", true
	}
}

// References returns the variable paths the program reads
func (p *Program) References() ([]string, error) {
	return References(p.source)
}
