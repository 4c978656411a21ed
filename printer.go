// printer.go — parenthesized AST rendering for tests and tooling.
//
// FormatExpr and FormatStmt produce a deterministic Lisp-style
// rendering of a subtree, e.g. (* (- 123) (group 45.67)). The printer
// is purely observational; it never consults the resolution map.
package lox

import "strings"

// FormatExpr renders an expression subtree.
func FormatExpr(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

// FormatStmt renders a statement subtree.
func FormatStmt(s Stmt) string {
	var b strings.Builder
	writeStmt(&b, s)
	return b.String()
}

func parenthesize(b *strings.Builder, name string, parts ...Expr) {
	b.WriteByte('(')
	b.WriteString(name)
	for _, p := range parts {
		b.WriteByte(' ')
		writeExpr(b, p)
	}
	b.WriteByte(')')
}

func writeExpr(b *strings.Builder, e Expr) {
	switch ex := e.(type) {
	case *LiteralExpr:
		if ex.Value == nil {
			b.WriteString("nil")
			return
		}
		if s, ok := ex.Value.(string); ok {
			b.WriteString(s)
			return
		}
		b.WriteString(Stringify(literalValue(ex.Value)))
	case *GroupingExpr:
		parenthesize(b, "group", ex.Inner)
	case *UnaryExpr:
		parenthesize(b, ex.Op.Lexeme, ex.Right)
	case *BinaryExpr:
		parenthesize(b, ex.Op.Lexeme, ex.Left, ex.Right)
	case *LogicalExpr:
		parenthesize(b, ex.Op.Lexeme, ex.Left, ex.Right)
	case *VariableExpr:
		b.WriteString(ex.Name.Lexeme)
	case *AssignExpr:
		b.WriteString("(= " + ex.Name.Lexeme + " ")
		writeExpr(b, ex.Value)
		b.WriteByte(')')
	case *CallExpr:
		b.WriteString("(call ")
		writeExpr(b, ex.Callee)
		for _, a := range ex.Args {
			b.WriteByte(' ')
			writeExpr(b, a)
		}
		b.WriteByte(')')
	case *GetExpr:
		b.WriteString("(. ")
		writeExpr(b, ex.Object)
		b.WriteString(" " + ex.Name.Lexeme + ")")
	case *SetExpr:
		b.WriteString("(.= ")
		writeExpr(b, ex.Object)
		b.WriteString(" " + ex.Name.Lexeme + " ")
		writeExpr(b, ex.Value)
		b.WriteByte(')')
	case *ThisExpr:
		b.WriteString("this")
	case *SuperExpr:
		b.WriteString("(super " + ex.Method.Lexeme + ")")
	default:
		b.WriteString("?")
	}
}

func writeStmt(b *strings.Builder, s Stmt) {
	switch st := s.(type) {
	case *ExpressionStmt:
		b.WriteString("(; ")
		writeExpr(b, st.Expression)
		b.WriteByte(')')
	case *PrintStmt:
		parenthesize(b, "print", st.Expression)
	case *VarStmt:
		b.WriteString("(var " + st.Name.Lexeme)
		if st.Initializer != nil {
			b.WriteByte(' ')
			writeExpr(b, st.Initializer)
		}
		b.WriteByte(')')
	case *BlockStmt:
		b.WriteString("(block")
		for _, inner := range st.Statements {
			b.WriteByte(' ')
			writeStmt(b, inner)
		}
		b.WriteByte(')')
	case *IfStmt:
		b.WriteString("(if ")
		writeExpr(b, st.Condition)
		b.WriteByte(' ')
		writeStmt(b, st.ThenBranch)
		if st.ElseBranch != nil {
			b.WriteByte(' ')
			writeStmt(b, st.ElseBranch)
		}
		b.WriteByte(')')
	case *WhileStmt:
		b.WriteString("(while ")
		writeExpr(b, st.Condition)
		b.WriteByte(' ')
		writeStmt(b, st.Body)
		if st.Increment != nil {
			b.WriteString(" (inc ")
			writeExpr(b, st.Increment)
			b.WriteByte(')')
		}
		b.WriteByte(')')
	case *FunctionStmt:
		b.WriteString("(fun " + st.Name.Lexeme + " (")
		for i, p := range st.Params {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(p.Lexeme)
		}
		b.WriteByte(')')
		for _, inner := range st.Body {
			b.WriteByte(' ')
			writeStmt(b, inner)
		}
		b.WriteByte(')')
	case *ReturnStmt:
		if st.Value == nil {
			b.WriteString("(return)")
			return
		}
		parenthesize(b, "return", st.Value)
	case *ClassStmt:
		b.WriteString("(class " + st.Name.Lexeme)
		if st.Superclass != nil {
			b.WriteString(" < " + st.Superclass.Name.Lexeme)
		}
		for _, m := range st.Methods {
			b.WriteByte(' ')
			writeStmt(b, m)
		}
		b.WriteByte(')')
	case *BreakStmt:
		b.WriteString("(break)")
	case *ContinueStmt:
		b.WriteString("(continue)")
	default:
		b.WriteString("?")
	}
}
