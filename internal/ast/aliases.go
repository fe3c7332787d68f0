package ast

import "modelc/internal/ir"

// The three metadata specializations named by §4.4, spelled out as
// concrete type aliases for readability at call sites.

type UntypedExpr = ir.Expr[ir.NoMeta]
type UntypedStmt = ir.Stmt[ir.NoMeta, ir.StmtNoMeta]
type UntypedProgram = Program[ir.NoMeta, ir.StmtNoMeta]

type TypedExpr = ir.Expr[ir.TypedLocated]
type TypedStmt = ir.Stmt[ir.TypedLocated, ir.StmtLocated]
type TypedProgram = Program[ir.TypedLocated, ir.StmtLocated]

type LabeledExpr = ir.Expr[ir.Labeled]
type LabeledStmt = ir.Stmt[ir.Labeled, ir.StmtLabeled]
type LabeledProgram = Program[ir.Labeled, ir.StmtLabeled]
