package ast

import "modelc/internal/ir"

// ProgramBlock is one optional top-level section: Present distinguishes
// "the block was written but empty" from "the block is absent entirely",
// which matters because an absent `transformed parameters` block, say, is
// not the same as one with zero statements for a reader of the source.
type ProgramBlock[EM any, SM any] struct {
	Present bool
	Stmts   []*ir.Stmt[EM, SM]
}

func NewBlock[EM any, SM any](stmts []*ir.Stmt[EM, SM]) ProgramBlock[EM, SM] {
	return ProgramBlock[EM, SM]{Present: true, Stmts: stmts}
}

// Program is the top-level record of §3: a name plus the seven optional
// blocks, walked by the analyzer in the fixed order Functions, Data,
// TransformedData, Parameters, TransformedParameters, Model,
// GeneratedQuantities.
type Program[EM any, SM any] struct {
	Name string

	Functions             ProgramBlock[EM, SM]
	Data                  ProgramBlock[EM, SM]
	TransformedData       ProgramBlock[EM, SM]
	Parameters            ProgramBlock[EM, SM]
	TransformedParameters ProgramBlock[EM, SM]
	Model                 ProgramBlock[EM, SM]
	GeneratedQuantities   ProgramBlock[EM, SM]
}

// Blocks returns the seven blocks in the fixed analysis order, each
// paired with its display name ("functions", "data", ...).
func (p *Program[EM, SM]) Blocks() []struct {
	Name  string
	Block *ProgramBlock[EM, SM]
} {
	return []struct {
		Name  string
		Block *ProgramBlock[EM, SM]
	}{
		{"functions", &p.Functions},
		{"data", &p.Data},
		{"transformed data", &p.TransformedData},
		{"parameters", &p.Parameters},
		{"transformed parameters", &p.TransformedParameters},
		{"model", &p.Model},
		{"generated quantities", &p.GeneratedQuantities},
	}
}
