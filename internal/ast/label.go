package ast

import "modelc/internal/ir"

// Label assigns a unique integer label to every expression and statement
// node in a typed program, in a single linear, strict pre-order pass
// (§3's Lifecycle, §4.4's traverse_with_state/associate, §5's ordering
// guarantee). Labels are assigned 0, 1, 2, ... in the order nodes are
// visited; Children()/ExprChildren()/StmtChildren() already return
// children in natural reading order (condition before branches, lower
// before upper, head before tail), so visiting in that order is enough to
// satisfy the ordering guarantee.
//
// This is a dedicated walker rather than an instantiation of ir.MapExpr:
// labeling changes the metadata type from ir.TypedLocated to ir.Labeled,
// and Go generics cannot express a single traversal that changes a
// recursive sum type's type parameter (see the package ir doc comment).
func Label(p *TypedProgram) *LabeledProgram {
	counter := 0
	labelBlock := func(b ProgramBlock[ir.TypedLocated, ir.StmtLocated]) ProgramBlock[ir.Labeled, ir.StmtLabeled] {
		if !b.Present {
			return ProgramBlock[ir.Labeled, ir.StmtLabeled]{}
		}
		stmts := make([]*LabeledStmt, len(b.Stmts))
		for i, s := range b.Stmts {
			stmts[i] = labelStmt(s, &counter)
		}
		return NewBlock(stmts)
	}
	return &LabeledProgram{
		Name:                  p.Name,
		Functions:             labelBlock(p.Functions),
		Data:                  labelBlock(p.Data),
		TransformedData:       labelBlock(p.TransformedData),
		Parameters:            labelBlock(p.Parameters),
		TransformedParameters: labelBlock(p.TransformedParameters),
		Model:                 labelBlock(p.Model),
		GeneratedQuantities:   labelBlock(p.GeneratedQuantities),
	}
}

func nextLabel(counter *int, typed ir.TypedLocated) ir.Labeled {
	l := *counter
	*counter++
	return ir.Labeled{TypedLocated: typed, Label: l}
}

func nextStmtLabel(counter *int, located ir.StmtLocated) ir.StmtLabeled {
	l := *counter
	*counter++
	return ir.StmtLabeled{StmtLocated: located, Label: l}
}

func labelExpr(e *TypedExpr, counter *int) *LabeledExpr {
	meta := nextLabel(counter, e.Meta)
	switch p := e.Pattern.(type) {
	case *Lit[ir.TypedLocated]:
		return ir.NewExpr[ir.Labeled](&Lit[ir.Labeled]{Kind: p.Kind, Text: p.Text}, meta)
	case *Var[ir.TypedLocated]:
		return ir.NewExpr[ir.Labeled](&Var[ir.Labeled]{Name: p.Name}, meta)
	case *FunApp[ir.TypedLocated]:
		args := make([]*LabeledExpr, len(p.Args))
		for i, a := range p.Args {
			args[i] = labelExpr(a, counter)
		}
		return ir.NewExpr[ir.Labeled](&FunApp[ir.Labeled]{Kind: p.Kind, Name: p.Name, Args: args}, meta)
	case *CondDistApp[ir.TypedLocated]:
		args := make([]*LabeledExpr, len(p.Args))
		for i, a := range p.Args {
			args[i] = labelExpr(a, counter)
		}
		return ir.NewExpr[ir.Labeled](&CondDistApp[ir.Labeled]{Kind: p.Kind, Name: p.Name, Args: args}, meta)
	case *TernaryIf[ir.TypedLocated]:
		cond := labelExpr(p.Cond, counter)
		then := labelExpr(p.Then, counter)
		els := labelExpr(p.Else, counter)
		return ir.NewExpr[ir.Labeled](&TernaryIf[ir.Labeled]{Cond: cond, Then: then, Else: els}, meta)
	case *EAnd[ir.TypedLocated]:
		left := labelExpr(p.Left, counter)
		right := labelExpr(p.Right, counter)
		return ir.NewExpr[ir.Labeled](&EAnd[ir.Labeled]{Left: left, Right: right}, meta)
	case *EOr[ir.TypedLocated]:
		left := labelExpr(p.Left, counter)
		right := labelExpr(p.Right, counter)
		return ir.NewExpr[ir.Labeled](&EOr[ir.Labeled]{Left: left, Right: right}, meta)
	case *Indexed[ir.TypedLocated]:
		object := labelExpr(p.Object, counter)
		indices := make([]Index[ir.Labeled], len(p.Indices))
		for i, idx := range p.Indices {
			indices[i] = labelIndex(idx, counter)
		}
		return ir.NewExpr[ir.Labeled](&Indexed[ir.Labeled]{Object: object, Indices: indices}, meta)
	default:
		panic("ast.labelExpr: unhandled expression pattern")
	}
}

func labelIndex(ix Index[ir.TypedLocated], counter *int) Index[ir.Labeled] {
	switch ix.Kind {
	case IndexAll:
		return All[ir.Labeled]()
	case IndexSingle:
		return Single(labelExpr(ix.Lower, counter))
	case IndexMulti:
		return Multi(labelExpr(ix.Lower, counter))
	case IndexUpfrom:
		return Upfrom(labelExpr(ix.Lower, counter))
	case IndexDownfrom:
		return Downfrom(labelExpr(ix.Lower, counter))
	case IndexBetween:
		return Between(labelExpr(ix.Lower, counter), labelExpr(ix.Upper, counter))
	default:
		panic("ast.labelIndex: unhandled index kind")
	}
}

func labelSizedType(t SizedType[ir.TypedLocated], counter *int) SizedType[ir.Labeled] {
	switch t.Kind {
	case SInt:
		return MkSInt[ir.Labeled]()
	case SReal:
		return MkSReal[ir.Labeled]()
	case SVector:
		return MkSVector(labelExpr(t.Rows, counter))
	case SRowVector:
		return MkSRowVector(labelExpr(t.Rows, counter))
	case SMatrix:
		return MkSMatrix(labelExpr(t.Rows, counter), labelExpr(t.Cols, counter))
	case SArray:
		elem := labelSizedType(*t.Elem, counter)
		return MkSArray(elem, labelExpr(t.Rows, counter))
	default:
		panic("ast.labelSizedType: unhandled sized type kind")
	}
}

func labelStmtSlice(stmts []*TypedStmt, counter *int) []*LabeledStmt {
	out := make([]*LabeledStmt, len(stmts))
	for i, s := range stmts {
		out[i] = labelStmt(s, counter)
	}
	return out
}

func labelStmt(s *TypedStmt, counter *int) *LabeledStmt {
	meta := nextStmtLabel(counter, s.Meta)
	switch p := s.Pattern.(type) {
	case *Assign[ir.TypedLocated, ir.StmtLocated]:
		lv := labelExpr(p.Lvalue, counter)
		val := labelExpr(p.Value, counter)
		return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&Assign[ir.Labeled, ir.StmtLabeled]{Lvalue: lv, Op: p.Op, Value: val}, meta)
	case *TargetPlusEq[ir.TypedLocated, ir.StmtLocated]:
		val := labelExpr(p.Value, counter)
		return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&TargetPlusEq[ir.Labeled, ir.StmtLabeled]{Value: val}, meta)
	case *NRFunApp[ir.TypedLocated, ir.StmtLocated]:
		args := make([]*LabeledExpr, len(p.Args))
		for i, a := range p.Args {
			args[i] = labelExpr(a, counter)
		}
		return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&NRFunApp[ir.Labeled, ir.StmtLabeled]{Kind: p.Kind, Name: p.Name, Args: args}, meta)
	case *Break[ir.TypedLocated, ir.StmtLocated]:
		return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&Break[ir.Labeled, ir.StmtLabeled]{}, meta)
	case *Continue[ir.TypedLocated, ir.StmtLocated]:
		return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&Continue[ir.Labeled, ir.StmtLabeled]{}, meta)
	case *Return[ir.TypedLocated, ir.StmtLocated]:
		if p.Value == nil {
			return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&Return[ir.Labeled, ir.StmtLabeled]{}, meta)
		}
		val := labelExpr(p.Value, counter)
		return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&Return[ir.Labeled, ir.StmtLabeled]{Value: val}, meta)
	case *Skip[ir.TypedLocated, ir.StmtLocated]:
		return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&Skip[ir.Labeled, ir.StmtLabeled]{}, meta)
	case *IfElse[ir.TypedLocated, ir.StmtLocated]:
		cond := labelExpr(p.Cond, counter)
		then := labelStmt(p.Then, counter)
		var els *LabeledStmt
		if p.Else != nil {
			els = labelStmt(p.Else, counter)
		}
		return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&IfElse[ir.Labeled, ir.StmtLabeled]{Cond: cond, Then: then, Else: els}, meta)
	case *While[ir.TypedLocated, ir.StmtLocated]:
		cond := labelExpr(p.Cond, counter)
		body := labelStmt(p.Body, counter)
		return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&While[ir.Labeled, ir.StmtLabeled]{Cond: cond, Body: body}, meta)
	case *For[ir.TypedLocated, ir.StmtLocated]:
		lower := labelExpr(p.Lower, counter)
		upper := labelExpr(p.Upper, counter)
		body := labelStmt(p.Body, counter)
		return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&For[ir.Labeled, ir.StmtLabeled]{LoopVar: p.LoopVar, Lower: lower, Upper: upper, Body: body}, meta)
	case *Block[ir.TypedLocated, ir.StmtLocated]:
		return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&Block[ir.Labeled, ir.StmtLabeled]{Stmts: labelStmtSlice(p.Stmts, counter)}, meta)
	case *SList[ir.TypedLocated, ir.StmtLocated]:
		return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&SList[ir.Labeled, ir.StmtLabeled]{Stmts: labelStmtSlice(p.Stmts, counter)}, meta)
	case *Decl[ir.TypedLocated, ir.StmtLocated]:
		return ir.NewStmt[ir.Labeled, ir.StmtLabeled](&Decl[ir.Labeled, ir.StmtLabeled]{Ad: p.Ad, Name: p.Name, Type: labelSizedType(p.Type, counter)}, meta)
	case *Tilde[ir.TypedLocated, ir.StmtLocated]:
		arg := labelExpr(p.Arg, counter)
		args := make([]*LabeledExpr, len(p.Args))
		for i, a := range p.Args {
			args[i] = labelExpr(a, counter)
		}
		nt := &Tilde[ir.Labeled, ir.StmtLabeled]{Arg: arg, Distribution: p.Distribution, Args: args, Truncation: p.Truncation}
		if p.Truncation == TruncLowerOnly || p.Truncation == TruncBoth {
			nt.TruncLower = labelExpr(p.TruncLower, counter)
		}
		if p.Truncation == TruncUpperOnly || p.Truncation == TruncBoth {
			nt.TruncUpper = labelExpr(p.TruncUpper, counter)
		}
		return ir.NewStmt[ir.Labeled, ir.StmtLabeled](nt, meta)
	case *FunDef[ir.TypedLocated, ir.StmtLocated]:
		nf := &FunDef[ir.Labeled, ir.StmtLabeled]{ReturnType: p.ReturnType, Name: p.Name, Params: p.Params}
		if p.Body != nil {
			nf.Body = labelStmt(p.Body, counter)
		}
		return ir.NewStmt[ir.Labeled, ir.StmtLabeled](nf, meta)
	default:
		panic("ast.labelStmt: unhandled statement pattern")
	}
}

// Associate indexes a labeled program's expressions and statements by
// their label, per §4.4's associate operation.
func Associate(p *LabeledProgram) (exprs map[int]*LabeledExpr, stmts map[int]*LabeledStmt) {
	exprs = map[int]*LabeledExpr{}
	stmts = map[int]*LabeledStmt{}
	exprFn := func(_ struct{}, e *LabeledExpr) struct{} {
		exprs[e.Meta.Label] = e
		return struct{}{}
	}
	stmtFn := func(_ struct{}, s *LabeledStmt) struct{} {
		stmts[s.Meta.Label] = s
		return struct{}{}
	}
	for _, entry := range p.Blocks() {
		if !entry.Block.Present {
			continue
		}
		for _, s := range entry.Block.Stmts {
			ir.FoldStmt(s, struct{}{}, exprFn, stmtFn)
		}
	}
	return exprs, stmts
}
