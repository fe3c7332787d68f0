package ast

import (
	"encoding/json"
	"fmt"

	"modelc/internal/ir"
	"modelc/internal/types"
)

// This file implements the wire format the CLI boundary (§1, §6:
// "source-location file-excerpt data loading... left to the CLI
// boundary") needs to bring an untyped program in from outside the
// module: a JSON encoding of ast.UntypedProgram. encoding/json alone
// cannot round-trip the tree because every node's Pattern field is an
// interface (ExprPattern/StmtPattern) — Marshal happily serializes
// whatever concrete value is stored, but Unmarshal has no type tag to
// know which variant to allocate. EncodeUntypedProgram/
// DecodeUntypedProgram add that tag explicitly via an intermediate
// envelope type per node kind.

type exprJSON struct {
	Type string `json:"type"`

	LitKind LitKind `json:"litKind,omitempty"`
	Text    string  `json:"text,omitempty"`

	Name string `json:"name,omitempty"`

	FunKind FunKind     `json:"funKind,omitempty"`
	Args    []*exprJSON `json:"args,omitempty"`

	Cond *exprJSON `json:"cond,omitempty"`
	Then *exprJSON `json:"then,omitempty"`
	Else *exprJSON `json:"else,omitempty"`

	Left  *exprJSON `json:"left,omitempty"`
	Right *exprJSON `json:"right,omitempty"`

	Object  *exprJSON    `json:"object,omitempty"`
	Indices []*indexJSON `json:"indices,omitempty"`
}

type indexJSON struct {
	Kind  IndexKind `json:"kind"`
	Lower *exprJSON `json:"lower,omitempty"`
	Upper *exprJSON `json:"upper,omitempty"`
}

type sizedTypeJSON struct {
	Kind SizedKind      `json:"kind"`
	Rows *exprJSON      `json:"rows,omitempty"`
	Cols *exprJSON      `json:"cols,omitempty"`
	Elem *sizedTypeJSON `json:"elem,omitempty"`
}

type stmtJSON struct {
	Type string `json:"type"`

	Lvalue *exprJSON `json:"lvalue,omitempty"`
	Op     string    `json:"op,omitempty"`
	Value  *exprJSON `json:"value,omitempty"`

	FunKind FunKind     `json:"funKind,omitempty"`
	Name    string      `json:"name,omitempty"`
	Args    []*exprJSON `json:"args,omitempty"`

	Cond *exprJSON `json:"cond,omitempty"`
	Then *stmtJSON `json:"then,omitempty"`
	Else *stmtJSON `json:"else,omitempty"`
	Body *stmtJSON `json:"body,omitempty"`

	LoopVar string    `json:"loopVar,omitempty"`
	Lower   *exprJSON `json:"lower,omitempty"`
	Upper   *exprJSON `json:"upper,omitempty"`

	Stmts []*stmtJSON `json:"stmts,omitempty"`

	Ad        types.AdLevel  `json:"ad,omitempty"`
	SizedType *sizedTypeJSON `json:"sizedType,omitempty"`

	Arg          *exprJSON      `json:"arg,omitempty"`
	Distribution string         `json:"distribution,omitempty"`
	Truncation   TruncationKind `json:"truncation,omitempty"`
	TruncLower   *exprJSON      `json:"truncLower,omitempty"`
	TruncUpper   *exprJSON      `json:"truncUpper,omitempty"`

	ReturnType *types.ReturnType `json:"returnType,omitempty"`
	Params     []Param           `json:"params,omitempty"`
}

type programJSON struct {
	Name string `json:"name"`

	Functions             *[]*stmtJSON `json:"functions,omitempty"`
	Data                  *[]*stmtJSON `json:"data,omitempty"`
	TransformedData       *[]*stmtJSON `json:"transformedData,omitempty"`
	Parameters            *[]*stmtJSON `json:"parameters,omitempty"`
	TransformedParameters *[]*stmtJSON `json:"transformedParameters,omitempty"`
	Model                 *[]*stmtJSON `json:"model,omitempty"`
	GeneratedQuantities   *[]*stmtJSON `json:"generatedQuantities,omitempty"`
}

// EncodeUntypedProgram renders p as the wire JSON the CLI reads back
// with DecodeUntypedProgram.
func EncodeUntypedProgram(p *UntypedProgram) ([]byte, error) {
	return json.Marshal(programToJSON(p))
}

// DecodeUntypedProgram parses the JSON produced by EncodeUntypedProgram
// (or hand-written JSON in the same shape) into an untyped program ready
// for analyzer.Analyze.
func DecodeUntypedProgram(data []byte) (*UntypedProgram, error) {
	var pj programJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, fmt.Errorf("ast: decoding program: %w", err)
	}
	return programFromJSON(&pj)
}

func programToJSON(p *UntypedProgram) *programJSON {
	pj := &programJSON{Name: p.Name}
	pj.Functions = blockToJSON(p.Functions)
	pj.Data = blockToJSON(p.Data)
	pj.TransformedData = blockToJSON(p.TransformedData)
	pj.Parameters = blockToJSON(p.Parameters)
	pj.TransformedParameters = blockToJSON(p.TransformedParameters)
	pj.Model = blockToJSON(p.Model)
	pj.GeneratedQuantities = blockToJSON(p.GeneratedQuantities)
	return pj
}

func blockToJSON(b ProgramBlock[ir.NoMeta, ir.StmtNoMeta]) *[]*stmtJSON {
	if !b.Present {
		return nil
	}
	stmts := make([]*stmtJSON, len(b.Stmts))
	for i, s := range b.Stmts {
		stmts[i] = stmtToJSON(s)
	}
	return &stmts
}

func programFromJSON(pj *programJSON) (*UntypedProgram, error) {
	p := &UntypedProgram{Name: pj.Name}
	var err error
	if p.Functions, err = blockFromJSON(pj.Functions); err != nil {
		return nil, err
	}
	if p.Data, err = blockFromJSON(pj.Data); err != nil {
		return nil, err
	}
	if p.TransformedData, err = blockFromJSON(pj.TransformedData); err != nil {
		return nil, err
	}
	if p.Parameters, err = blockFromJSON(pj.Parameters); err != nil {
		return nil, err
	}
	if p.TransformedParameters, err = blockFromJSON(pj.TransformedParameters); err != nil {
		return nil, err
	}
	if p.Model, err = blockFromJSON(pj.Model); err != nil {
		return nil, err
	}
	if p.GeneratedQuantities, err = blockFromJSON(pj.GeneratedQuantities); err != nil {
		return nil, err
	}
	return p, nil
}

func blockFromJSON(stmts *[]*stmtJSON) (ProgramBlock[ir.NoMeta, ir.StmtNoMeta], error) {
	if stmts == nil {
		return ProgramBlock[ir.NoMeta, ir.StmtNoMeta]{}, nil
	}
	out := make([]*UntypedStmt, len(*stmts))
	for i, sj := range *stmts {
		s, err := stmtFromJSON(sj)
		if err != nil {
			return ProgramBlock[ir.NoMeta, ir.StmtNoMeta]{}, err
		}
		out[i] = s
	}
	return NewBlock(out), nil
}

func exprToJSONPtr(e *UntypedExpr) *exprJSON {
	if e == nil {
		return nil
	}
	return exprToJSON(e)
}

func exprToJSON(e *UntypedExpr) *exprJSON {
	switch p := e.Pattern.(type) {
	case *Lit[ir.NoMeta]:
		return &exprJSON{Type: "lit", LitKind: p.Kind, Text: p.Text}
	case *Var[ir.NoMeta]:
		return &exprJSON{Type: "var", Name: p.Name}
	case *FunApp[ir.NoMeta]:
		return &exprJSON{Type: "funapp", FunKind: p.Kind, Name: p.Name, Args: exprsToJSON(p.Args)}
	case *CondDistApp[ir.NoMeta]:
		return &exprJSON{Type: "conddistapp", FunKind: p.Kind, Name: p.Name, Args: exprsToJSON(p.Args)}
	case *TernaryIf[ir.NoMeta]:
		return &exprJSON{Type: "ternary", Cond: exprToJSON(p.Cond), Then: exprToJSON(p.Then), Else: exprToJSON(p.Else)}
	case *EAnd[ir.NoMeta]:
		return &exprJSON{Type: "eand", Left: exprToJSON(p.Left), Right: exprToJSON(p.Right)}
	case *EOr[ir.NoMeta]:
		return &exprJSON{Type: "eor", Left: exprToJSON(p.Left), Right: exprToJSON(p.Right)}
	case *Indexed[ir.NoMeta]:
		indices := make([]*indexJSON, len(p.Indices))
		for i, ix := range p.Indices {
			indices[i] = &indexJSON{Kind: ix.Kind, Lower: exprToJSONPtr(ix.Lower), Upper: exprToJSONPtr(ix.Upper)}
		}
		return &exprJSON{Type: "indexed", Object: exprToJSON(p.Object), Indices: indices}
	default:
		panic(fmt.Sprintf("ast: unhandled expression pattern %T in EncodeUntypedProgram", p))
	}
}

func exprsToJSON(es []*UntypedExpr) []*exprJSON {
	if es == nil {
		return nil
	}
	out := make([]*exprJSON, len(es))
	for i, e := range es {
		out[i] = exprToJSON(e)
	}
	return out
}

func exprFromJSONPtr(j *exprJSON) (*UntypedExpr, error) {
	if j == nil {
		return nil, nil
	}
	return exprFromJSON(j)
}

func exprFromJSON(j *exprJSON) (*UntypedExpr, error) {
	if j == nil {
		return nil, fmt.Errorf("ast: nil expression node")
	}
	switch j.Type {
	case "lit":
		return ir.NewExpr[ir.NoMeta](&Lit[ir.NoMeta]{Kind: j.LitKind, Text: j.Text}, ir.NoMeta{}), nil
	case "var":
		return ir.NewExpr[ir.NoMeta](&Var[ir.NoMeta]{Name: j.Name}, ir.NoMeta{}), nil
	case "funapp":
		args, err := exprsFromJSON(j.Args)
		if err != nil {
			return nil, err
		}
		return ir.NewExpr[ir.NoMeta](&FunApp[ir.NoMeta]{Kind: j.FunKind, Name: j.Name, Args: args}, ir.NoMeta{}), nil
	case "conddistapp":
		args, err := exprsFromJSON(j.Args)
		if err != nil {
			return nil, err
		}
		return ir.NewExpr[ir.NoMeta](&CondDistApp[ir.NoMeta]{Kind: j.FunKind, Name: j.Name, Args: args}, ir.NoMeta{}), nil
	case "ternary":
		cond, err := exprFromJSON(j.Cond)
		if err != nil {
			return nil, err
		}
		then, err := exprFromJSON(j.Then)
		if err != nil {
			return nil, err
		}
		els, err := exprFromJSON(j.Else)
		if err != nil {
			return nil, err
		}
		return ir.NewExpr[ir.NoMeta](&TernaryIf[ir.NoMeta]{Cond: cond, Then: then, Else: els}, ir.NoMeta{}), nil
	case "eand":
		left, err := exprFromJSON(j.Left)
		if err != nil {
			return nil, err
		}
		right, err := exprFromJSON(j.Right)
		if err != nil {
			return nil, err
		}
		return ir.NewExpr[ir.NoMeta](&EAnd[ir.NoMeta]{Left: left, Right: right}, ir.NoMeta{}), nil
	case "eor":
		left, err := exprFromJSON(j.Left)
		if err != nil {
			return nil, err
		}
		right, err := exprFromJSON(j.Right)
		if err != nil {
			return nil, err
		}
		return ir.NewExpr[ir.NoMeta](&EOr[ir.NoMeta]{Left: left, Right: right}, ir.NoMeta{}), nil
	case "indexed":
		object, err := exprFromJSON(j.Object)
		if err != nil {
			return nil, err
		}
		indices := make([]Index[ir.NoMeta], len(j.Indices))
		for i, ixj := range j.Indices {
			lower, err := exprFromJSONPtr(ixj.Lower)
			if err != nil {
				return nil, err
			}
			upper, err := exprFromJSONPtr(ixj.Upper)
			if err != nil {
				return nil, err
			}
			indices[i] = Index[ir.NoMeta]{Kind: ixj.Kind, Lower: lower, Upper: upper}
		}
		return ir.NewExpr[ir.NoMeta](&Indexed[ir.NoMeta]{Object: object, Indices: indices}, ir.NoMeta{}), nil
	default:
		return nil, fmt.Errorf("ast: unknown expression type %q", j.Type)
	}
}

func exprsFromJSON(js []*exprJSON) ([]*UntypedExpr, error) {
	if js == nil {
		return nil, nil
	}
	out := make([]*UntypedExpr, len(js))
	for i, j := range js {
		e, err := exprFromJSON(j)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func sizedTypeToJSON(t SizedType[ir.NoMeta]) *sizedTypeJSON {
	sj := &sizedTypeJSON{Kind: t.Kind, Rows: exprToJSONPtr(t.Rows), Cols: exprToJSONPtr(t.Cols)}
	if t.Elem != nil {
		sj.Elem = sizedTypeToJSON(*t.Elem)
	}
	return sj
}

func sizedTypeFromJSON(sj *sizedTypeJSON) (SizedType[ir.NoMeta], error) {
	if sj == nil {
		return SizedType[ir.NoMeta]{}, fmt.Errorf("ast: nil sized type")
	}
	rows, err := exprFromJSONPtr(sj.Rows)
	if err != nil {
		return SizedType[ir.NoMeta]{}, err
	}
	cols, err := exprFromJSONPtr(sj.Cols)
	if err != nil {
		return SizedType[ir.NoMeta]{}, err
	}
	t := SizedType[ir.NoMeta]{Kind: sj.Kind, Rows: rows, Cols: cols}
	if sj.Elem != nil {
		elem, err := sizedTypeFromJSON(sj.Elem)
		if err != nil {
			return SizedType[ir.NoMeta]{}, err
		}
		t.Elem = &elem
	}
	return t, nil
}

func stmtToJSONPtr(s *UntypedStmt) *stmtJSON {
	if s == nil {
		return nil
	}
	return stmtToJSON(s)
}

func stmtToJSON(s *UntypedStmt) *stmtJSON {
	switch p := s.Pattern.(type) {
	case *Assign[ir.NoMeta, ir.StmtNoMeta]:
		return &stmtJSON{Type: "assign", Lvalue: exprToJSON(p.Lvalue), Op: p.Op, Value: exprToJSON(p.Value)}
	case *TargetPlusEq[ir.NoMeta, ir.StmtNoMeta]:
		return &stmtJSON{Type: "target_plus_eq", Value: exprToJSON(p.Value)}
	case *NRFunApp[ir.NoMeta, ir.StmtNoMeta]:
		return &stmtJSON{Type: "nr_funapp", FunKind: p.Kind, Name: p.Name, Args: exprsToJSON(p.Args)}
	case *Break[ir.NoMeta, ir.StmtNoMeta]:
		return &stmtJSON{Type: "break"}
	case *Continue[ir.NoMeta, ir.StmtNoMeta]:
		return &stmtJSON{Type: "continue"}
	case *Return[ir.NoMeta, ir.StmtNoMeta]:
		return &stmtJSON{Type: "return", Value: exprToJSONPtr(p.Value)}
	case *Skip[ir.NoMeta, ir.StmtNoMeta]:
		return &stmtJSON{Type: "skip"}
	case *IfElse[ir.NoMeta, ir.StmtNoMeta]:
		return &stmtJSON{Type: "if_else", Cond: exprToJSON(p.Cond), Then: stmtToJSON(p.Then), Else: stmtToJSONPtr(p.Else)}
	case *While[ir.NoMeta, ir.StmtNoMeta]:
		return &stmtJSON{Type: "while", Cond: exprToJSON(p.Cond), Body: stmtToJSON(p.Body)}
	case *For[ir.NoMeta, ir.StmtNoMeta]:
		return &stmtJSON{Type: "for", LoopVar: p.LoopVar, Lower: exprToJSON(p.Lower), Upper: exprToJSON(p.Upper), Body: stmtToJSON(p.Body)}
	case *Block[ir.NoMeta, ir.StmtNoMeta]:
		return &stmtJSON{Type: "block", Stmts: stmtsToJSON(p.Stmts)}
	case *SList[ir.NoMeta, ir.StmtNoMeta]:
		return &stmtJSON{Type: "slist", Stmts: stmtsToJSON(p.Stmts)}
	case *Decl[ir.NoMeta, ir.StmtNoMeta]:
		return &stmtJSON{Type: "decl", Ad: p.Ad, Name: p.Name, SizedType: sizedTypeToJSON(p.Type)}
	case *Tilde[ir.NoMeta, ir.StmtNoMeta]:
		return &stmtJSON{
			Type: "tilde", Arg: exprToJSON(p.Arg), Distribution: p.Distribution, Args: exprsToJSON(p.Args),
			Truncation: p.Truncation, TruncLower: exprToJSONPtr(p.TruncLower), TruncUpper: exprToJSONPtr(p.TruncUpper),
		}
	case *FunDef[ir.NoMeta, ir.StmtNoMeta]:
		rt := p.ReturnType
		return &stmtJSON{Type: "fundef", ReturnType: &rt, Name: p.Name, Params: p.Params, Body: stmtToJSONPtr(p.Body)}
	default:
		panic(fmt.Sprintf("ast: unhandled statement pattern %T in EncodeUntypedProgram", p))
	}
}

func stmtsToJSON(ss []*UntypedStmt) []*stmtJSON {
	if ss == nil {
		return nil
	}
	out := make([]*stmtJSON, len(ss))
	for i, s := range ss {
		out[i] = stmtToJSON(s)
	}
	return out
}

func stmtFromJSON(j *stmtJSON) (*UntypedStmt, error) {
	if j == nil {
		return nil, fmt.Errorf("ast: nil statement node")
	}
	switch j.Type {
	case "assign":
		lvalue, err := exprFromJSON(j.Lvalue)
		if err != nil {
			return nil, err
		}
		value, err := exprFromJSON(j.Value)
		if err != nil {
			return nil, err
		}
		return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&Assign[ir.NoMeta, ir.StmtNoMeta]{Lvalue: lvalue, Op: j.Op, Value: value}, ir.StmtNoMeta{}), nil
	case "target_plus_eq":
		value, err := exprFromJSON(j.Value)
		if err != nil {
			return nil, err
		}
		return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&TargetPlusEq[ir.NoMeta, ir.StmtNoMeta]{Value: value}, ir.StmtNoMeta{}), nil
	case "nr_funapp":
		args, err := exprsFromJSON(j.Args)
		if err != nil {
			return nil, err
		}
		return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&NRFunApp[ir.NoMeta, ir.StmtNoMeta]{Kind: j.FunKind, Name: j.Name, Args: args}, ir.StmtNoMeta{}), nil
	case "break":
		return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&Break[ir.NoMeta, ir.StmtNoMeta]{}, ir.StmtNoMeta{}), nil
	case "continue":
		return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&Continue[ir.NoMeta, ir.StmtNoMeta]{}, ir.StmtNoMeta{}), nil
	case "return":
		value, err := exprFromJSONPtr(j.Value)
		if err != nil {
			return nil, err
		}
		return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&Return[ir.NoMeta, ir.StmtNoMeta]{Value: value}, ir.StmtNoMeta{}), nil
	case "skip":
		return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&Skip[ir.NoMeta, ir.StmtNoMeta]{}, ir.StmtNoMeta{}), nil
	case "if_else":
		cond, err := exprFromJSON(j.Cond)
		if err != nil {
			return nil, err
		}
		then, err := stmtFromJSON(j.Then)
		if err != nil {
			return nil, err
		}
		var els *UntypedStmt
		if j.Else != nil {
			els, err = stmtFromJSON(j.Else)
			if err != nil {
				return nil, err
			}
		}
		return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&IfElse[ir.NoMeta, ir.StmtNoMeta]{Cond: cond, Then: then, Else: els}, ir.StmtNoMeta{}), nil
	case "while":
		cond, err := exprFromJSON(j.Cond)
		if err != nil {
			return nil, err
		}
		body, err := stmtFromJSON(j.Body)
		if err != nil {
			return nil, err
		}
		return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&While[ir.NoMeta, ir.StmtNoMeta]{Cond: cond, Body: body}, ir.StmtNoMeta{}), nil
	case "for":
		lower, err := exprFromJSON(j.Lower)
		if err != nil {
			return nil, err
		}
		upper, err := exprFromJSON(j.Upper)
		if err != nil {
			return nil, err
		}
		body, err := stmtFromJSON(j.Body)
		if err != nil {
			return nil, err
		}
		return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&For[ir.NoMeta, ir.StmtNoMeta]{LoopVar: j.LoopVar, Lower: lower, Upper: upper, Body: body}, ir.StmtNoMeta{}), nil
	case "block":
		stmts, err := stmtsFromJSON(j.Stmts)
		if err != nil {
			return nil, err
		}
		return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&Block[ir.NoMeta, ir.StmtNoMeta]{Stmts: stmts}, ir.StmtNoMeta{}), nil
	case "slist":
		stmts, err := stmtsFromJSON(j.Stmts)
		if err != nil {
			return nil, err
		}
		return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&SList[ir.NoMeta, ir.StmtNoMeta]{Stmts: stmts}, ir.StmtNoMeta{}), nil
	case "decl":
		st, err := sizedTypeFromJSON(j.SizedType)
		if err != nil {
			return nil, err
		}
		return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&Decl[ir.NoMeta, ir.StmtNoMeta]{Ad: j.Ad, Name: j.Name, Type: st}, ir.StmtNoMeta{}), nil
	case "tilde":
		arg, err := exprFromJSON(j.Arg)
		if err != nil {
			return nil, err
		}
		args, err := exprsFromJSON(j.Args)
		if err != nil {
			return nil, err
		}
		truncLower, err := exprFromJSONPtr(j.TruncLower)
		if err != nil {
			return nil, err
		}
		truncUpper, err := exprFromJSONPtr(j.TruncUpper)
		if err != nil {
			return nil, err
		}
		return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&Tilde[ir.NoMeta, ir.StmtNoMeta]{
			Arg: arg, Distribution: j.Distribution, Args: args,
			Truncation: j.Truncation, TruncLower: truncLower, TruncUpper: truncUpper,
		}, ir.StmtNoMeta{}), nil
	case "fundef":
		var body *UntypedStmt
		var err error
		if j.Body != nil {
			body, err = stmtFromJSON(j.Body)
			if err != nil {
				return nil, err
			}
		}
		rt := types.ReturnType{}
		if j.ReturnType != nil {
			rt = *j.ReturnType
		}
		return ir.NewStmt[ir.NoMeta, ir.StmtNoMeta](&FunDef[ir.NoMeta, ir.StmtNoMeta]{
			ReturnType: rt, Name: j.Name, Params: j.Params, Body: body,
		}, ir.StmtNoMeta{}), nil
	default:
		return nil, fmt.Errorf("ast: unknown statement type %q", j.Type)
	}
}

func stmtsFromJSON(js []*stmtJSON) ([]*UntypedStmt, error) {
	if js == nil {
		return nil, nil
	}
	out := make([]*UntypedStmt, len(js))
	for i, j := range js {
		s, err := stmtFromJSON(j)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
