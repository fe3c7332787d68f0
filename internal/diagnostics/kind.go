package diagnostics

import "fmt"

// Kind is the exhaustive error-kind enum of §7.
type Kind int

const (
	IdentifierIsKeyword Kind = iota
	IdentifierIsModelName
	IdentifierIsStanMathName
	IdentifierInUse
	IdentifierNotInScope

	InvalidIndex

	IllTypedIfReturnTypes
	IllTypedTernaryIf

	IllTypedFunctionApp
	IllTypedNRFunction
	IllTypedNotAFunction
	IllTypedNoSuchFunction

	IllTypedBinOp
	IllTypedPrefixOp
	IllTypedPostfixOp

	FnMapRect
	FnConditioning
	FnTargetPlusEquals
	FnRng

	FatalInternal
)

var kindNames = map[Kind]string{
	IdentifierIsKeyword:      "IdentifierIsKeyword",
	IdentifierIsModelName:    "IdentifierIsModelName",
	IdentifierIsStanMathName: "IdentifierIsStanMathName",
	IdentifierInUse:          "IdentifierInUse",
	IdentifierNotInScope:     "IdentifierNotInScope",
	InvalidIndex:             "InvalidIndex",
	IllTypedIfReturnTypes:    "IllTypedIfReturnTypes",
	IllTypedTernaryIf:        "IllTypedTernaryIf",
	IllTypedFunctionApp:      "IllTypedFunctionApp",
	IllTypedNRFunction:       "IllTypedNRFunction",
	IllTypedNotAFunction:     "IllTypedNotAFunction",
	IllTypedNoSuchFunction:   "IllTypedNoSuchFunction",
	IllTypedBinOp:            "IllTypedBinOp",
	IllTypedPrefixOp:         "IllTypedPrefixOp",
	IllTypedPostfixOp:        "IllTypedPostfixOp",
	FnMapRect:                "FnMapRect",
	FnConditioning:           "FnConditioning",
	FnTargetPlusEquals:       "FnTargetPlusEquals",
	FnRng:                    "FnRng",
	FatalInternal:            "FatalInternal",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}
