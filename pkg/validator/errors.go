package validator

import "fmt"

// Kind identifies one semantic-error category. The message text for each
// kind is fixed; only the offending names and counts vary.
type Kind int

const (
	DuplicateConstant Kind = iota
	DuplicateFunction
	ReservedConstantName
	FunctionCollidesWithConstant
	LocalCollidesWithConstant
	LocalCollidesWithFunction
	ArgCollidesWithConstant
	ArgCollidesWithFunction
	DuplicateArgument
	UnknownVariable
	UnknownFunctionCall
	ArityMismatch
	MainHasArguments
	TooManyParameters
)

// Error is a semantic error. Compilation stops at the first one; there is
// no accumulation and no recovery.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
