// Package herr defines the classified error model shared by every layer of
// the configuration engine: the lexer, the grammar, the expression
// evaluator, the variable table, and the binder all report failures through
// the same Error type so a caller can branch on Kind instead of matching
// strings.
package herr

import "fmt"

// Kind classifies an Error so callers can branch on intent rather than text.
type Kind int

const (
	// KindParse is a lexical or syntactic failure in the grammar layer.
	KindParse Kind = iota
	// KindUnknownKey is returned by a retrieval call for an absent key.
	KindUnknownKey
	// KindTypeMismatch is returned when a typed getter doesn't match the
	// coerced kind of the stored value.
	KindTypeMismatch
	// KindUnknownVar is returned when a $name has no table or environment
	// binding.
	KindUnknownVar
	// KindVarCycle is returned when variable expansion re-enters a name
	// already on the active expansion chain.
	KindVarCycle
	// KindEval is an arithmetic evaluation failure; see EvalKind for the
	// specific cause.
	KindEval
	// KindUnmatchedClose is a `}` with no corresponding open category.
	KindUnmatchedClose
	// KindUnmatchedEndif is a `# hyprlang endif` with no matching `if`.
	KindUnmatchedEndif
	// KindSourceIO is a failure reading a file named by a source directive.
	KindSourceIO
	// KindSourceCycle is a source directive cycle (A includes B includes A).
	KindSourceCycle
	// KindSourceDepthExceeded is a source inclusion chain deeper than the
	// configured safety limit.
	KindSourceDepthExceeded
	// KindUnregisteredSpecialCategory names a special-category open with no
	// matching descriptor.
	KindUnregisteredSpecialCategory
	// KindMissingKey is a keyed special category opened without its key.
	KindMissingKey
	// KindDuplicateHandler is a handler keyword registered more than once.
	KindDuplicateHandler
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindUnknownKey:
		return "UnknownKey"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindUnknownVar:
		return "UnknownVar"
	case KindVarCycle:
		return "VarCycle"
	case KindEval:
		return "EvalError"
	case KindUnmatchedClose:
		return "UnmatchedClose"
	case KindUnmatchedEndif:
		return "UnmatchedEndif"
	case KindSourceIO:
		return "SourceIoError"
	case KindSourceCycle:
		return "SourceCycle"
	case KindSourceDepthExceeded:
		return "SourceDepthExceeded"
	case KindUnregisteredSpecialCategory:
		return "UnregisteredSpecialCategory"
	case KindMissingKey:
		return "MissingKey"
	case KindDuplicateHandler:
		return "DuplicateHandler"
	default:
		return "Unknown"
	}
}

// EvalKind refines KindEval errors, per spec §4.3/§7.
type EvalKind int

const (
	DivByZero EvalKind = iota
	UnexpectedToken
	NonNumeric
)

func (k EvalKind) String() string {
	switch k {
	case DivByZero:
		return "DivByZero"
	case UnexpectedToken:
		return "UnexpectedToken"
	case NonNumeric:
		return "NonNumeric"
	default:
		return "Unknown"
	}
}

// Location identifies where a parse item or an error originated.
type Location struct {
	Source string // source label: a file path, or "<input>" for in-memory text
	Line   int    // 1-based line number within Source
}

func (l Location) String() string {
	if l.Source == "" {
		return fmt.Sprintf("line %d", l.Line)
	}
	return fmt.Sprintf("%s:%d", l.Source, l.Line)
}

// Error is the classified error type returned by every package in this
// module. It always carries a Location (the zero Location prints as
// "line 0" for callers that construct a Store without parsing, e.g. a bare
// Get on an empty store).
type Error struct {
	Kind Kind
	Msg  string
	Loc  Location
	Eval EvalKind // only meaningful when Kind == KindEval
	Err  error    // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	loc := e.Loc.String()
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s: %s (%s)", e.Kind, e.Msg, e.Err, loc)
	} else {
		msg = fmt.Sprintf("%s: %s (%s)", e.Kind, e.Msg, loc)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error of the given kind at the given location.
func New(kind Kind, loc Location, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Loc: loc}
}

// Wrap constructs an Error that wraps an underlying cause.
func Wrap(kind Kind, loc Location, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Loc: loc, Err: cause}
}

// NewEval constructs a KindEval error with the given sub-kind.
func NewEval(ek EvalKind, loc Location, format string, args ...any) *Error {
	return &Error{Kind: KindEval, Eval: ek, Msg: fmt.Sprintf(format, args...), Loc: loc}
}

// Is supports errors.Is against a Kind-only sentinel built with KindSentinel
// or EvalSentinel: two *Error values compare equal-enough for errors.Is when
// their Kind (and Eval, for KindEval) match, regardless of message or
// location. This lets callers write errors.Is(err, herr.KindSentinel(herr.KindVarCycle)).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	if e.Kind == KindEval && e.Eval != t.Eval {
		return false
	}
	return true
}

// KindSentinel returns a comparison-only *Error usable with errors.Is to
// check whether an error is of a given Kind, e.g.:
//
//	if errors.Is(err, herr.KindSentinel(herr.KindVarCycle)) { ... }
func KindSentinel(kind Kind) *Error {
	return &Error{Kind: kind}
}

// EvalSentinel returns a comparison-only *Error usable with errors.Is to
// check for a specific evaluation failure sub-kind.
func EvalSentinel(ek EvalKind) *Error {
	return &Error{Kind: KindEval, Eval: ek}
}

// MultiError accumulates errors parsed under ConfigOptions.ThrowAllErrors,
// where the binder keeps going after a failed top-level item instead of
// aborting immediately (spec §7).
type MultiError struct {
	Errors []*Error
}

func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	s := fmt.Sprintf("%d errors:", len(m.Errors))
	for _, e := range m.Errors {
		s += "\n  " + e.Error()
	}
	return s
}

// Unwrap lets errors.Is/errors.As search each accumulated error.
func (m *MultiError) Unwrap() []error {
	errs := make([]error, len(m.Errors))
	for i, e := range m.Errors {
		errs[i] = e
	}
	return errs
}

// Add appends err to the MultiError, converting plain errors to a KindParse
// Error at the given location if necessary.
func (m *MultiError) Add(err error, loc Location) {
	if err == nil {
		return
	}
	if e, ok := err.(*Error); ok {
		m.Errors = append(m.Errors, e)
		return
	}
	m.Errors = append(m.Errors, Wrap(KindParse, loc, err, "%s", err.Error()))
}

// Empty reports whether no errors have been accumulated.
func (m *MultiError) Empty() bool { return len(m.Errors) == 0 }

// AsError returns m as an error if it holds any entries, else nil. This is
// the usual pattern for returning an accumulated MultiError only when it is
// non-empty.
func (m *MultiError) AsError() error {
	if m.Empty() {
		return nil
	}
	return m
}
