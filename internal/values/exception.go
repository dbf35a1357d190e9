package values

// Exception kinds form a closed taxonomy. They are user-visible pipeline
// errors except Internal, which wraps unexpected worker failures.
const (
	TypeError      = "type"
	LengthError    = "length"
	IntegerError   = "integer"
	IndexError     = "index"
	KeyError       = "key"
	NameError      = "name"
	NumArgsError   = "numArgs"
	EmptyError     = "empty"
	SensibleString = "sensibleString"
	Assignment     = "assignment"
	PathError      = "path"
	Permission     = "permission"
	CommandOutput  = "commandOutput"
	UnicodeError   = "unicode"
	NumValues      = "numValues"
	Internal       = "internal"
)

// Exception is an in-band error signal. It is a first-class Value: it can
// appear anywhere a value can, including inside arrays and objects under
// construction.
type Exception struct {
	Name string // symbolic kind

	// optional structured context
	MissingName string // name: the unresolvable identifier
	TargetText  string // assignment: textual form of the offending filter
	Expected    []int  // numArgs: arities registered for the name
	Received    int    // numArgs: arity actually used
	Detail      string // internal: wrapped failure description
}

func NewException(name string) *Exception {
	return &Exception{Name: name}
}

func (e *Exception) Kind() Kind { return EXCEPTION_KIND }

// String renders the exception's literal form. Exceptions have no JSON
// form; this is what reaches a command's stdin if one is piped through.
func (e *Exception) String() string {
	return `exception(` + Quote(e.Name) + `)`
}
func (*Exception) value() {}

// IsException reports whether v is an in-band error signal.
func IsException(v Value) bool {
	_, ok := v.(*Exception)
	return ok
}
