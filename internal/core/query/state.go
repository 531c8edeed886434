package query

import "fmt"

// State is a step of one question-answering run.
type State int

const (
	Idle State = iota
	GeneratingQuery
	Executing
	Formatting
	Done
	Failed
)

var stateNames = map[State]string{
	Idle:            "idle",
	GeneratingQuery: "generating_query",
	Executing:       "executing",
	Formatting:      "formatting",
	Done:            "done",
	Failed:          "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}
