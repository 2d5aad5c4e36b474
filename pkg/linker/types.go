package linker

import (
	"fmt"
)

// Pair is one source directory and the path where a symlink to it should
// live.
type Pair struct {
	// Source is the absolute path the link should resolve to.
	Source string
	// Target is the absolute path of the symlink itself.
	Target string
}

// Mapping is an ordered list of pairs. Targets are unique within a mapping.
type Mapping []Pair

// TargetState classifies what currently sits at a target path.
type TargetState int

const (
	Absent TargetState = iota
	IsFile
	IsDirectory
	IsCorrectLink
	IsIncorrectLink
)

// NotInspected marks an outcome whose pair failed before its target was
// looked at. Inspect never returns it.
const NotInspected TargetState = -1

func (s TargetState) String() string {
	switch s {
	case Absent:
		return "absent"
	case IsFile:
		return "is-file"
	case IsDirectory:
		return "is-directory"
	case IsCorrectLink:
		return "is-correct-link"
	case IsIncorrectLink:
		return "is-incorrect-link"
	case NotInspected:
		return "not-inspected"
	default:
		return fmt.Sprintf("TargetState(%d)", int(s))
	}
}

// Status is the result of reconciling a single pair.
type Status int

const (
	Created Status = iota
	AlreadyCorrect
	Skipped
	Failed
)

func (s Status) String() string {
	switch s {
	case Created:
		return "created"
	case AlreadyCorrect:
		return "already-correct"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Policy controls how Reconcile treats missing sources and occupied
// targets.
type Policy struct {
	// CreateMissingSource creates an absent source directory (with parents)
	// before linking. Without it, a missing source fails the pair.
	CreateMissingSource bool
	// Overwrite replaces anything at the target that is not already a
	// correct link. Without it, such targets are skipped.
	Overwrite bool
	// Confirm, if set, is asked before an existing target is removed.
	// Returning false skips the pair.
	Confirm func(p Pair, state TargetState) bool
	// Protected lists extra paths, besides the mapping's own sources, that
	// an overwritten target must neither be nor contain.
	Protected []string
}

// Outcome records what happened to one pair.
type Outcome struct {
	Pair
	Status Status
	// State is the target state observed before any mutation, or
	// NotInspected when the pair failed earlier.
	State TargetState
	// Err is set when Status is Failed.
	Err error
}

func (o Outcome) String() string {
	if o.Status == Failed && o.Err != nil {
		return fmt.Sprintf("%s: %s", o.Status, o.Err)
	}
	if o.Status == Skipped {
		return fmt.Sprintf("%s, exists as %s", o.Status, o.State)
	}
	return o.Status.String()
}

// Result holds one outcome per input pair, in mapping order.
type Result struct {
	Outcomes []Outcome
}

// ByTarget indexes outcomes by target path.
func (r Result) ByTarget() map[string]Outcome {
	m := make(map[string]Outcome, len(r.Outcomes))
	for _, o := range r.Outcomes {
		m[o.Target] = o
	}
	return m
}

// Count returns how many outcomes have the given status.
func (r Result) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Succeeded counts targets that are correctly linked after the pass.
func (r Result) Succeeded() int {
	return r.Count(Created) + r.Count(AlreadyCorrect)
}

func (r Result) Total() int {
	return len(r.Outcomes)
}

func (r Result) HasFailures() bool {
	return r.Count(Failed) > 0
}

// Merge appends the outcomes of other to r.
func (r *Result) Merge(other Result) {
	r.Outcomes = append(r.Outcomes, other.Outcomes...)
}
