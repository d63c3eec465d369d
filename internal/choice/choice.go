// Package choice decides between candidates without doing any I/O.
//
// Commands call Resolve with what the user supplied on the command line.
// Only when the decision is NeedsPrompt does the command show an
// interactive prompt, restricted to Decision.Candidates.
package choice

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Kind identifies what is being chosen.
type Kind string

const (
	KindWorkspace  Kind = "workspace"
	KindRepository Kind = "repository"
	KindConfirm    Kind = "confirmation"
)

// Outcome is the kind of decision reached.
type Outcome int

const (
	Selected    Outcome = iota // Value holds the choice
	NeedsPrompt                // ask the user among Candidates
	NoMatch                    // nothing matched what was supplied
)

var (
	ErrNoMatch   = errors.New("no match")
	ErrAmbiguous = errors.New("ambiguous")
)

// Decision is the result of Resolve.
type Decision struct {
	Outcome    Outcome
	Value      string
	Candidates []string // prompt options for NeedsPrompt, best first
	Supplied   string
	Kind       Kind
}

// Err describes a decision that cannot proceed without a prompt.
// Returns nil for Selected.
func (d Decision) Err() error {
	switch d.Outcome {
	case Selected:
		return nil
	case NoMatch:
		if d.Supplied == "" {
			return fmt.Errorf("no %s available: %w", d.Kind, ErrNoMatch)
		}
		return fmt.Errorf("no %s matches %q: %w", d.Kind, d.Supplied, ErrNoMatch)
	default:
		if d.Supplied == "" {
			return fmt.Errorf("%s required (one of: %s): %w", d.Kind, strings.Join(d.Candidates, ", "), ErrAmbiguous)
		}
		return fmt.Errorf("%q matches several %ss (%s): %w", d.Supplied, d.Kind, strings.Join(d.Candidates, ", "), ErrAmbiguous)
	}
}

// Confirmation values.
const (
	Yes = "yes"
	No  = "no"
)

// Resolve picks among candidates using the supplied answer.
//
// An exact match wins. Otherwise a unique fuzzy match is selected and
// several fuzzy matches need a prompt among them. With nothing supplied,
// a single candidate is selected and several need a prompt.
// For KindConfirm candidates are ignored and supplied is read as yes/no.
func Resolve(kind Kind, candidates []string, supplied string) Decision {
	d := Decision{Kind: kind, Supplied: supplied}

	if kind == KindConfirm {
		switch strings.ToLower(strings.TrimSpace(supplied)) {
		case "y", "yes", "true":
			d.Outcome, d.Value = Selected, Yes
		case "n", "no", "false":
			d.Outcome, d.Value = Selected, No
		default:
			d.Outcome, d.Candidates = NeedsPrompt, []string{Yes, No}
		}
		return d
	}

	if supplied == "" {
		switch len(candidates) {
		case 0:
			d.Outcome = NoMatch
		case 1:
			d.Outcome, d.Value = Selected, candidates[0]
		default:
			d.Outcome, d.Candidates = NeedsPrompt, slices.Clone(candidates)
		}
		return d
	}

	if slices.Contains(candidates, supplied) {
		d.Outcome, d.Value = Selected, supplied
		return d
	}

	matches := fuzzy.Find(supplied, candidates)
	switch len(matches) {
	case 0:
		d.Outcome = NoMatch
	case 1:
		d.Outcome, d.Value = Selected, matches[0].Str
	default:
		d.Outcome = NeedsPrompt
		for _, m := range matches {
			d.Candidates = append(d.Candidates, m.Str)
		}
	}
	return d
}
