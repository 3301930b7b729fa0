// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package primer

// Candidate is a single primer.
type Candidate struct {
	Sequence string
	// Start is the 0-based offset of the primer's 5' end in the full context
	// sequence.  For a reverse primer this is its rightmost base.
	Start  int
	Length int
	// Tm is the melting temperature.
	Tm float64
	// GC is the GC content, in whole percent.
	GC int
	// Self-complementarity scores.
	SelfAny float64
	SelfEnd float64
	Hairpin float64
}

// Pair is a forward/reverse primer combination.  Rank 0 is the engine's
// best pair.
type Pair struct {
	Rank        int
	Forward     Candidate
	Reverse     Candidate
	ProductSize int
	ComplAny    float64
	ComplEnd    float64
	Mispriming  float64
}

// NoPrimersError is the global error recorded for an engine result that
// carries neither an error nor any pairs.
const NoPrimersError = "No primers were returned"

// Outcome is the result of the settings cascade for one region.  An outcome
// with no error has at least one pair.
type Outcome struct {
	Key     string
	Context SequenceContext
	// Profile is the profile that produced the outcome: the successful one, or
	// the last one tried.  It is nil if no profile was tried.
	Profile       *Profile
	Pairs         []Pair
	Warning       string
	GlobalError   string
	SequenceError string
}

// OK reports whether the outcome carries primers.
func (o *Outcome) OK() bool {
	return o.GlobalError == "" && o.SequenceError == "" && len(o.Pairs) > 0
}

// Error returns the error text of a failed outcome, preferring the global
// error.
func (o *Outcome) Error() string {
	if o.GlobalError != "" {
		return o.GlobalError
	}
	return o.SequenceError
}
