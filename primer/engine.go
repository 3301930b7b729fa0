// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package primer

import "context"

// Params is the engine-specific representation of a parsed design profile.
// It is opaque to this package.
type Params interface{}

// Request is one design call: pick primers flanking
// Sequence[TargetOffset:TargetOffset+TargetLength].
type Request struct {
	// ID names the request in engine logs and records.
	ID           string
	Sequence     string
	TargetOffset int
	TargetLength int
	// NumReturn is the number of ranked pairs requested.
	NumReturn int
	// ThermoPath is the thermodynamic parameter directory.
	ThermoPath string
}

// Result is what the engine reports for one request.  Pairs are in the
// engine's rank order.
type Result struct {
	Pairs         []Pair
	Warning       string
	GlobalError   string
	SequenceError string
}

// Failed reports whether the engine flagged an error.
func (r Result) Failed() bool { return r.GlobalError != "" || r.SequenceError != "" }

// Engine is a primer design engine.
type Engine interface {
	// ParseProfile loads the settings file at path.  A non-nil error means the
	// profile itself is unusable.
	ParseProfile(ctx context.Context, path string) (Params, error)
	// Design runs one request under params.  A non-nil error means the engine
	// could not be run at all; design failures are reported in the Result.
	Design(ctx context.Context, params Params, req Request) (Result, error)
}
