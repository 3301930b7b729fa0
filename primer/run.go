// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package primer

import (
	"context"
	"io"
	"os"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Summary describes a finished run.
type Summary struct {
	// Regions is the number of inputs processed.
	Regions   int
	Succeeded int
	Failed    int
	// Files lists the output files, composite report first.
	Files []string
}

// Run designs primers for every input, in key order, and writes the reports
// named after opts.OutputPrefix.  Inputs without a context are expanded
// against ref, which may be nil if every input carries its own sequence.
//
// Per-region failures are recorded in the output and never returned as
// errors.  An error is returned only when an output file cannot be created or
// written; the files are closed on every path.
func Run(ctx context.Context, opts Opts, ref Fetcher, inputs *Inputs, engine Engine) (sum Summary, err error) {
	cascade := NewCascade(engine, opts)
	var echo io.Writer
	if opts.Verbose {
		echo = os.Stdout
	}
	router, err := NewRouter(ctx, opts.OutputPrefix, cascade.Profiles(), Formatter{ChromPrefix: opts.ChromPrefix}, echo)
	if err != nil {
		return sum, err
	}
	defer func() {
		if e := router.Close(ctx); e != nil && err == nil {
			err = e
		}
		sum.Files = router.Files()
	}()

	var expander *Expander
	if ref != nil {
		expander = NewExpander(ref, opts.Pad)
	}
	for _, in := range inputs.All() {
		var sc SequenceContext
		switch {
		case in.Context != nil:
			sc = *in.Context
		case expander != nil:
			sc = expander.Expand(in.Region)
		default:
			return sum, errors.E(errors.Invalid, "no reference to resolve region", in.Key)
		}
		out := cascade.Design(ctx, in.Key, sc)
		if err = router.Route(ctx, out); err != nil {
			return sum, err
		}
		sum.Regions++
		if out.OK() {
			sum.Succeeded++
		} else {
			sum.Failed++
		}
	}
	log.Printf("processed %d region(s): %d succeeded, %d failed", sum.Regions, sum.Succeeded, sum.Failed)
	return sum, nil
}
