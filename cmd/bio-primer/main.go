// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/primer/encoding/fasta"
	"github.com/grailbio/primer/primer"
	"github.com/grailbio/primer/primer3"
)

var (
	reference  = flag.String("reference", "", "Reference FASTA path (required). <reference>.fai is used if present and generated otherwise")
	region     = flag.String("region", "", "Region as <name>:<start>-<end>, or a path to a region list, BED or VCF file; this xor -sequence required")
	sequence   = flag.String("sequence", "", "Sequence with a bracketed target, e.g. ACGT[TTAG]CCA, or a path to a file of >name/sequence line pairs; this xor -region required")
	outPrefix  = flag.String("out", primer.DefaultOpts.OutputPrefix, "Output path prefix")
	configPath = flag.String("config", "primer.config", "Configuration file of KEY=VALUE lines; defaults are used if it does not exist")
	verbose    = flag.Bool("verbose", false, "Also print the composite report to stdout")
	executable = flag.String("primer3", "", "primer3_core executable; overrides PRIMER3_EXECUTABLE in the configuration file")
)

func bioPrimerUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] -reference fapath {-region region|-sequence sequence}\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}

func usageExit(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	flag.Usage()
	os.Exit(2)
}

// run designs primers for inputs against the reference.  The reference, and
// any index generated for it, is released before run returns.
func run(ctx context.Context, opts primer.Opts, inputs *primer.Inputs) (sum primer.Summary, err error) {
	ref, err := fasta.OpenReference(ctx, *reference)
	if err != nil {
		return sum, err
	}
	defer func() {
		if e := ref.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	return primer.Run(ctx, opts, ref, inputs, primer3.New(opts.Executable))
}

func main() {
	flag.Usage = bioPrimerUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() > 0 {
		usageExit("Unexpected positional arguments: %v", flag.Args())
	}
	if *reference == "" {
		usageExit("-reference is required")
	}
	if (*region == "") == (*sequence == "") {
		usageExit("Exactly one of -region and -sequence is required")
	}
	ctx := vcontext.Background()
	opts, err := primer.LoadConfig(ctx, *configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	opts.OutputPrefix = *outPrefix
	opts.Verbose = *verbose
	if *executable != "" {
		opts.Executable = *executable
	}

	var inputs *primer.Inputs
	if *region != "" {
		inputs, err = primer.ReadInputs(ctx, *region, primer.RegionSources(opts))
	} else {
		inputs, err = primer.ReadInputs(ctx, *sequence, primer.SequenceSources())
	}
	if err != nil {
		usageExit("%v", err)
	}

	sum, err := run(ctx, opts, inputs)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Printf("Processed %d region(s): %d succeeded, %d failed\n", sum.Regions, sum.Succeeded, sum.Failed)
	fmt.Printf("Output files:\n")
	for _, path := range sum.Files {
		fmt.Printf("  %s\n", path)
	}
	log.Debug.Printf("exiting")
}
