// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
Package primer designs PCR primers for genomic regions.

Inputs come from a Source: a single "name:start-end" token, a file of such
tokens, a BED or VCF file, or raw sequences with a bracketed target such as
"ACGT[TTAG]CCA".  Each region is expanded by an Expander into a
SequenceContext holding Opts.Pad bases of flank on each side of the target.

A Cascade then hands the context to an Engine under each configured design
profile in turn, stopping at the first profile that yields primers.  The
resulting Outcome is written by a Router to the composite report and to the
terse file of the profile that succeeded, or to the error file:

	<prefix>.txt                  every region, verbose
	<prefix>-<profile>.primers    regions designed with <profile>
	<prefix>-failed.primers       regions no profile could design

Run ties these together.
*/
package primer
