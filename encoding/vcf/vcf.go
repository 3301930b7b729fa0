// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package vcf turns variant records into padded genomic regions.  Only the
// CHROM, POS, REF and ALT columns are interpreted; everything else on a line
// is ignored.
package vcf

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/primer/interval"
	"github.com/klauspost/compress/gzip"
)

// Column indexes of the fields used to build a region.
const (
	colChrom = 0
	colPos   = 1
	colRef   = 3
	colAlt   = 4
	nCols    = colAlt + 1
)

// Opts controls how a record is widened into a region.
type Opts struct {
	// Padding is added on both sides of the variant position.
	Padding int
	// ChromPrefix is prepended to the chromosome name unless it is already
	// there, so "7" and "chr7" both resolve to "chr7".
	ChromPrefix string
}

// DefaultOpts are the values used when no configuration overrides them.
var DefaultOpts = Opts{
	Padding:     5,
	ChromPrefix: "chr",
}

// Record holds the columns of a VCF data line that matter for region
// derivation.
type Record struct {
	Chrom string
	Pos   int64
	Ref   string
	Alt   []string
}

// IsVCFPath reports whether path names a (possibly gzipped) VCF file.
func IsVCFPath(path string) bool {
	return strings.HasSuffix(path, ".vcf") || strings.HasSuffix(path, ".vcf.gz")
}

// IsComment reports whether line is a header/comment line: optional
// whitespace followed by '#'.
func IsComment(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "#")
}

// ParseLine extracts a Record from one whitespace-delimited data line.  A line
// with fewer than five columns, or with a non-integer POS, is an
// errors.Invalid error.
func ParseLine(line string) (Record, error) {
	var tokens [nCols][]byte
	if n := interval.GetTokens(tokens[:], []byte(line)); n != nCols {
		return Record{}, errors.E(errors.Invalid, "vcf.ParseLine: expected at least 5 columns, got", strconv.Itoa(n))
	}
	pos, err := strconv.ParseInt(string(tokens[colPos]), 10, 64)
	if err != nil {
		return Record{}, errors.E(errors.Invalid, "vcf.ParseLine: bad POS", err)
	}
	rec := Record{
		Chrom: string(tokens[colChrom]),
		Pos:   pos,
		Ref:   string(tokens[colRef]),
	}
	for _, alt := range strings.Split(string(tokens[colAlt]), ",") {
		rec.Alt = append(rec.Alt, strings.TrimSpace(alt))
	}
	return rec, nil
}

// MaxAlleleLen returns the length of the longest of REF and the ALT alleles.
func (r Record) MaxAlleleLen() int {
	n := len(r.Ref)
	for _, alt := range r.Alt {
		if len(alt) > n {
			n = len(alt)
		}
	}
	return n
}

// Region widens the record into [Pos-Padding, Pos+Padding+MaxAlleleLen()].
func (r Record) Region(opts Opts) interval.Region {
	chrom := r.Chrom
	if !strings.HasPrefix(chrom, opts.ChromPrefix) {
		chrom = opts.ChromPrefix + chrom
	}
	pad := int64(opts.Padding)
	return interval.Region{
		Name:  chrom,
		Start: r.Pos - pad,
		End:   r.Pos + pad + int64(r.MaxAlleleLen()),
	}
}

// ReadRegions returns the region token of every usable data line in r, in
// file order.  Comment lines, lines that fail to parse and lines whose
// derived region is not a valid token (e.g. a negative start) are skipped.
func ReadRegions(r io.Reader, opts Opts) ([]string, error) {
	var (
		tokens   []string
		nSkipped int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1<<24)
	for scanner.Scan() {
		line := scanner.Text()
		if len(strings.TrimSpace(line)) == 0 || IsComment(line) {
			continue
		}
		rec, err := ParseLine(line)
		if err != nil {
			nSkipped++
			continue
		}
		token := rec.Region(opts).String()
		if !interval.IsRegionToken(token) {
			nSkipped++
			continue
		}
		tokens = append(tokens, token)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if nSkipped > 0 {
		log.Printf("vcf: %d record(s) converted, %d skipped", len(tokens), nSkipped)
	}
	return tokens, nil
}

// ReadRegionsFromPath is ReadRegions on a file.  Gzipped input is decompressed
// transparently.
func ReadRegionsFromPath(ctx context.Context, path string, opts Opts) (tokens []string, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, in, &err)
	reader := io.Reader(in.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return
		}
		defer gz.Close()
		reader = gz
	}
	return ReadRegions(reader, opts)
}
