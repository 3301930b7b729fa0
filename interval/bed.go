// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/klauspost/compress/gzip"
)

// GetTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter, so both tab- and space-separated files work.
func GetTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// BEDOpts defines behavior of the BED region reader.
type BEDOpts struct {
	// OneBasedInput interprets the BED interval boundaries as one-based [start,
	// end] instead of the usual zero-based [start, end).
	OneBasedInput bool
}

// IsBEDPath reports whether path names a (possibly gzipped) BED file.
func IsBEDPath(path string) bool {
	return strings.HasSuffix(path, ".bed") || strings.HasSuffix(path, ".bed.gz")
}

// NewRegionsFromBED reads the first three columns of each BED line and
// returns them as closed 1-based regions, in file order.  Header, comment and
// malformed lines are skipped; only read errors are returned.
func NewRegionsFromBED(reader io.Reader, opts BEDOpts) ([]Region, error) {
	var (
		tokens   [3][]byte
		regions  []Region
		lineIdx  int
		nSkipped int
	)
	scanner := bufio.NewScanner(reader)
	startAdd := int64(1)
	if opts.OneBasedInput {
		startAdd = 0
	}
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nToken := GetTokens(tokens[:], curLine)
		if nToken == 0 {
			continue
		}
		if nToken != 3 || isBEDHeader(tokens[0]) {
			nSkipped++
			continue
		}
		start, err := strconv.ParseInt(gunsafe.BytesToString(tokens[1]), 10, 64)
		if err != nil {
			nSkipped++
			continue
		}
		end, err := strconv.ParseInt(gunsafe.BytesToString(tokens[2]), 10, 64)
		if err != nil {
			nSkipped++
			continue
		}
		start += startAdd
		if start <= 0 || end < start {
			log.Debug.Printf("interval.NewRegionsFromBED: invalid coordinate pair on line %d", lineIdx)
			nSkipped++
			continue
		}
		// tokens[0] points into the scanner buffer; copy it.
		regions = append(regions, Region{Name: string(tokens[0]), Start: start, End: end})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if nSkipped > 0 {
		log.Printf("BED loaded, %d region(s), %d line(s) skipped", len(regions), nSkipped)
	}
	return regions, nil
}

func isBEDHeader(first []byte) bool {
	s := gunsafe.BytesToString(first)
	return strings.HasPrefix(s, "#") || s == "track" || s == "browser"
}

// NewRegionsFromBEDPath is a wrapper for NewRegionsFromBED that takes a path
// instead of an io.Reader.  Gzipped files are decompressed transparently.
func NewRegionsFromBEDPath(ctx context.Context, path string, opts BEDOpts) (regions []Region, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer file.CloseAndReport(ctx, infile, &err)
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return
		}
		defer gz.Close()
		reader = gz
	}
	return NewRegionsFromBED(reader, opts)
}
