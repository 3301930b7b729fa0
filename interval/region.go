// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
)

// RegionPattern matches a canonical region token, "name:start-end".  Contig
// names are restricted to alphanumerics plus '_' and '.', which covers the
// usual "chr7", "7" and "GL000192.1" spellings.
var RegionPattern = regexp.MustCompile(`^[A-Za-z0-9_.]+:[0-9]+-[0-9]+$`)

// Region is a named closed interval [Start, End].  The coordinate base is
// whatever the consumer of the region uses; the reference fetcher in
// encoding/fasta treats it as 1-based, like samtools faidx.
type Region struct {
	Name  string
	Start int64
	End   int64
}

// IsRegionToken reports whether s is a well-formed region token.
func IsRegionToken(s string) bool {
	return RegionPattern.MatchString(s)
}

// ParseRegion parses "name:start-end".  It splits on the first ':' and then on
// the first '-' of the remainder.  It does not check start <= end; that is up
// to the caller.  Errors are of kind errors.Invalid.
func ParseRegion(token string) (Region, error) {
	colon := strings.IndexByte(token, ':')
	if colon == -1 {
		return Region{}, errors.E(errors.Invalid, "interval.ParseRegion: missing ':' in region", token)
	}
	rangeStr := token[colon+1:]
	dash := strings.IndexByte(rangeStr, '-')
	if dash == -1 {
		return Region{}, errors.E(errors.Invalid, "interval.ParseRegion: missing '-' in region", token)
	}
	start, err := strconv.ParseInt(rangeStr[:dash], 10, 64)
	if err != nil {
		return Region{}, errors.E(errors.Invalid, "interval.ParseRegion: bad start in region "+token, err)
	}
	end, err := strconv.ParseInt(rangeStr[dash+1:], 10, 64)
	if err != nil {
		return Region{}, errors.E(errors.Invalid, "interval.ParseRegion: bad end in region "+token, err)
	}
	return Region{Name: token[:colon], Start: start, End: end}, nil
}

// String returns the canonical "name:start-end" token.  It is the inverse of
// ParseRegion for regions with non-negative coordinates.
func (r Region) String() string {
	buf := make([]byte, 0, len(r.Name)+24)
	buf = append(buf, r.Name...)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, r.Start, 10)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, r.End, 10)
	return string(buf)
}

// Len returns the number of positions covered by r, or 0 if r is inverted.
func (r Region) Len() int64 {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}
