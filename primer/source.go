// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package primer

import (
	"bufio"
	"context"
	"regexp"
	"strings"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/primer/encoding/vcf"
	"github.com/grailbio/primer/interval"
)

// SequenceName keys a raw sequence given without a name.
const SequenceName = "sequence"

// SequencePattern matches a raw sequence with a bracketed target, e.g.
// "ACGT[TTAG]CCA".
var SequencePattern = regexp.MustCompile(`(?i)^[ATGCN]*\[[ATGCN]+\][ATGCN]*$`)

// Input is one region to design primers for.  Either Context is set, for
// inputs that carry their own sequence, or Region must be expanded against the
// reference.
type Input struct {
	Key     string
	Region  interval.Region
	Context *SequenceContext
}

type inputKey struct {
	in *Input
}

// Compare compares two inputs by key for use in llrb.
func (k inputKey) Compare(c llrb.Comparable) int {
	return strings.Compare(k.in.Key, c.(inputKey).in.Key)
}

// Inputs is a set of inputs ordered by key.  The first input added under a key
// wins.
type Inputs struct {
	byKey llrb.Tree
}

// Add adds in unless an input with the same key exists.  It reports whether in
// was added.
func (s *Inputs) Add(in *Input) bool {
	k := inputKey{in}
	if s.byKey.Get(k) != nil {
		return false
	}
	s.byKey.Insert(k)
	return true
}

// Len returns the number of inputs.
func (s *Inputs) Len() int { return s.byKey.Len() }

// Do calls fn on each input in key order.
func (s *Inputs) Do(fn func(in *Input)) {
	s.byKey.Do(func(c llrb.Comparable) bool {
		fn(c.(inputKey).in)
		return false
	})
}

// All returns the inputs in key order.
func (s *Inputs) All() []*Input {
	all := make([]*Input, 0, s.Len())
	s.Do(func(in *Input) { all = append(all, in) })
	return all
}

func (s *Inputs) addRegion(token string) {
	r, err := interval.ParseRegion(token)
	if err != nil {
		log.Debug.Printf("skipping region %q: %v", token, err)
		return
	}
	s.Add(&Input{Key: token, Region: r})
}

// Source turns an argument, a token or a path, into Inputs.  Sources never
// fail on malformed content: bad lines are skipped.  Only an unreadable file
// is an error.
type Source interface {
	// Name identifies the source in logs.
	Name() string
	// Match reports whether the source handles arg.
	Match(ctx context.Context, arg string) bool
	// Read produces the inputs for arg.
	Read(ctx context.Context, arg string) (*Inputs, error)
}

// RegionSources returns the sources for the -region argument, in precedence
// order.
func RegionSources(opts Opts) []Source {
	return []Source{
		tokenSource{},
		vcfSource{opts: vcf.Opts{Padding: opts.VCFPadding, ChromPrefix: opts.ChromPrefix}},
		bedSource{},
		regionFileSource{},
	}
}

// SequenceSources returns the sources for the -sequence argument, in
// precedence order.
func SequenceSources() []Source {
	return []Source{rawSequenceSource{}, sequenceFileSource{}}
}

// ReadInputs reads arg with the first matching source.  It fails with
// errors.Invalid if no source matches.
func ReadInputs(ctx context.Context, arg string, sources []Source) (*Inputs, error) {
	for _, src := range sources {
		if !src.Match(ctx, arg) {
			continue
		}
		inputs, err := src.Read(ctx, arg)
		if err != nil {
			return nil, err
		}
		log.Printf("%s: %d input(s) from %s", src.Name(), inputs.Len(), arg)
		return inputs, nil
	}
	return nil, errors.E(errors.Invalid, "unrecognized input (expected a region token, sequence or existing file):", arg)
}

func exists(ctx context.Context, path string) bool {
	_, err := file.Stat(ctx, path)
	return err == nil
}

// maxLineLen bounds one input line; raw sequences sit on a single line.
const maxLineLen = 1 << 28

// readLines calls fn on every line of the file at path, with trailing
// whitespace removed.
func readLines(ctx context.Context, path string, fn func(line string)) (err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return errors.E(errors.NotExist, "open", path, err)
	}
	defer file.CloseAndReport(ctx, in, &err)
	scanner := bufio.NewScanner(in.Reader(ctx))
	scanner.Buffer(nil, maxLineLen)
	for scanner.Scan() {
		fn(strings.TrimRight(scanner.Text(), " \t\r"))
	}
	return scanner.Err()
}

// tokenSource handles a single "name:start-end" argument.
type tokenSource struct{}

func (tokenSource) Name() string { return "region" }

func (tokenSource) Match(ctx context.Context, arg string) bool {
	return interval.IsRegionToken(arg) && !exists(ctx, arg)
}

func (tokenSource) Read(ctx context.Context, arg string) (*Inputs, error) {
	inputs := &Inputs{}
	inputs.addRegion(arg)
	return inputs, nil
}

// regionFileSource reads one region token per line.  Lines that are not
// region tokens are skipped.
type regionFileSource struct{}

func (regionFileSource) Name() string { return "region list" }

func (regionFileSource) Match(ctx context.Context, arg string) bool { return exists(ctx, arg) }

func (regionFileSource) Read(ctx context.Context, path string) (*Inputs, error) {
	inputs := &Inputs{}
	nSkipped := 0
	err := readLines(ctx, path, func(line string) {
		line = strings.TrimSpace(line)
		if !interval.IsRegionToken(line) {
			if line != "" {
				nSkipped++
			}
			return
		}
		inputs.addRegion(line)
	})
	if nSkipped > 0 {
		log.Printf("%s: skipped %d malformed line(s)", path, nSkipped)
	}
	return inputs, err
}

// vcfSource derives a padded region from each variant of a VCF file.
type vcfSource struct {
	opts vcf.Opts
}

func (vcfSource) Name() string { return "vcf" }

func (vcfSource) Match(ctx context.Context, arg string) bool {
	return vcf.IsVCFPath(arg) && exists(ctx, arg)
}

func (s vcfSource) Read(ctx context.Context, path string) (*Inputs, error) {
	tokens, err := vcf.ReadRegionsFromPath(ctx, path, s.opts)
	if err != nil {
		return nil, err
	}
	inputs := &Inputs{}
	for _, token := range tokens {
		inputs.addRegion(token)
	}
	return inputs, nil
}

// bedSource reads the intervals of a BED file.
type bedSource struct{}

func (bedSource) Name() string { return "bed" }

func (bedSource) Match(ctx context.Context, arg string) bool {
	return interval.IsBEDPath(arg) && exists(ctx, arg)
}

func (bedSource) Read(ctx context.Context, path string) (*Inputs, error) {
	regions, err := interval.NewRegionsFromBEDPath(ctx, path, interval.BEDOpts{})
	if err != nil {
		return nil, err
	}
	inputs := &Inputs{}
	for _, r := range regions {
		if token := r.String(); interval.IsRegionToken(token) {
			inputs.Add(&Input{Key: token, Region: r})
		}
	}
	return inputs, nil
}

// NewRawContext splits a bracketed sequence such as "AC[GT]TA" into a
// SequenceContext named name.  The context's region spans the target in
// 1-based coordinates of the raw sequence.  It returns false if seq does not
// match SequencePattern.
func NewRawContext(name, seq string) (SequenceContext, bool) {
	if !SequencePattern.MatchString(seq) {
		return SequenceContext{}, false
	}
	lb := strings.IndexByte(seq, '[')
	rb := strings.IndexByte(seq, ']')
	sc := SequenceContext{
		Upstream:   seq[:lb],
		Target:     seq[lb+1 : rb],
		Downstream: seq[rb+1:],
	}
	sc.Region = interval.Region{
		Name:  name,
		Start: int64(len(sc.Upstream) + 1),
		End:   int64(len(sc.Upstream) + len(sc.Target)),
	}
	return sc, true
}

// rawSequenceSource handles a bracketed sequence given directly.
type rawSequenceSource struct{}

func (rawSequenceSource) Name() string { return "sequence" }

func (rawSequenceSource) Match(ctx context.Context, arg string) bool {
	return SequencePattern.MatchString(arg)
}

func (rawSequenceSource) Read(ctx context.Context, arg string) (*Inputs, error) {
	inputs := &Inputs{}
	if sc, ok := NewRawContext(SequenceName, arg); ok {
		inputs.Add(&Input{Key: SequenceName, Region: sc.Region, Context: &sc})
	}
	return inputs, nil
}

// sequenceFileSource reads ">name" lines, each followed by a bracketed
// sequence line.  Pairs that do not match are skipped.
type sequenceFileSource struct{}

func (sequenceFileSource) Name() string { return "sequence file" }

func (sequenceFileSource) Match(ctx context.Context, arg string) bool { return exists(ctx, arg) }

func (sequenceFileSource) Read(ctx context.Context, path string) (*Inputs, error) {
	inputs := &Inputs{}
	var name string
	err := readLines(ctx, path, func(line string) {
		if name == "" {
			if len(line) > 1 && line[0] == '>' {
				name = line[1:]
			}
			return
		}
		if sc, ok := NewRawContext(name, line); ok {
			inputs.Add(&Input{Key: name, Region: sc.Region, Context: &sc})
		} else {
			log.Printf("%s: skipping sequence %q: not of the form ACGT[ACGT]ACGT", path, name)
		}
		name = ""
	})
	return inputs, err
}
