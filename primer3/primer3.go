// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package primer3 implements primer.Engine by running the primer3_core
// executable.  Design profiles are Primer3 settings files.  Each request is
// written as a Boulder-IO record to a temporary file, primer3_core is run on
// it, and the Boulder-IO output is parsed into ranked primer pairs.
package primer3

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/primer/primer"
	"v.io/x/lib/vlog"
)

// Engine runs primer3_core.
type Engine struct {
	// Executable is the primer3_core binary, looked up in $PATH if it has no
	// slash.
	Executable string
}

// New creates an Engine that runs executable.
func New(executable string) *Engine {
	return &Engine{Executable: executable}
}

// ParseProfile implements primer.Engine.  The returned params are a
// *Settings.
func (e *Engine) ParseProfile(ctx context.Context, path string) (primer.Params, error) {
	s, err := LoadSettings(ctx, path)
	if err != nil {
		return nil, err
	}
	log.Printf("loaded %d settings from %s", len(s.Tags), path)
	return s, nil
}

// Input returns the Boulder-IO record for req under s.
func Input(s *Settings, req primer.Request) Record {
	rec := make(Record, 0, len(s.Tags)+5)
	rec = append(rec, s.Tags...)
	rec = append(rec,
		Tag{"SEQUENCE_ID", req.ID},
		Tag{"SEQUENCE_TEMPLATE", req.Sequence},
		Tag{"SEQUENCE_TARGET", strconv.Itoa(req.TargetOffset) + "," + strconv.Itoa(req.TargetLength)},
		Tag{"PRIMER_NUM_RETURN", strconv.Itoa(req.NumReturn)})
	if req.ThermoPath != "" {
		rec = append(rec, Tag{"PRIMER_THERMODYNAMIC_PARAMETERS_PATH", req.ThermoPath})
	}
	return rec
}

// checkRequest returns a sequence error for requests primer3 cannot serve.
func checkRequest(req primer.Request) string {
	switch {
	case req.Sequence == "":
		return "empty sequence"
	case req.TargetLength <= 0:
		return "empty target"
	case req.TargetOffset < 0 || req.TargetOffset+req.TargetLength > len(req.Sequence):
		return fmt.Sprintf("target %d,%d is outside the sequence of length %d",
			req.TargetOffset, req.TargetLength, len(req.Sequence))
	}
	return ""
}

func tempFile(pattern string) (string, error) {
	f, err := ioutil.TempFile("", pattern)
	if err != nil {
		return "", err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name) // nolint: errcheck
		return "", err
	}
	return name, nil
}

// Design implements primer.Engine.  The temporary input and output files are
// removed on every path.
func (e *Engine) Design(ctx context.Context, params primer.Params, req primer.Request) (res primer.Result, err error) {
	s, ok := params.(*Settings)
	if !ok {
		return res, errors.E(errors.Invalid, fmt.Sprintf("primer3: unexpected params %T", params))
	}
	if msg := checkRequest(req); msg != "" {
		res.SequenceError = msg
		return res, nil
	}
	inPath, err := tempFile("primer3-in-*")
	if err != nil {
		return res, errors.E("primer3 input", err)
	}
	defer os.Remove(inPath) // nolint: errcheck
	outPath, err := tempFile("primer3-out-*")
	if err != nil {
		return res, errors.E("primer3 output", err)
	}
	defer os.Remove(outPath) // nolint: errcheck

	if err = writeInput(inPath, Input(s, req)); err != nil {
		return res, err
	}
	cmd := exec.CommandContext(ctx, e.Executable, "-strict_tags", "-output="+outPath, inPath)
	vlog.VI(1).Infof("%s: %s", req.ID, strings.Join(cmd.Args, " "))
	combined, runErr := cmd.CombinedOutput()

	rec, readErr := readOutput(outPath)
	if rec != nil {
		if msg, ok := rec.Get("PRIMER_ERROR"); ok || runErr == nil {
			if ok {
				vlog.VI(1).Infof("%s: PRIMER_ERROR=%s", req.ID, msg)
			}
			return ParseOutput(rec)
		}
	}
	if runErr != nil {
		return res, errors.E(fmt.Sprintf("run %s on %s: %s", e.Executable, req.ID, strings.TrimSpace(string(combined))), runErr)
	}
	if readErr != nil {
		return res, errors.E("read primer3 output", outPath, readErr)
	}
	return res, errors.E(errors.Invalid, "empty primer3 output for", req.ID)
}

func writeInput(path string, rec Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return WriteRecord(f, rec)
}

func readOutput(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() // nolint: errcheck
	rec, err := ReadRecord(bufio.NewReader(f))
	if err == io.EOF {
		return nil, nil
	}
	return rec, err
}

type outputParser struct {
	tags map[string]string
	err  error
}

func (p *outputParser) intTag(key string) int {
	v, ok := p.tags[key]
	if !ok || p.err != nil {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.err = errors.E(errors.Invalid, "bad integer", key+"="+v, err)
	}
	return n
}

func (p *outputParser) floatTag(key string) float64 {
	v, ok := p.tags[key]
	if !ok || p.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.err = errors.E(errors.Invalid, "bad number", key+"="+v, err)
	}
	return f
}

// position parses a "start,length" tag.
func (p *outputParser) position(key string) (int, int) {
	v := p.tags[key]
	comma := strings.IndexByte(v, ',')
	if p.err != nil {
		return 0, 0
	}
	if comma < 0 {
		p.err = errors.E(errors.Invalid, "bad position", key+"="+v)
		return 0, 0
	}
	start, err1 := strconv.Atoi(v[:comma])
	length, err2 := strconv.Atoi(v[comma+1:])
	if err1 != nil || err2 != nil {
		p.err = errors.E(errors.Invalid, "bad position", key+"="+v)
	}
	return start, length
}

func (p *outputParser) candidate(side string, rank int) primer.Candidate {
	prefix := "PRIMER_" + side + "_" + strconv.Itoa(rank)
	c := primer.Candidate{
		Sequence: p.tags[prefix+"_SEQUENCE"],
		Tm:       p.floatTag(prefix + "_TM"),
		GC:       int(p.floatTag(prefix + "_GC_PERCENT")),
		SelfAny:  p.floatTag(prefix + "_SELF_ANY_TH"),
		SelfEnd:  p.floatTag(prefix + "_SELF_END_TH"),
		Hairpin:  p.floatTag(prefix + "_HAIRPIN_TH"),
	}
	c.Start, c.Length = p.position(prefix)
	return c
}

// ParseOutput converts a primer3_core output record into a Result.  Pairs are
// returned in primer3's rank order.
func ParseOutput(rec Record) (primer.Result, error) {
	p := outputParser{tags: rec.Map()}
	res := primer.Result{
		Warning:     p.tags["PRIMER_WARNING"],
		GlobalError: p.tags["PRIMER_ERROR"],
	}
	if res.GlobalError != "" {
		return res, nil
	}
	n := p.intTag("PRIMER_PAIR_NUM_RETURNED")
	for i := 0; i < n && p.err == nil; i++ {
		prefix := "PRIMER_PAIR_" + strconv.Itoa(i)
		res.Pairs = append(res.Pairs, primer.Pair{
			Rank:        i,
			Forward:     p.candidate("LEFT", i),
			Reverse:     p.candidate("RIGHT", i),
			ProductSize: p.intTag(prefix + "_PRODUCT_SIZE"),
			ComplAny:    p.floatTag(prefix + "_COMPL_ANY_TH"),
			ComplEnd:    p.floatTag(prefix + "_COMPL_END_TH"),
			Mispriming:  p.floatTag(prefix + "_TEMPLATE_MISPRIMING_TH"),
		})
	}
	if p.err != nil {
		return primer.Result{}, p.err
	}
	return res, nil
}
