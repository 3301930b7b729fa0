// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package primer

import (
	"context"
	"fmt"

	"github.com/grailbio/base/log"
)

// Profile is one entry of the settings cascade.
type Profile struct {
	// Path is the settings file, as configured.
	Path string
	// Ordinal is the position of the profile in the cascade.
	Ordinal int
}

// NewProfiles returns the profiles for paths, in order.
func NewProfiles(paths []string) []*Profile {
	profiles := make([]*Profile, len(paths))
	for i, p := range paths {
		profiles[i] = &Profile{Path: p, Ordinal: i}
	}
	return profiles
}

// Cascade tries an ordered list of profiles against an Engine until one of
// them designs primers for a region.
//
// Parsed profiles are cached for the lifetime of the Cascade.  Parse failures
// are not cached: a broken profile is parsed again, and fails again, for every
// region, and the remaining profiles are still tried.
type Cascade struct {
	engine     Engine
	profiles   []*Profile
	params     map[string]Params
	numReturn  int
	thermoPath string
}

// NewCascade creates a Cascade over opts.Profiles.
func NewCascade(engine Engine, opts Opts) *Cascade {
	return &Cascade{
		engine:     engine,
		profiles:   NewProfiles(opts.Profiles),
		params:     make(map[string]Params),
		numReturn:  ClampPrimers(opts.PrimersPerSequence),
		thermoPath: opts.ThermoPath,
	}
}

// Profiles returns the profiles in cascade order.
func (c *Cascade) Profiles() []*Profile { return c.profiles }

func (c *Cascade) parse(ctx context.Context, p *Profile) (Params, error) {
	if params, ok := c.params[p.Path]; ok {
		return params, nil
	}
	params, err := c.engine.ParseProfile(ctx, p.Path)
	if err != nil {
		return nil, err
	}
	c.params[p.Path] = params
	return params, nil
}

// Design returns the outcome for the region keyed by key.  The outcome is the
// first successful one, tagged with its profile.  If every profile fails, the
// outcome carries the errors of the last one.  A context without a target
// fails without consulting the engine.
func (c *Cascade) Design(ctx context.Context, key string, sc SequenceContext) *Outcome {
	if !sc.Usable() {
		return &Outcome{
			Key:           key,
			Context:       sc,
			SequenceError: fmt.Sprintf("no sequence found for %s", key),
		}
	}
	req := Request{
		ID:           key,
		Sequence:     sc.Sequence(),
		TargetOffset: len(sc.Upstream),
		TargetLength: len(sc.Target),
		NumReturn:    c.numReturn,
		ThermoPath:   c.thermoPath,
	}
	var out *Outcome
	for _, p := range c.profiles {
		out = c.try(ctx, p, req)
		out.Key = key
		out.Context = sc
		if out.OK() {
			if log.At(log.Debug) {
				log.Debug.Printf("%s: %d pair(s) with profile %s", key, len(out.Pairs), p.Path)
			}
			return out
		}
		log.Printf("%s: profile %s: %s", key, p.Path, out.Error())
	}
	if out == nil {
		return &Outcome{Key: key, Context: sc, GlobalError: "no design profiles configured"}
	}
	return out
}

func (c *Cascade) try(ctx context.Context, p *Profile, req Request) *Outcome {
	out := &Outcome{Profile: p}
	params, err := c.parse(ctx, p)
	if err != nil {
		out.GlobalError = err.Error()
		return out
	}
	res, err := c.engine.Design(ctx, params, req)
	if err != nil {
		out.GlobalError = err.Error()
		return out
	}
	out.Warning = res.Warning
	if res.Failed() {
		out.GlobalError = res.GlobalError
		out.SequenceError = res.SequenceError
		return out
	}
	if len(res.Pairs) == 0 {
		out.GlobalError = NoPrimersError
		return out
	}
	out.Pairs = res.Pairs
	return out
}
