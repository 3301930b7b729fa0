package primer_test

import (
	"context"
	"fmt"
	"io/ioutil"
	"testing"

	"github.com/grailbio/primer/primer"
	"github.com/stretchr/testify/require"
)

// fakeEngine designs one or more canned pairs per request.  The params of a
// profile are its path.
type fakeEngine struct {
	// bad lists profiles that fail to parse.
	bad map[string]bool
	// fail maps a profile to the global error it reports for every region.
	fail map[string]string
	// empty lists profiles that return neither pairs nor errors.
	empty map[string]bool
	// pairs is the number of pairs returned per success; 0 means 1.
	pairs       int
	productSize int

	parses   map[string]int
	requests []primer.Request
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		bad:         map[string]bool{},
		fail:        map[string]string{},
		empty:       map[string]bool{},
		productSize: 40,
		parses:      map[string]int{},
	}
}

func (e *fakeEngine) ParseProfile(ctx context.Context, path string) (primer.Params, error) {
	e.parses[path]++
	if e.bad[path] {
		return nil, fmt.Errorf("unparsable profile %s", path)
	}
	return path, nil
}

func (e *fakeEngine) Design(ctx context.Context, params primer.Params, req primer.Request) (primer.Result, error) {
	e.requests = append(e.requests, req)
	path := params.(string)
	if msg := e.fail[path]; msg != "" {
		return primer.Result{GlobalError: msg}, nil
	}
	if e.empty[path] {
		return primer.Result{}, nil
	}
	n := e.pairs
	if n == 0 {
		n = 1
	}
	var res primer.Result
	for i := 0; i < n; i++ {
		res.Pairs = append(res.Pairs, primer.Pair{
			Rank: i,
			Forward: primer.Candidate{
				Sequence: req.Sequence[i : i+5],
				Start:    i,
				Length:   5,
				Tm:       60.5,
				GC:       40,
			},
			Reverse: primer.Candidate{
				Sequence: "GGGGG",
				Start:    len(req.Sequence) - 1 - i,
				Length:   5,
				Tm:       61.25,
				GC:       60,
			},
			ProductSize: e.productSize - i,
		})
	}
	return res, nil
}

func writeFile(t *testing.T, path, data string) {
	require.NoError(t, ioutil.WriteFile(path, []byte(data), 0644))
}

func readFile(t *testing.T, path string) string {
	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
