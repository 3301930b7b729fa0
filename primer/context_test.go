package primer_test

import (
	"strings"
	"testing"

	"github.com/grailbio/primer/encoding/fasta"
	"github.com/grailbio/primer/interval"
	"github.com/grailbio/primer/primer"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

// chr1 is 200 bases long; chr2 is 8.
var refData = ">chr1\n" + strings.Repeat("ACGTTGCA", 25) + "\n>chr2\nTTTTCCCC\n"

func testReference(t *testing.T) *fasta.Reference {
	fa, err := fasta.New(strings.NewReader(refData))
	assert.NoError(t, err)
	return fasta.NewReference(fa)
}

func TestExpand(t *testing.T) {
	ref := testReference(t)
	seq := strings.Repeat("ACGTTGCA", 25)
	e := primer.NewExpander(ref, 10)

	sc := e.Expand(interval.Region{Name: "chr1", Start: 100, End: 120})
	expect.True(t, sc.Usable())
	expect.EQ(t, sc.Upstream, seq[89:99])
	expect.EQ(t, sc.Target, seq[99:120])
	expect.EQ(t, sc.Downstream, seq[120:130])
	expect.EQ(t, sc.Sequence(), seq[89:130])
	expect.EQ(t, sc.Bracketed(), seq[89:99]+"["+seq[99:120]+"]"+seq[120:130])

	// The downstream flank is cut short by the end of chr2.
	sc = e.Expand(interval.Region{Name: "chr2", Start: 10, End: 10})
	expect.False(t, sc.Usable())
	sc = primer.NewExpander(ref, 2).Expand(interval.Region{Name: "chr2", Start: 3, End: 6})
	expect.EQ(t, sc.Upstream, "TT")
	expect.EQ(t, sc.Target, "TTCC")
	expect.EQ(t, sc.Downstream, "CC")

	// A target running past the sequence end keeps the bases that exist.
	sc = primer.NewExpander(ref, 2).Expand(interval.Region{Name: "chr2", Start: 5, End: 12})
	expect.True(t, sc.Usable())
	expect.EQ(t, sc.Upstream, "TT")
	expect.EQ(t, sc.Target, "CCCC")
	expect.EQ(t, sc.Downstream, "")
}

func TestExpandInvalid(t *testing.T) {
	e := primer.NewExpander(testReference(t), 10)
	for _, r := range []interval.Region{
		{Name: "chr1", Start: 50, End: 40}, // start > end
		{Name: "chr1", Start: -1, End: 40}, // start < 0
		{Name: "chr1", Start: 0, End: 0},   // end <= 0
		{Name: "chr1", Start: 5, End: 40},  // start-pad < 0
		{Name: "chrZ", Start: 50, End: 60}, // unknown sequence
		{Name: "chr1", Start: 300, End: 400},
	} {
		sc := e.Expand(r)
		expect.False(t, sc.Usable(), "region %v", r)
		expect.EQ(t, sc.Region, r)
		expect.EQ(t, sc.Upstream, "")
		expect.EQ(t, sc.Downstream, "")
		expect.EQ(t, sc.Bracketed(), "")
	}
	// A flank of exactly start bases is allowed.
	expect.True(t, e.Valid(interval.Region{Name: "chr1", Start: 10, End: 40}))
}
