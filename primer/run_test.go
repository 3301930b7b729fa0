package primer_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/primer/encoding/fasta"
	"github.com/grailbio/primer/primer"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestRunEndToEnd(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	refPath := filepath.Join(tmpdir, "ref.fa")
	writeFile(t, refPath, refData)
	ref, err := fasta.OpenReference(ctx, refPath)
	assert.NoError(t, err)
	defer func() { assert.NoError(t, ref.Close(ctx)) }()

	opts := testOpts(filepath.Join(tmpdir, "tier1.settings"))
	opts.Pad = 10
	opts.OutputPrefix = filepath.Join(tmpdir, "out")
	inputs, err := primer.ReadInputs(ctx, "chr1:100-120", primer.RegionSources(opts))
	assert.NoError(t, err)

	sum, err := primer.Run(ctx, opts, ref, inputs, newFakeEngine())
	assert.NoError(t, err)
	expect.EQ(t, sum.Regions, 1)
	expect.EQ(t, sum.Succeeded, 1)
	expect.EQ(t, sum.Failed, 0)
	expect.EQ(t, sum.Files, []string{opts.OutputPrefix + ".txt", opts.OutputPrefix + "-tier1.primers"})

	seq := strings.Repeat("ACGTTGCA", 25)
	composite := readFile(t, sum.Files[0])
	expect.EQ(t, composite, "chr1:100-120="+seq[89:99]+"["+seq[99:120]+"]"+seq[120:130]+"\n"+
		"Target:[10,21]\n"+
		"1-100F="+seq[89:94]+"| Start: 1 | Length: 5 | Temperature: 60.5 | GC%: 40\n"+
		"1-120R=GGGGG| Start: 41 | Length: 5 | Temperature: 61.25 | GC%: 60\n"+
		"Overall Product size: 40\n\n")
	expect.EQ(t, readFile(t, sum.Files[1]), "1-100F="+seq[89:94]+"\n1-120R=GGGGG\n")
}

func TestRunRouting(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	e := newFakeEngine()
	e.fail["p1.settings"] = "no primers in range"
	opts := testOpts("p1.settings", "dir/p2.settings")
	opts.Pad = 10
	opts.OutputPrefix = filepath.Join(tmpdir, "out")

	regionList := filepath.Join(tmpdir, "regions.txt")
	writeFile(t, regionList, "chr2:1-4\nchr1:100-120\nchr1:5-10\n")
	inputs, err := primer.ReadInputs(ctx, regionList, primer.RegionSources(opts))
	assert.NoError(t, err)

	sum, err := primer.Run(ctx, opts, testReference(t), inputs, e)
	assert.NoError(t, err)
	expect.EQ(t, sum.Regions, 3)
	expect.EQ(t, sum.Succeeded, 1)
	expect.EQ(t, sum.Failed, 2)
	// The p1 bucket is never opened.
	expect.EQ(t, sum.Files, []string{
		opts.OutputPrefix + ".txt",
		opts.OutputPrefix + "-p2.primers",
		opts.OutputPrefix + "-failed.primers",
	})
	expect.EQ(t, readFile(t, opts.OutputPrefix+"-failed.primers"),
		"1-5F=no sequence found for chr1:5-10\n1-10R=no sequence found for chr1:5-10\n"+
			"2-1F=no sequence found for chr2:1-4\n2-4R=no sequence found for chr2:1-4\n")
	p2 := readFile(t, opts.OutputPrefix+"-p2.primers")
	expect.True(t, strings.HasPrefix(p2, "1-100F="))

	// Regions appear in key order in the composite report.
	composite := readFile(t, opts.OutputPrefix+".txt")
	i100 := strings.Index(composite, "chr1:100-120=")
	i5 := strings.Index(composite, "chr1:5-10=")
	i2 := strings.Index(composite, "chr2:1-4=")
	expect.True(t, i100 >= 0 && i100 < i5 && i5 < i2, "composite:\n%s", composite)
}

func TestRunIdempotent(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	var outputs [2][]string
	for i := range outputs {
		e := newFakeEngine()
		e.pairs = 3
		opts := testOpts("p1")
		opts.Pad = 20
		opts.PrimersPerSequence = 3
		opts.OutputPrefix = filepath.Join(tmpdir, "run")
		inputs := &primer.Inputs{}
		for _, token := range []string{"chr1:50-60", "chr1:150-175", "chr1:90-91"} {
			in, err := primer.ReadInputs(ctx, token, primer.RegionSources(opts))
			assert.NoError(t, err)
			inputs.Add(in.All()[0])
		}
		sum, err := primer.Run(ctx, opts, testReference(t), inputs, e)
		assert.NoError(t, err)
		for _, path := range sum.Files {
			outputs[i] = append(outputs[i], readFile(t, path))
		}
	}
	expect.EQ(t, len(outputs[0]), 2)
	expect.EQ(t, outputs[0], outputs[1])
}

func TestRunNoRegions(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	regionList := filepath.Join(tmpdir, "regions.txt")
	writeFile(t, regionList, "chr1 100 120\nchr1:100\n")
	opts := testOpts("p1")
	opts.OutputPrefix = filepath.Join(tmpdir, "out")
	inputs, err := primer.ReadInputs(ctx, regionList, primer.RegionSources(opts))
	assert.NoError(t, err)

	sum, err := primer.Run(ctx, opts, testReference(t), inputs, newFakeEngine())
	assert.NoError(t, err)
	expect.EQ(t, sum.Regions, 0)
	expect.EQ(t, sum.Files, []string{opts.OutputPrefix + ".txt"})
	expect.EQ(t, readFile(t, sum.Files[0]), "")
}

func TestRunSequences(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	opts := testOpts("p1")
	opts.OutputPrefix = filepath.Join(tmpdir, "out")
	inputs, err := primer.ReadInputs(ctx, "ACGTACGTAC[GGG]TTTTTTTTTT", primer.SequenceSources())
	assert.NoError(t, err)
	// No reference is needed for raw sequences.
	sum, err := primer.Run(ctx, opts, nil, inputs, newFakeEngine())
	assert.NoError(t, err)
	expect.EQ(t, sum.Succeeded, 1)
	expect.EQ(t, readFile(t, opts.OutputPrefix+"-p1.primers"), "sequence-11F=ACGTA\nsequence-13R=GGGGG\n")
}
