// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
bio-primer designs PCR primers around regions of a reference genome.

Regions are given with -region as a single "chr7:5000-5200" token or as a file:
a list of such tokens (one per line), a BED file, or a VCF file whose variants
are padded by VCF_PADDING bases.  Alternatively, -sequence takes a raw sequence
with a bracketed target, or a file of ">name" lines each followed by one such
sequence.

Each region is extended by SEQUENCE_AROUND_LENGTH bases of reference on both
sides and handed to primer3_core under each settings file listed in
SETTINGS_PREFERENCE_FILES, in order, until one of them yields primers.

Example:

	bio-primer -reference hg19.fa -region variants.vcf -out run1

writes run1.txt with every region, run1-<settings>.primers per settings file
that succeeded for at least one region, and run1-failed.primers.

Configuration (primer.config by default; all keys optional):

	SEQUENCE_AROUND_LENGTH=500
	SETTINGS_PREFERENCE_FILES=essentials/tier1.settings,essentials/tier2.settings
	THERMO_CONFIG_LOCATION=essentials/primer3_config/
	PRIMERS_PER_SEQUENCE=1
	CHROMOSOME_PREFIX=chr
	VCF_PADDING=5
	PRIMER3_EXECUTABLE=primer3_core
*/
package main
