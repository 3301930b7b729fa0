/*Package interval represents genomic regions and reads them from region
  tokens ("chr7:5000-5200") and BED files.
  Regions use 1-based closed coordinates, so BED intervals are shifted by one
  on the left when read.  Positions are int64; unlike BAM there is no
  reason to limit them to int32 here.
*/
package interval
