package doublon

import "sort"

// Group is a set of at least two files with identical size, identical
// leading-byte fingerprint and identical full-content checksum. Records are
// sorted by path; Records[0] is the deterministic representative
// ("original").
type Group struct {
	// Records are the members of the group, sorted by path.
	Records []*Record `json:"records"`
}

// Representative returns the lexicographically-first path of the group.
func (g Group) Representative() *Record {
	return g.Records[0]
}

// Duplicates returns the members other than the representative.
func (g Group) Duplicates() []*Record {
	return g.Records[1:]
}

// Skip records a file dropped from a run because it could not be read.
type Skip struct {
	// Path is the file that was skipped.
	Path string `json:"path"`
	// Reason is the error that caused the skip.
	Reason string `json:"reason"`
}

// Grouper partitions records into exact-duplicate groups using the staged
// size/fingerprint/checksum refinement.
type Grouper struct {
	// ProbeWidth is the fingerprint width in bytes (0 means
	// DefaultProbeWidth).
	ProbeWidth int
}

// Groups refines records into confirmed duplicate groups.
//
// Stage 1 partitions by size; singleton partitions are dropped without any
// content read. Stage 2 sub-partitions by fingerprint; singletons are
// dropped. Stage 3 computes checksums inside the survivors; every checksum
// class of two or more members is a confirmed group, singletons were
// fingerprint collisions and are discarded.
//
// Records that fail to read are returned as skips and never block the
// remaining partitions. The function has no side effects beyond populating
// the per-record caches, so repeated calls over an unchanged set yield
// identical groups.
func (g Grouper) Groups(records []*Record) ([]Group, []Skip) {
	var skipped []Skip

	bySize := make(map[int64][]*Record, len(records))
	for _, r := range records {
		bySize[r.Size] = append(bySize[r.Size], r)
	}

	var groups []Group

	for _, sizeClass := range bySize {
		if len(sizeClass) < 2 {
			continue
		}

		byPrint := make(map[string][]*Record, len(sizeClass))

		for _, r := range sizeClass {
			fp, err := r.Fingerprint(g.ProbeWidth)
			if err != nil {
				skipped = append(skipped, Skip{Path: r.Path, Reason: err.Error()})

				continue
			}

			byPrint[fp] = append(byPrint[fp], r)
		}

		for _, candidates := range byPrint {
			if len(candidates) < 2 {
				continue
			}

			bySum := make(map[string][]*Record, len(candidates))

			for _, r := range candidates {
				sum, err := r.Checksum()
				if err != nil {
					skipped = append(skipped, Skip{Path: r.Path, Reason: err.Error()})

					continue
				}

				bySum[sum] = append(bySum[sum], r)
			}

			for _, members := range bySum {
				if len(members) < 2 {
					continue
				}

				sort.Slice(members, func(i, j int) bool {
					return members[i].Path < members[j].Path
				})

				groups = append(groups, Group{Records: members})
			}
		}
	}

	// Deterministic report order regardless of map iteration.
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Representative().Path < groups[j].Representative().Path
	})
	sort.Slice(skipped, func(i, j int) bool {
		return skipped[i].Path < skipped[j].Path
	})

	return groups, skipped
}
