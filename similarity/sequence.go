package similarity

// Diff-style sequence matching over runes: repeatedly find the longest
// matching block, recurse on the pieces left and right of it, and report
// 2*M/T where M is the total matched length and T the combined length.

type block struct {
	a, b, size int
}

// sequenceRatio returns the matching-blocks ratio of two strings in [0,1].
// Two empty strings are identical by definition.
func sequenceRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	b2j := make(map[rune][]int, len(rb))
	for j, r := range rb {
		b2j[r] = append(b2j[r], j)
	}

	matched := matchedLen(ra, rb, 0, len(ra), 0, len(rb), b2j)
	return 2.0 * float64(matched) / float64(total)
}

func matchedLen(a, b []rune, alo, ahi, blo, bhi int, b2j map[rune][]int) int {
	m := longestMatch(a, alo, ahi, blo, bhi, b2j)
	if m.size == 0 {
		return 0
	}
	total := m.size
	total += matchedLen(a, b, alo, m.a, blo, m.b, b2j)
	total += matchedLen(a, b, m.a+m.size, ahi, m.b+m.size, bhi, b2j)
	return total
}

// longestMatch finds the longest block where a[alo:ahi] and b[blo:bhi] agree.
// Of all maximal blocks it prefers the one starting earliest in a, then
// earliest in b, matching the conventional diff tie-break.
func longestMatch(a []rune, alo, ahi, blo, bhi int, b2j map[rune][]int) block {
	best := block{a: alo, b: blo, size: 0}
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		newJ2len := map[int]int{}
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > best.size {
				best = block{a: i - k + 1, b: j - k + 1, size: k}
			}
		}
		j2len = newJ2len
	}
	return best
}
