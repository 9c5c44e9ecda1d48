package keyword

// EditDistance returns the Levenshtein distance between a and b in runes.
func EditDistance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Near reports whether a and b differ by at most maxEdits edits. Words shorter
// than minLen runes only match exactly, since short words are too easy to confuse.
func Near(a, b string, maxEdits, minLen int) bool {
	if a == b {
		return true
	}
	if maxEdits <= 0 {
		return false
	}
	la, lb := len([]rune(a)), len([]rune(b))
	if la < minLen || lb < minLen {
		return false
	}
	if d := la - lb; d > maxEdits || -d > maxEdits {
		return false
	}
	return EditDistance(a, b) <= maxEdits
}
