package conversation

// Window trims history to fit a character budget, evicting the oldest turns
// first. The two most recent turns (the latest user/assistant pair) are
// always retained, even when they alone exceed the budget: immediate
// coherence wins over deep history.
func Window(turns []Turn, budget int) []Turn {
	start := len(turns)
	total := 0
	for start > 0 {
		next := turns[start-1]
		if total+len(next.Content) > budget && len(turns)-start >= 2 {
			break
		}
		total += len(next.Content)
		start--
	}

	out := make([]Turn, len(turns)-start)
	copy(out, turns[start:])
	return out
}
