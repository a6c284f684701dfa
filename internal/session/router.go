package session

// OrderTopics returns the topics of all that are not in completed, weak ones
// first. Both groups keep the order of all, and duplicates appear once.
func OrderTopics(all, completed, weak []string) []string {
	done := toSet(completed)
	isWeak := toSet(weak)
	seen := make(map[string]bool, len(all))

	var first, rest []string
	for _, topic := range all {
		if done[topic] || seen[topic] {
			continue
		}
		seen[topic] = true
		if isWeak[topic] {
			first = append(first, topic)
		} else {
			rest = append(rest, topic)
		}
	}
	return append(first, rest...)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
