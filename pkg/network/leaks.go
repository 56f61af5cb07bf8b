package network

// Loss returns the total volume lost below node when entering flows into it.
//
// The entering volume is split evenly across direct children regardless of
// their size. Each edge loses share*leak/100 and the remainder flows on into
// the child. The result is in the same unit as entering.
func Loss(node *Node, entering float64) float64 {
	if node == nil || len(node.Children) == 0 {
		return 0
	}

	share := entering / float64(len(node.Children))
	total := 0.0
	for _, e := range node.Children {
		leak := share * (e.LeakPercent / 100)
		total += leak
		total += Loss(e.Node, share-leak)
	}
	return total
}
