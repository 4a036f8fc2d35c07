// Package timeline reads exported X/Twitter timeline payloads (the
// Followers and Following GraphQL responses) and turns them into user
// records.
//
// Navigation goes through a fixed set of key paths. Every lookup returns a
// *PathError naming the segment that was missing or had the wrong shape, so
// callers decide whether a malformed file or entry aborts the run or is
// skipped.
//
//	doc, err := timeline.Load("followers.json")
//	instructions, err := timeline.Instructions(doc)
//	entries := timeline.FindEntries(instructions)
//	result, err := timeline.FilterMutuals(entries, timeline.FilterOptions{Source: "followers.json"})
package timeline
