package timeline

import (
	"sort"

	"github.com/ysmood/gson"
)

// EntryIDKey marks an object as a timeline entry
const EntryIDKey = "entryId"

// FindEntries collects every object carrying an entryId from the list-valued
// fields of each instruction. Instructions that are not objects are skipped.
// Order is instruction order, then the instruction's key order in the
// document, then list order.
func FindEntries(instructions []Instruction) []gson.JSON {
	var entries []gson.JSON

	for _, instruction := range instructions {
		fields, ok := instruction.Val().(map[string]interface{})
		if !ok {
			continue
		}

		for _, key := range fieldOrder(instruction.Keys, fields) {
			items, ok := fields[key].([]interface{})
			if !ok {
				continue
			}
			for _, item := range items {
				obj, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				if _, has := obj[EntryIDKey]; has {
					entries = append(entries, gson.New(obj))
				}
			}
		}
	}

	return entries
}

// fieldOrder returns the recorded keys when they describe fields, and the
// sorted field names otherwise
func fieldOrder(recorded []string, fields map[string]interface{}) []string {
	if len(recorded) == len(fields) {
		complete := true
		for _, k := range recorded {
			if _, ok := fields[k]; !ok {
				complete = false
				break
			}
		}
		if complete {
			return recorded
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EntryID returns the entry's identifier, or "" when it is not a string
func EntryID(entry gson.JSON) string {
	id, _ := lookupString(entry, EntryIDKey)
	return id
}
