package timeline

import (
	"fmt"

	"github.com/ysmood/gson"
)

// FilterOptions controls FilterMutuals
type FilterOptions struct {
	// Source is stamped on every record, usually the input file path
	Source string
	// Strict makes the first malformed entry fail the whole call
	Strict bool
}

// EntryError ties an extraction failure to the entry that caused it
type EntryError struct {
	Index   int
	EntryID string
	Err     error
}

func (e *EntryError) Error() string {
	if e.EntryID != "" {
		return fmt.Sprintf("entry %d (%s): %v", e.Index, e.EntryID, e.Err)
	}
	return fmt.Sprintf("entry %d: %v", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// FilterResult is the outcome of filtering one file's entries
type FilterResult struct {
	Entries int
	Mutuals []UserRecord
	Skipped []*EntryError
}

// FilterMutuals keeps entries of type TimelineTimelineItem whose user is a
// mutual. The type is checked before the user is read, so cursor and module
// entries never count as malformed.
func FilterMutuals(entries []gson.JSON, opts FilterOptions) (FilterResult, error) {
	result := FilterResult{Entries: len(entries)}

	for i, entry := range entries {
		record, keep, err := filterEntry(entry)
		if err != nil {
			entryErr := &EntryError{Index: i, EntryID: EntryID(entry), Err: err}
			if opts.Strict {
				return result, entryErr
			}
			result.Skipped = append(result.Skipped, entryErr)
			continue
		}
		if !keep {
			continue
		}

		record.Source = opts.Source
		result.Mutuals = append(result.Mutuals, record)
	}

	return result, nil
}

func filterEntry(entry gson.JSON) (UserRecord, bool, error) {
	entryType, err := EntryType(entry)
	if err != nil {
		return UserRecord{}, false, err
	}
	if entryType != TimelineItemType {
		return UserRecord{}, false, nil
	}

	record, err := ExtractUser(entry)
	if err != nil {
		return UserRecord{}, false, err
	}
	return record, record.IsMutual, nil
}
