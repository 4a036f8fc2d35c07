package timeline

import (
	"regexp"
	"strings"

	"github.com/ysmood/gson"
)

// TimelineItemType is the entryType of entries that wrap a single user
const TimelineItemType = "TimelineTimelineItem"

// UserRecord is the part of a timeline user the downloader needs
type UserRecord struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	IsMutual    bool   `json:"is_mutual"`

	EntryID string `json:"entry_id,omitempty"`
	Source  string `json:"source,omitempty"`
}

var (
	userResultPath = []string{"content", "itemContent", "user_results", "result"}
	entryTypePath  = []string{"content", "entryType"}

	// Newer payloads moved some legacy fields; each list is tried in order
	screenNamePaths = [][]string{{"legacy", "screen_name"}, {"core", "screen_name"}}
	namePaths       = [][]string{{"legacy", "name"}, {"core", "name"}}
	avatarPaths     = [][]string{{"legacy", "profile_image_url_https"}, {"avatar", "image_url"}}
	followedByPaths = [][]string{{"legacy", "followed_by"}, {"relationship_perspectives", "followed_by"}}
	followingPaths  = [][]string{{"legacy", "following"}, {"relationship_perspectives", "following"}}
)

// EntryType returns content.entryType
func EntryType(entry gson.JSON) (string, error) {
	t, err := lookupString(entry, entryTypePath...)
	if err != nil {
		return "", malformed(err, "entry type not found")
	}
	return t, nil
}

// ExtractUser maps an entry to a UserRecord. Missing relationship flags
// count as false; any other missing or mistyped field is an error.
func ExtractUser(entry gson.JSON) (UserRecord, error) {
	user, err := lookup(entry, userResultPath...)
	if err != nil {
		return UserRecord{}, malformed(err, "user result not found")
	}

	username, err := firstString(user, screenNamePaths)
	if err != nil {
		return UserRecord{}, malformed(err, "screen name not found")
	}
	name, err := firstString(user, namePaths)
	if err != nil {
		return UserRecord{}, malformed(err, "display name not found")
	}
	avatar, err := firstString(user, avatarPaths)
	if err != nil {
		return UserRecord{}, malformed(err, "profile image not found")
	}

	followedBy, err := firstBool(user, followedByPaths)
	if err != nil {
		return UserRecord{}, malformed(err, "followed_by flag unreadable")
	}
	following, err := firstBool(user, followingPaths)
	if err != nil {
		return UserRecord{}, malformed(err, "following flag unreadable")
	}

	return UserRecord{
		Username:    username,
		DisplayName: name,
		AvatarURL:   FullSizeAvatarURL(avatar),
		IsMutual:    followedBy && following,
		EntryID:     EntryID(entry),
	}, nil
}

// firstString returns the first path that resolves. The error of the first
// path is reported when none do.
func firstString(j gson.JSON, paths [][]string) (string, error) {
	var firstErr error
	for _, p := range paths {
		s, err := lookupString(j, p...)
		if err == nil {
			return s, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return "", firstErr
}

// firstBool is firstString for flags, except that a flag absent everywhere
// reads as false. A present flag of the wrong type is still an error.
func firstBool(j gson.JSON, paths [][]string) (bool, error) {
	for _, p := range paths {
		b, err := lookupBool(j, p...)
		if err == nil {
			return b, nil
		}
		if !isMissing(err) {
			return false, err
		}
	}
	return false, nil
}

// sizeSuffix matches the variant marker twimg puts before the extension:
// _normal, _bigger, _mini, or _<w>x<h>
var sizeSuffix = regexp.MustCompile(`_(normal|bigger|mini|\d+x\d+)(\.[A-Za-z0-9]+)?$`)

// FullSizeAvatarURL strips the size variant from the last path segment so
// the original upload is requested.
func FullSizeAvatarURL(rawURL string) string {
	head, tail := splitQuery(rawURL)

	slash := strings.LastIndex(head, "/")
	dir, base := head[:slash+1], head[slash+1:]

	return dir + sizeSuffix.ReplaceAllString(base, "$2") + tail
}

var validExtension = regexp.MustCompile(`^[A-Za-z0-9]{1,5}$`)

// FileExtension returns the text after the last '.' of the URL's final
// path segment, or "jpg" when there is none.
func FileExtension(rawURL string) string {
	head, _ := splitQuery(rawURL)
	base := head[strings.LastIndex(head, "/")+1:]

	dot := strings.LastIndex(base, ".")
	if dot < 0 {
		return "jpg"
	}
	ext := base[dot+1:]
	if !validExtension.MatchString(ext) {
		return "jpg"
	}
	return ext
}

// splitQuery separates the path from any ?query or #fragment
func splitQuery(rawURL string) (string, string) {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		return rawURL[:i], rawURL[i:]
	}
	return rawURL, ""
}
