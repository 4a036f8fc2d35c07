// Package timelinetest builds timeline payloads for tests.
package timelinetest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// User describes one user entry
type User struct {
	ScreenName string
	Name       string
	AvatarURL  string
	FollowedBy bool
	Following  bool
}

// UserEntry returns a TimelineTimelineItem entry wrapping u
func UserEntry(u User) map[string]interface{} {
	name := u.Name
	if name == "" {
		name = u.ScreenName
	}
	avatar := u.AvatarURL
	if avatar == "" {
		avatar = fmt.Sprintf("https://pbs.twimg.com/profile_images/1/%s_normal.jpg", u.ScreenName)
	}

	return map[string]interface{}{
		"entryId":   "user-" + u.ScreenName,
		"sortIndex": "1",
		"content": map[string]interface{}{
			"entryType":  "TimelineTimelineItem",
			"__typename": "TimelineTimelineItem",
			"itemContent": map[string]interface{}{
				"itemType": "TimelineUser",
				"user_results": map[string]interface{}{
					"result": map[string]interface{}{
						"__typename": "User",
						"rest_id":    "1",
						"legacy": map[string]interface{}{
							"screen_name":             u.ScreenName,
							"name":                    name,
							"profile_image_url_https": avatar,
							"followed_by":             u.FollowedBy,
							"following":               u.Following,
						},
					},
				},
			},
		},
	}
}

// Mutual is UserEntry for a user that follows and is followed back
func Mutual(screenName, avatarURL string) map[string]interface{} {
	return UserEntry(User{ScreenName: screenName, AvatarURL: avatarURL, FollowedBy: true, Following: true})
}

// CursorEntry returns a bottom cursor entry, which carries no user
func CursorEntry(value string) map[string]interface{} {
	return map[string]interface{}{
		"entryId": "cursor-bottom-" + value,
		"content": map[string]interface{}{
			"entryType":  "TimelineTimelineCursor",
			"value":      value,
			"cursorType": "Bottom",
		},
	}
}

// AddEntries returns a TimelineAddEntries instruction
func AddEntries(entries ...map[string]interface{}) map[string]interface{} {
	list := make([]interface{}, len(entries))
	for i, e := range entries {
		list[i] = e
	}
	return map[string]interface{}{
		"type":    "TimelineAddEntries",
		"entries": list,
	}
}

// Document wraps instructions in the GraphQL envelope and encodes it
func Document(instructions ...interface{}) []byte {
	if instructions == nil {
		instructions = []interface{}{}
	}
	doc := map[string]interface{}{
		"data": map[string]interface{}{
			"user": map[string]interface{}{
				"result": map[string]interface{}{
					"__typename": "User",
					"timeline": map[string]interface{}{
						"timeline": map[string]interface{}{
							"instructions": instructions,
						},
					},
				},
			},
		},
	}

	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return data
}

// WriteFile writes data to dir/name and returns the path
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
