// Package avatar fetches profile pictures over HTTP.
//
// A fetch is a single GET with no retry. Only a 200 response counts as
// success; any other status comes back as an *errors.Error of type
// http_status carrying the code, and transport failures as type network.
//
//	client := avatar.NewClient(30*time.Second, log)
//	data, err := client.Fetch(ctx, "https://pbs.twimg.com/profile_images/1/abc.jpg")
//	if errors.IsType(err, errors.ErrorTypeHTTPStatus) {
//	    // skip this user
//	}
package avatar
