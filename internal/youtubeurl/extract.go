// Package youtubeurl extracts YouTube video ids from the handful of URL
// shapes the AddVideo effect accepts (spec §6).
package youtubeurl

import "regexp"

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

var (
	watchPattern = regexp.MustCompile(`[?&]v=([A-Za-z0-9_-]+)`)
	shortPattern = regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]+)`)
	embedPattern = regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]+)`)
)

// Extract returns the 11-character video id encoded in url, or an empty
// string if url does not match youtube.com/watch?v=, youtu.be/, or
// youtube.com/embed/, or the candidate id is not exactly 11 characters
// of [A-Za-z0-9_-].
func Extract(url string) string {
	var candidate string
	switch {
	case watchPattern.MatchString(url):
		candidate = watchPattern.FindStringSubmatch(url)[1]
	case shortPattern.MatchString(url):
		candidate = shortPattern.FindStringSubmatch(url)[1]
	case embedPattern.MatchString(url):
		candidate = embedPattern.FindStringSubmatch(url)[1]
	default:
		return ""
	}

	if !idPattern.MatchString(candidate) {
		return ""
	}
	return candidate
}
