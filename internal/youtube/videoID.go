package youtube

import (
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`(?:youtu\.be/|youtube\.com/(?:watch\?v=|embed/|v/))([0-9A-Za-z_-]{11})`)

// ExtractVideoID finds the 11 character video id in a watch, short, embed or v/ url.
func ExtractVideoID(url string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// LooksLikeYouTube is the loose host check done before id extraction.
func LooksLikeYouTube(url string) bool {
	return strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be")
}

// NormalizeTranscript collapses all whitespace runs to single spaces.
func NormalizeTranscript(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
