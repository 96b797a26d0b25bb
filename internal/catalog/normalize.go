package catalog

import (
	"regexp"
	"strings"
)

// YouTube-only decorations such as "(Official Video)" or "[HD]".
var decorationPattern = regexp.MustCompile(`(?i)\s*[\(\[]\s*(?:official\s+(?:music\s+|lyric\s+)?(?:video|audio|visualizer)|lyrics?|visual(?:izer)?|audio|hd|hq|4k|explicit|clean)\s*[\)\]]`)

var featuringPattern = regexp.MustCompile(`(?i)\s*[\(\[]\s*(?:feat\.?|ft\.?|featuring)\s+[^\)\]]+[\)\]]`)

var vevoPattern = regexp.MustCompile(`(?i)vevo$`)

var topicPattern = regexp.MustCompile(`(?i)\s*-\s*topic$`)

// "Artist - Title", the usual shape of a plain YouTube video title.
var artistTitleSeparator = regexp.MustCompile(`^(.+?)\s+[-–—]\s+(.+)$`)

// NormalizeTitle strips YouTube decorations from a video title and, when artist
// is empty, splits an "Artist - Title" title into its parts. It is used for web
// search results, which carry a channel name at best.
func NormalizeTitle(title, artist string) (string, string) {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)

	artist = vevoPattern.ReplaceAllString(artist, "")
	artist = topicPattern.ReplaceAllString(artist, "")
	artist = strings.TrimSpace(artist)

	if title == "" {
		return title, artist
	}

	title = decorationPattern.ReplaceAllString(title, "")
	title = featuringPattern.ReplaceAllString(title, "")

	if artist == "" {
		if m := artistTitleSeparator.FindStringSubmatch(title); m != nil {
			artist = strings.TrimSpace(m[1])
			title = strings.TrimSpace(m[2])
		}
	}

	return strings.TrimSpace(title), strings.TrimSpace(artist)
}
