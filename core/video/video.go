// Package video normalizes training-video links into embeddable player URLs.
package video

import (
	"net/url"
	"strings"
)

// EmbedURL turns a YouTube link in any of its common shapes (watch, share,
// shorts, embed, music) into a privacy-enhanced embed URL. It returns
// ("", false) for anything that is not a recognizable YouTube video link.
func EmbedURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	var id string
	switch host {
	case "youtu.be":
		// the video id is the first path segment, extra segments are noise
		id = firstSegment(u.Path)
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		switch {
		case u.Query().Get("v") != "":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.SplitN(strings.TrimPrefix(u.Path, "/embed/"), "/", 2)[0]
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.SplitN(strings.TrimPrefix(u.Path, "/shorts/"), "/", 2)[0]
		}
	default:
		return "", false
	}

	if id == "" {
		return "", false
	}
	return "https://www.youtube-nocookie.com/embed/" + url.PathEscape(id), true
}

func firstSegment(path string) string {
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}
