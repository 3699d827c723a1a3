// Package qr implements the QR payload convention: a student's QR code is
// simply the URL of their instructor-facing page.
package qr

import (
	"net/url"
	"regexp"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const studentPathPrefix = "/instructor/student/"

var studentPathRegex = regexp.MustCompile(`/instructor/student/([^/]+)`)

// StudentURL encodes a student identifier into the canonical QR payload:
// <base>/instructor/student/<url-escaped id>.
func StudentURL(base, studentID string) string {
	return strings.TrimRight(base, "/") + studentPathPrefix + url.PathEscape(studentID)
}

// ExtractStudentID decodes scanned or pasted text back into a student
// identifier. It tries, in order: the path of an absolute URL, the raw text
// as a bare path, and finally the trimmed text as a literal id. It never
// fails; empty input yields "".
func ExtractStudentID(text string) string {
	t := strings.TrimSpace(text)
	if t == "" {
		return ""
	}

	if strings.HasPrefix(t, "http://") || strings.HasPrefix(t, "https://") {
		if u, err := url.Parse(t); err == nil {
			if id, ok := matchStudentPath(u.Path); ok {
				return id
			}
			// a URL without the student path is not an id
			return ""
		}
		// broken URLs fall through to the raw-text strategies
	}

	if id, ok := matchStudentPath(t); ok {
		return id
	}

	// anything else is treated as a literal student id
	return t
}

func matchStudentPath(s string) (string, bool) {
	m := studentPathRegex.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	if id, err := url.PathUnescape(m[1]); err == nil {
		return id, true
	}
	return m[1], true
}

// PNG renders the payload as a QR image. size is the edge length in pixels.
func PNG(payload string, size int) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.Medium, size)
}
