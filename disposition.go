package tollgate

import (
	"net/url"
	"strings"
)

const maxFilenameLen = 180

// SafeFilename sanitizes a suggested download filename for use inside a
// quoted Content-Disposition parameter: newlines and carriage returns become
// spaces, double quotes become single quotes, and the result is capped at
// 180 characters. An empty result falls back to "download".
func SafeFilename(name string) string {
	cleaned := strings.NewReplacer("\n", " ", "\r", " ", `"`, "'").Replace(name)
	if len(cleaned) > maxFilenameLen {
		cleaned = cleaned[:maxFilenameLen]
	}
	if cleaned == "" {
		return "download"
	}
	return cleaned
}

// ContentDisposition builds the response header value, e.g.
//
//	attachment; filename="report.pdf"; filename*=UTF-8''report.pdf
//
// The quoted filename is an ASCII-safe fallback (non-ASCII runes replaced
// with underscores); the filename* parameter carries the exact UTF-8 name
// percent-encoded per RFC 5987 for clients that understand it.
func ContentDisposition(kind, filename string) string {
	name := SafeFilename(filename)

	ascii := make([]byte, 0, len(name))
	for _, r := range name {
		if r < 0x20 || r > 0x7e {
			ascii = append(ascii, '_')
			continue
		}
		ascii = append(ascii, byte(r))
	}

	var b strings.Builder
	b.WriteString(kind)
	b.WriteString(`; filename="`)
	b.Write(ascii)
	b.WriteString(`"; filename*=UTF-8''`)
	b.WriteString(rfc5987Encode(name))
	return b.String()
}

// rfc5987Encode percent-encodes a UTF-8 string for an ext-value parameter.
// url.PathEscape covers the required set except for the few sub-delims it
// leaves literal.
func rfc5987Encode(s string) string {
	escaped := url.PathEscape(s)
	r := strings.NewReplacer(
		"$", "%24", "&", "%26", "+", "%2B",
		",", "%2C", ";", "%3B", "=", "%3D",
	)
	return r.Replace(escaped)
}

// Previewable reports whether a content type is rendered inline by browsers
// when a filename hint is present. Matches the gateway's download policy:
// PDFs preview, everything else only with an explicit filename request.
func Previewable(contentType string) bool {
	return contentType == "application/pdf"
}
