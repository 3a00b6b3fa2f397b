// Package document converts client-supplied data-URI payloads into raw byte
// buffers and derives content types for storage uploads.
package document

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/osuhe/remesas/pkg/domain"
)

// DefaultMaxBytes is the decoded size bound applied when no explicit limit
// is configured.
const DefaultMaxBytes = 10 << 20

// File is a decoded document payload ready for upload.
type File struct {
	Name    string
	Content []byte
	MIME    string
}

var dataURIPrefix = regexp.MustCompile(`^data:([a-zA-Z0-9][\w/+.-]*);base64,`)

var mimeByExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var extensionByMIME = map[string]string{
	"image/jpeg":         "jpg",
	"image/png":          "png",
	"image/gif":          "gif",
	"image/webp":         "webp",
	"application/pdf":    "pdf",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
}

// Decode converts a document payload into a File. The payload may be a full
// data URI (data:<mime>;base64,<payload>) or bare base64; some client call
// paths send either form. The declared data-URI MIME wins; otherwise the
// type is inferred from the file name extension, defaulting to
// application/octet-stream.
//
// Decoded payloads above maxBytes are rejected with
// domain.ErrPayloadTooLarge; malformed base64 is rejected with
// domain.ErrDecode. Pass maxBytes <= 0 to use DefaultMaxBytes.
func Decode(fileName, payload string, maxBytes int64) (*File, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	mime := ""
	if m := dataURIPrefix.FindStringSubmatch(payload); m != nil {
		mime = m[1]
		payload = payload[len(m[0]):]
	}

	// Reject clearly oversized payloads before decoding. Base64 expands by
	// 4/3, so the decoded size is at most len/4*3.
	if int64(len(payload))/4*3 > maxBytes+3 {
		return nil, fmt.Errorf("%w: encoded payload is %d bytes", domain.ErrPayloadTooLarge, len(payload))
	}

	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some clients strip padding; retry with the raw encoding.
		content, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", domain.ErrDecode, fileName, err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: %q: empty payload", domain.ErrDecode, fileName)
	}
	if int64(len(content)) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", domain.ErrPayloadTooLarge, len(content), maxBytes)
	}

	if mime == "" {
		mime = mimeFromName(fileName)
	}
	return &File{Name: fileName, Content: content, MIME: mime}, nil
}

// Extension derives the storage-key extension for a file, preferring the
// file name, then the MIME type, then "bin".
func Extension(fileName, mime string) string {
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), "."); ext != "" {
		return ext
	}
	if ext, ok := extensionByMIME[mime]; ok {
		return ext
	}
	return "bin"
}

func mimeFromName(fileName string) string {
	if mime, ok := mimeByExtension[strings.ToLower(filepath.Ext(fileName))]; ok {
		return mime
	}
	return "application/octet-stream"
}
