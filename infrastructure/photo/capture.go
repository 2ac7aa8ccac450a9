package photo

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/webp"
)

// DefaultMaxBytes caps a captured photo.
const DefaultMaxBytes = 10 << 20

var (
	ErrEmpty      = errors.New("photo is empty")
	ErrNotImage   = errors.New("photo must be an image file")
	ErrUnreadable = errors.New("photo could not be decoded")
)

// Captured is a photo held for the final submission.
type Captured struct {
	Data       []byte
	MIMEType   string
	FileName   string
	CapturedAt time.Time
	Timestamp  string
}

// DataURL encodes the image as a base64 data URL.
func (c Captured) DataURL() string {
	if len(c.Data) == 0 {
		return ""
	}
	return "data:" + c.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(c.Data)
}

const timestampLayout = "2/1/2006, 3:04:05 pm"

// Read loads an uploaded photo part, enforcing maxBytes and an image MIME type.
func Read(file io.Reader, header *multipart.FileHeader, maxBytes int64, at time.Time, loc *time.Location) (Captured, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return Captured{}, fmt.Errorf("read photo: %w", err)
	}
	if len(data) == 0 {
		return Captured{}, ErrEmpty
	}
	if int64(len(data)) > maxBytes {
		return Captured{}, fmt.Errorf("photo must be %dMB or less", maxBytes>>20)
	}

	mimeType := ""
	if header != nil {
		mimeType = strings.TrimSpace(header.Header.Get("Content-Type"))
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return Captured{}, ErrNotImage
	}
	// the part's Content-Type is client supplied; the bytes decide
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Captured{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	mimeType = "image/" + format

	fileName := ""
	if header != nil {
		fileName = strings.TrimSpace(header.Filename)
	}
	if fileName == "" {
		exts, _ := mime.ExtensionsByType(mimeType)
		ext := ""
		if len(exts) > 0 {
			ext = exts[0]
		}
		fileName = "enrollment-photo" + ext
	} else {
		fileName = filepath.Base(fileName)
	}

	if loc == nil {
		loc = time.UTC
	}
	return Captured{
		Data:       data,
		MIMEType:   mimeType,
		FileName:   fileName,
		CapturedAt: at,
		Timestamp:  at.In(loc).Format(timestampLayout),
	}, nil
}
