package photo

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestReadDetectsImage(t *testing.T) {
	data := testJPEG(t, 32, 24)
	at := time.Date(2025, 12, 5, 9, 32, 3, 0, time.UTC)
	ist := time.FixedZone("IST", 5*3600+1800)

	c, err := Read(bytes.NewReader(data), &multipart.FileHeader{Filename: "IMG_0001.jpg", Header: textproto.MIMEHeader{}}, 0, at, ist)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", c.MIMEType)
	assert.Equal(t, "IMG_0001.jpg", c.FileName)
	assert.Equal(t, "5/12/2025, 3:02:03 pm", c.Timestamp)
	assert.True(t, strings.HasPrefix(c.DataURL(), "data:image/jpeg;base64,"))
}

func TestReadRejectsNonImage(t *testing.T) {
	_, err := Read(strings.NewReader("hello, plain text"), nil, 0, time.Now(), nil)
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = Read(strings.NewReader(""), nil, 0, time.Now(), nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestReadRejectsUndecodableImage(t *testing.T) {
	// JPEG magic followed by junk; sniffing alone would accept it
	data := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x42}, 64)...)
	header := &multipart.FileHeader{Filename: "IMG_0002.jpg", Header: textproto.MIMEHeader{"Content-Type": {"image/jpeg"}}}

	_, err := Read(bytes.NewReader(data), header, 0, time.Now(), nil)
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestReadUsesDecodedFormat(t *testing.T) {
	data := testJPEG(t, 8, 8)
	header := &multipart.FileHeader{Filename: "photo.png", Header: textproto.MIMEHeader{"Content-Type": {"image/png"}}}

	c, err := Read(bytes.NewReader(data), header, 0, time.Now(), nil)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", c.MIMEType)
}

func TestReadEnforcesLimit(t *testing.T) {
	data := testJPEG(t, 64, 64)
	_, err := Read(bytes.NewReader(data), nil, int64(len(data)-1), time.Now(), nil)
	assert.Error(t, err)
}

func TestPreviewStampsAndScales(t *testing.T) {
	c := Captured{Data: testJPEG(t, 2048, 512), MIMEType: "image/jpeg"}

	out, err := Preview(c, []string{"19.076000, 72.877700", "Device GPS ±8m"})
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, previewMaxWidth, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestPreviewRejectsGarbage(t *testing.T) {
	_, err := Preview(Captured{Data: []byte("nope")}, nil)
	assert.Error(t, err)
}
