package geo

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gpsEntry struct {
	tag       uint16
	ref       string
	rationals [][2]uint32
}

// jpegWithGPS builds a small JPEG whose APP1 segment carries a GPS IFD with
// the given refs and rational tuples. An empty ref or nil tuple omits the tag.
func jpegWithGPS(t *testing.T, latRef string, lat [][2]uint32, lonRef string, lon [][2]uint32) []byte {
	t.Helper()
	var entries []gpsEntry
	if latRef != "" {
		entries = append(entries, gpsEntry{tag: 0x0001, ref: latRef})
	}
	if lat != nil {
		entries = append(entries, gpsEntry{tag: 0x0002, rationals: lat})
	}
	if lonRef != "" {
		entries = append(entries, gpsEntry{tag: 0x0003, ref: lonRef})
	}
	if lon != nil {
		entries = append(entries, gpsEntry{tag: 0x0004, rationals: lon})
	}

	le := binary.LittleEndian
	const ifd0Offset = 8
	const gpsOffset = ifd0Offset + 2 + 12 + 4
	dataOffset := uint32(gpsOffset + 2 + 12*len(entries) + 4)

	var tiff bytes.Buffer
	tiff.WriteString("II")
	_ = binary.Write(&tiff, le, uint16(42))
	_ = binary.Write(&tiff, le, uint32(ifd0Offset))

	// IFD0: GPSInfo pointer only
	_ = binary.Write(&tiff, le, uint16(1))
	_ = binary.Write(&tiff, le, uint16(0x8825))
	_ = binary.Write(&tiff, le, uint16(4))
	_ = binary.Write(&tiff, le, uint32(1))
	_ = binary.Write(&tiff, le, uint32(gpsOffset))
	_ = binary.Write(&tiff, le, uint32(0))

	var data bytes.Buffer
	_ = binary.Write(&tiff, le, uint16(len(entries)))
	for _, e := range entries {
		_ = binary.Write(&tiff, le, e.tag)
		if e.rationals == nil {
			val := make([]byte, 4)
			copy(val, e.ref)
			_ = binary.Write(&tiff, le, uint16(2))
			_ = binary.Write(&tiff, le, uint32(len(e.ref)+1))
			tiff.Write(val)
			continue
		}
		_ = binary.Write(&tiff, le, uint16(5))
		_ = binary.Write(&tiff, le, uint32(len(e.rationals)))
		_ = binary.Write(&tiff, le, dataOffset+uint32(data.Len()))
		for _, r := range e.rationals {
			_ = binary.Write(&data, le, r[0])
			_ = binary.Write(&data, le, r[1])
		}
	}
	_ = binary.Write(&tiff, le, uint32(0))
	tiff.Write(data.Bytes())

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{B: 200, A: 255})
	var body bytes.Buffer
	require.NoError(t, jpeg.Encode(&body, img, nil))
	raw := body.Bytes()

	var out bytes.Buffer
	out.Write(raw[:2]) // SOI
	out.Write([]byte{0xFF, 0xE1})
	_ = binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(raw[2:])
	return out.Bytes()
}

func dms(d, m, s uint32) [][2]uint32 {
	return [][2]uint32{{d, 1}, {m, 1}, {s, 1}}
}

func TestExifExtractorReadsGPS(t *testing.T) {
	img := jpegWithGPS(t, "N", dms(19, 4, 30), "E", dms(72, 52, 4))

	r, err := ExifExtractor{}.Extract(context.Background(), img)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, SourceImageMetadata, r.Source)
	assert.InDelta(t, 19.075, r.Latitude, 1e-6)
	assert.InDelta(t, 72.867778, r.Longitude, 1e-5)
	assert.Nil(t, r.Accuracy)
}

func TestExifExtractorSouthWestAreNegative(t *testing.T) {
	img := jpegWithGPS(t, "S", dms(33, 52, 4), "W", dms(70, 40, 12))

	r, err := ExifExtractor{}.Extract(context.Background(), img)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.InDelta(t, -33.867778, r.Latitude, 1e-5)
	assert.InDelta(t, -70.67, r.Longitude, 1e-5)
}

func TestExifExtractorMalformedTupleIsZero(t *testing.T) {
	img := jpegWithGPS(t, "N", dms(19, 4, 30), "E", [][2]uint32{{72, 1}, {52, 1}})

	r, err := ExifExtractor{}.Extract(context.Background(), img)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, SourceImageMetadata, r.Source)
	assert.InDelta(t, 19.075, r.Latitude, 1e-6)
	assert.Equal(t, 0.0, r.Longitude)
}

func TestExifExtractorKeepsPrimeMeridian(t *testing.T) {
	img := jpegWithGPS(t, "N", dms(51, 28, 40), "E", dms(0, 0, 0))

	r, err := ExifExtractor{}.Extract(context.Background(), img)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.InDelta(t, 51.477778, r.Latitude, 1e-5)
	assert.Equal(t, 0.0, r.Longitude)
}

func TestExifExtractorMissingTagIsNil(t *testing.T) {
	img := jpegWithGPS(t, "N", dms(19, 4, 30), "", dms(72, 52, 4))

	r, err := ExifExtractor{}.Extract(context.Background(), img)
	assert.NoError(t, err)
	assert.Nil(t, r)
}
