package geo

import (
	"bytes"
	"context"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// MetadataExtractor reads an embedded position from image bytes. A nil
// reading with a nil error means the image has no usable position.
type MetadataExtractor interface {
	Extract(ctx context.Context, image []byte) (*Reading, error)
}

// ExifExtractor reads GPS tags from JPEG/TIFF EXIF data.
type ExifExtractor struct{}

func (ExifExtractor) Extract(ctx context.Context, image []byte) (*Reading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	x, err := exif.Decode(bytes.NewReader(image))
	if err != nil {
		return nil, nil
	}

	latTag, err := x.Get(exif.GPSLatitude)
	if err != nil {
		return nil, nil
	}
	latRef, err := x.Get(exif.GPSLatitudeRef)
	if err != nil {
		return nil, nil
	}
	lonTag, err := x.Get(exif.GPSLongitude)
	if err != nil {
		return nil, nil
	}
	lonRef, err := x.Get(exif.GPSLongitudeRef)
	if err != nil {
		return nil, nil
	}

	r := Reading{
		Latitude:  DMSToDecimal(tagRationals(latTag), tagRef(latRef)),
		Longitude: DMSToDecimal(tagRationals(lonTag), tagRef(lonRef)),
		Source:    SourceImageMetadata,
	}
	// a malformed tuple has already become 0 and is kept as such
	if !r.Valid() {
		return nil, nil
	}
	return &r, nil
}

// DMSToDecimal converts degrees, minutes and seconds to signed decimal
// degrees. Fewer than three parts yields 0; "S" and "W" negate the result.
func DMSToDecimal(dms []float64, ref string) float64 {
	if len(dms) < 3 {
		return 0
	}
	v := dms[0] + dms[1]/60 + dms[2]/3600
	switch strings.ToUpper(strings.TrimSpace(ref)) {
	case "S", "W":
		return -v
	}
	return v
}

// tagRationals returns nil for any malformed component so the coordinate becomes 0.
func tagRationals(t *tiff.Tag) []float64 {
	if t == nil || t.Count < 3 {
		return nil
	}
	out := make([]float64, 0, 3)
	for i := 0; i < 3; i++ {
		num, den, err := t.Rat2(i)
		if err != nil || den == 0 {
			return nil
		}
		out = append(out, float64(num)/float64(den))
	}
	return out
}

func tagRef(t *tiff.Tag) string {
	s, err := t.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimRight(s, "\x00 ")
}
