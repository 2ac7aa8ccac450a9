package geo

import (
	"context"
	"log/slog"
	"time"
)

// DefaultPhotoTimeout bounds the live lookup made when a photo is captured.
const DefaultPhotoTimeout = 10 * time.Second

// PhotoResolver picks the position attached to a captured photo. A live
// fix always wins; embedded image metadata is the fallback.
type PhotoResolver struct {
	Metadata MetadataExtractor
	Timeout  time.Duration
}

func NewPhotoResolver(metadata MetadataExtractor, timeout time.Duration) PhotoResolver {
	if timeout <= 0 {
		timeout = DefaultPhotoTimeout
	}
	return PhotoResolver{Metadata: metadata, Timeout: timeout}
}

// PhotoFix is the position attached to a photo. Source is SourceNone and
// Reading nil when nothing resolved.
type PhotoFix struct {
	Reading *Reading
	Source  Source
}

func photoFix(r *Reading) PhotoFix {
	if r == nil {
		return PhotoFix{Source: SourceNone}
	}
	return PhotoFix{Reading: r, Source: r.Source}
}

// Resolve runs the live lookup and, unless the device strips metadata,
// the metadata read concurrently.
func (p PhotoResolver) Resolve(ctx context.Context, sensor Sensor, image []byte, device DeviceInfo) PhotoFix {
	metaCh := make(chan *Reading, 1)
	if p.Metadata != nil && !device.SkipsImageMetadata() && len(image) > 0 {
		go func() {
			r, err := p.Metadata.Extract(ctx, image)
			if err != nil {
				slog.Debug("image metadata read failed", slog.Any("err", err))
				r = nil
			}
			metaCh <- r
		}()
	} else {
		metaCh <- nil
	}

	if live := NewResolver(sensor).Resolve(ctx, p.Timeout); live != nil {
		return photoFix(live)
	}

	select {
	case meta := <-metaCh:
		return photoFix(meta)
	case <-ctx.Done():
		return photoFix(nil)
	}
}
