package geo

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrUnsupported         = errors.New("location not supported")
)

// PositionOptions mirrors the options every lookup is made with.
type PositionOptions struct {
	HighAccuracy bool
	MaximumAge   time.Duration
}

// FreshHighAccuracy asks for a new high-accuracy fix with no cached positions.
var FreshHighAccuracy = PositionOptions{HighAccuracy: true, MaximumAge: 0}

// Sensor produces a live position. Implementations should return when ctx is done.
type Sensor interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (Reading, error)
}

// ClientFix is the position the page obtained from the browser before posting an action.
type ClientFix struct {
	Reading *Reading
	Err     error
}

func (c ClientFix) CurrentPosition(ctx context.Context, _ PositionOptions) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}
	if c.Err != nil {
		return Reading{}, c.Err
	}
	if c.Reading == nil {
		return Reading{}, ErrPositionUnavailable
	}
	return *c.Reading, nil
}

// ParseClientFix reads the lat, long, accuracy and geo_error form values.
func ParseClientFix(lat, lon, accuracy, geoError string) ClientFix {
	switch strings.TrimSpace(geoError) {
	case "":
	case "denied", "permission_denied":
		return ClientFix{Err: ErrPermissionDenied}
	case "unsupported":
		return ClientFix{Err: ErrUnsupported}
	default:
		return ClientFix{Err: ErrPositionUnavailable}
	}

	if strings.TrimSpace(lat) == "" || strings.TrimSpace(lon) == "" {
		return ClientFix{Err: ErrPositionUnavailable}
	}
	la, err1 := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	lo, err2 := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err1 != nil || err2 != nil {
		return ClientFix{Err: ErrPositionUnavailable}
	}
	r := Reading{Latitude: la, Longitude: lo, Source: SourceLiveSensor}
	if a, err := strconv.ParseFloat(strings.TrimSpace(accuracy), 64); err == nil && a >= 0 {
		r.Accuracy = floatPtr(a)
	}
	if !r.Valid() {
		return ClientFix{Err: ErrPositionUnavailable}
	}
	return ClientFix{Reading: &r}
}

// Resolver bounds a sensor lookup with a timeout and never fails: every
// error becomes a nil reading.
type Resolver struct {
	Sensor Sensor
	Opts   PositionOptions
}

func NewResolver(sensor Sensor) Resolver {
	return Resolver{Sensor: sensor, Opts: FreshHighAccuracy}
}

// Resolve returns nil when there is no sensor, the lookup fails, or timeout elapses first.
func (r Resolver) Resolve(ctx context.Context, timeout time.Duration) *Reading {
	if r.Sensor == nil {
		return nil
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		reading Reading
		err     error
	}
	ch := make(chan result, 1)
	go func() {
		reading, err := r.Sensor.CurrentPosition(ctx, r.Opts)
		ch <- result{reading: reading, err: err}
	}()

	select {
	case <-ctx.Done():
		slog.Debug("location lookup timed out", slog.Any("err", ctx.Err()))
		return nil
	case res := <-ch:
		if res.err != nil {
			slog.Debug("location lookup failed", slog.Any("err", res.err))
			return nil
		}
		if !res.reading.Valid() {
			return nil
		}
		reading := res.reading
		if reading.Source == "" {
			reading.Source = SourceLiveSensor
		}
		return &reading
	}
}

// FirstOf races several sensors and returns the first successful reading.
type FirstOf []Sensor

func (f FirstOf) CurrentPosition(ctx context.Context, opts PositionOptions) (Reading, error) {
	if len(f) == 0 {
		return Reading{}, ErrUnsupported
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		reading Reading
		err     error
	}
	ch := make(chan result, len(f))
	for _, s := range f {
		go func(s Sensor) {
			reading, err := s.CurrentPosition(ctx, opts)
			ch <- result{reading: reading, err: err}
		}(s)
	}

	var lastErr error
	for range f {
		select {
		case <-ctx.Done():
			return Reading{}, ctx.Err()
		case res := <-ch:
			if res.err == nil {
				return res.reading, nil
			}
			lastErr = res.err
		}
	}
	return Reading{}, lastErr
}
