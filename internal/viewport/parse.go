package viewport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Common errors for parsing view parameters.
var (
	// ErrInvalidSize is returned when a size string is not of the form WxH
	// with non-negative integer dimensions.
	ErrInvalidSize = errors.New("viewport: invalid size")

	// ErrInvalidPoint is returned when a point string is not of the form X,Y.
	ErrInvalidPoint = errors.New("viewport: invalid point")
)

// ParseSize parses a size written as "WIDTHxHEIGHT", e.g. "800x600".
func ParseSize(s string) (Size, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Size{}, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return Size{}, fmt.Errorf("%w: width: %w", ErrInvalidSize, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return Size{}, fmt.Errorf("%w: height: %w", ErrInvalidSize, err)
	}
	if w < 0 || h < 0 {
		return Size{}, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return Size{Width: w, Height: h}, nil
}

// ParsePoint parses a point written as "X,Y", e.g. "-0.5,0".
func ParsePoint(s string) (Point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidPoint, s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: real part: %w", ErrInvalidPoint, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: imaginary part: %w", ErrInvalidPoint, err)
	}
	return Point{X: x, Y: y}, nil
}

// String returns the size as "WIDTHxHEIGHT".
func (s Size) String() string {
	return strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height)
}
