package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultIconSize is assumed when an icon carries no explicit dimensions.
const DefaultIconSize = 24

var fullNameRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*:[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Icon is an immutable catalog entry. Icons are created in bulk at ingestion
// time and never mutated afterward; the embedding is backfilled asynchronously,
// so an icon may be lexically searchable before it is semantically searchable.
type Icon struct {
	ID         int64
	Prefix     string
	Name       string
	FullName   string
	Body       string
	Width      int
	Height     int
	Category   string
	Tags       []string
	License    string
	Collection string
}

// ValidateFullName checks the "<prefix>:<name>" icon identifier format.
func ValidateFullName(fullName string) error {
	if !fullNameRe.MatchString(fullName) {
		return fmt.Errorf("%w: icon name must be in prefix:name format", ErrInvalidParams)
	}
	return nil
}

// SplitFullName splits "<prefix>:<name>" into its parts.
func SplitFullName(fullName string) (prefix, name string, err error) {
	prefix, name, ok := strings.Cut(fullName, ":")
	if !ok || prefix == "" || name == "" {
		return "", "", errors.New("malformed icon full name")
	}
	return prefix, name, nil
}

// RenderSVG produces standalone SVG markup for the icon. A positive size
// overrides both dimensions while the viewBox keeps the native geometry.
func (i *Icon) RenderSVG(size int) string {
	width, height := i.Width, i.Height
	if width <= 0 {
		width = DefaultIconSize
	}
	if height <= 0 {
		height = DefaultIconSize
	}

	viewW, viewH := width, height
	if size > 0 {
		width, height = size, size
	}

	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">%s</svg>`,
		width, height, viewW, viewH, i.Body,
	)
}

// IconSummary is the display projection of an icon used in search results.
type IconSummary struct {
	ID         int64
	FullName   string
	Name       string
	Prefix     string
	Collection string
	Category   string
	Tags       []string
}
