// Package version parses and compares release version strings.
//
// Comparison is numeric-segment-wise, never lexicographic: 1.10.0 is greater
// than 1.9.0. A pre-release suffix ranks below its absence, so 1.2.0 is
// greater than 1.2.0-rc1.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed release version.
type Version struct {
	// Raw is the original input, tag prefix included.
	Raw string
	// Segments holds the numeric dotted components.
	Segments []int
	// Pre is the pre-release suffix without the leading separator, empty when absent.
	Pre string
}

// Parse converts a tag or version string into a Version.
// Leading "v" and "V" prefixes are stripped; a "-" or "+" introduces the
// pre-release/build suffix.
func Parse(raw string) (Version, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Version{}, fmt.Errorf("empty version string")
	}
	core := strings.TrimPrefix(strings.TrimPrefix(trimmed, "v"), "V")

	pre := ""
	if idx := strings.IndexAny(core, "-+"); idx >= 0 {
		pre = core[idx+1:]
		core = core[:idx]
	}
	if core == "" {
		return Version{}, fmt.Errorf("invalid version %q", raw)
	}

	parts := strings.Split(core, ".")
	segments := make([]int, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version segment %q in %q", part, raw)
		}
		if value < 0 {
			return Version{}, fmt.Errorf("negative version segment %q in %q", part, raw)
		}
		segments = append(segments, value)
	}
	return Version{Raw: trimmed, Segments: segments, Pre: pre}, nil
}

// MustParse parses raw and panics on failure. For statically known versions only.
func MustParse(raw string) Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1 when a < b, 0 when a == b, and 1 when a > b.
// Missing segments compare as zero, so 1.2 equals 1.2.0.
func Compare(a Version, b Version) int {
	segments := len(a.Segments)
	if len(b.Segments) > segments {
		segments = len(b.Segments)
	}
	for i := 0; i < segments; i++ {
		left, right := 0, 0
		if i < len(a.Segments) {
			left = a.Segments[i]
		}
		if i < len(b.Segments) {
			right = b.Segments[i]
		}
		if left < right {
			return -1
		}
		if left > right {
			return 1
		}
	}
	// Equal numeric segments: a release outranks any of its pre-releases.
	switch {
	case a.Pre == "" && b.Pre != "":
		return 1
	case a.Pre != "" && b.Pre == "":
		return -1
	case a.Pre < b.Pre:
		return -1
	case a.Pre > b.Pre:
		return 1
	}
	return 0
}

// String renders the normalized dotted form with the pre-release suffix when present.
func (v Version) String() string {
	parts := make([]string, len(v.Segments))
	for i, segment := range v.Segments {
		parts[i] = strconv.Itoa(segment)
	}
	out := strings.Join(parts, ".")
	if v.Pre != "" {
		out += "-" + v.Pre
	}
	return out
}

// IsZero reports whether v is the zero Version (never produced by Parse).
func (v Version) IsZero() bool {
	return len(v.Segments) == 0
}
