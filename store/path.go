package store

import (
	"fmt"
	"strings"
)

// Path is fixed-capacity formatted text. Clamped is set when the formatted
// result didn't fit in PathSize and was truncated.
type Path struct {
	str     string
	Clamped bool
}

// MakePath formats args into a Path, keeping at most PathSize-1 bytes.
func MakePath(format string, args ...interface{}) Path {
	s := fmt.Sprintf(format, args...)
	p := Path{str: s}
	if len(s) >= PathSize {
		p.str = s[:PathSize-1]
		p.Clamped = true
	}
	return p
}

func (p Path) String() string {
	return p.str
}

func (p Path) Empty() bool {
	return p.str == ""
}

// Extension returns the lowercase extension token after the last dot of the
// last path element, without the dot, or "" if there is none. Both separator
// flavors are recognized. Tokens are cut at ExtSize-1 bytes.
func (p Path) Extension() string {
	tail := p.str
	if i := strings.LastIndexByte(tail, '\\'); i >= 0 {
		tail = tail[i+1:]
	} else if i := strings.LastIndexByte(tail, '/'); i >= 0 {
		tail = tail[i+1:]
	}
	i := strings.LastIndexByte(tail, '.')
	if i < 0 {
		return ""
	}
	ext := strings.ToLower(tail[i+1:])
	if len(ext) > ExtSize-1 {
		ext = ext[:ExtSize-1]
	}
	return ext
}
