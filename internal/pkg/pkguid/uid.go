package pkguid

import "strconv"

// StringID generates unique string identifiers.
type StringID interface {
	// Generate generates a unique identifier as a string.
	Generate() string
}

// NumberID generates unique numeric identifiers.
type NumberID interface {
	// Generate generates a unique identifier as an int64 number.
	Generate() int64
}

// NumberString exposes a NumberID as a StringID using base-10 text.
type NumberString struct {
	gen NumberID
}

func NewNumberString(gen NumberID) *NumberString {
	return &NumberString{gen: gen}
}

func (n *NumberString) Generate() string {
	return strconv.FormatInt(n.gen.Generate(), 10)
}
