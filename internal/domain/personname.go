package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NameFormat identifies one of the textual renderings of a PersonName
type NameFormat string

const (
	FormatFull        NameFormat = "full"
	FormatFirst       NameFormat = "first"
	FormatLast        NameFormat = "last"
	FormatAbbreviated NameFormat = "abbreviated"
	FormatSorted      NameFormat = "sorted"
	FormatInitials    NameFormat = "initials"
)

// NameFormats lists every format accepted by PersonName.Possessive
var NameFormats = []NameFormat{
	FormatFull,
	FormatFirst,
	FormatLast,
	FormatAbbreviated,
	FormatSorted,
	FormatInitials,
}

// ParseNameFormat validates a textual format identifier
func ParseNameFormat(s string) (NameFormat, error) {
	for _, f := range NameFormats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown name format %q", ErrInvalidArgument, s)
}

var (
	// parenthesized or bracketed runs, dropped before initials are taken
	bracketedRun = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	wordRun      = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)
)

// PersonName is an immutable first/last name pair with derived formats.
//
// All derived formats are computed when the value is built, so a PersonName
// can be shared between goroutines without synchronization. The zero value
// is not valid; use NewPersonName or FromFull.
type PersonName struct {
	first string
	last  string

	full        string
	sorted      string
	abbreviated string
	familiar    string
	initials    string
	mentionable string
}

// NewPersonName builds a name from its parts. Both parts are trimmed; a blank
// last name is treated as absent. A blank first name is rejected.
func NewPersonName(first, last string) (*PersonName, error) {
	first = strings.TrimSpace(first)
	if first == "" {
		return nil, fmt.Errorf("%w: first name is required", ErrInvalidArgument)
	}

	p := &PersonName{
		first: first,
		last:  strings.TrimSpace(last),
	}
	p.derive()
	return p, nil
}

// FromFull parses a full name string. Whitespace runs collapse to a single
// space; the first token becomes the first name and everything after it the
// last name. A blank string yields a nil name and no error.
func FromFull(full string) (*PersonName, error) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return nil, nil
	}
	return NewPersonName(parts[0], strings.Join(parts[1:], " "))
}

func (p *PersonName) derive() {
	if p.last == "" {
		p.full = p.first
		p.sorted = p.first
		p.abbreviated = p.first
		p.familiar = p.first
		p.mentionable = strings.ToLower(strings.ReplaceAll(p.first, " ", ""))
	} else {
		p.full = p.first + " " + p.last
		p.sorted = p.last + ", " + p.first
		p.abbreviated = firstGrapheme(p.first) + ". " + p.last
		p.familiar = p.first + " " + firstGrapheme(p.last) + "."

		withoutDot := strings.TrimSuffix(p.familiar, ".")
		p.mentionable = strings.ToLower(strings.ReplaceAll(withoutDot, " ", ""))
	}
	p.initials = initialsOf(p.full)
}

// First returns the first name
func (p PersonName) First() string {
	return p.first
}

// Last returns the last name, or an empty string when there is none
func (p PersonName) Last() string {
	return p.last
}

// HasLast reports whether a last name is present
func (p PersonName) HasLast() bool {
	return p.last != ""
}

// Full returns first + last, such as "Jason Fried"
func (p PersonName) Full() string {
	return p.full
}

// Sorted returns last + first for alphabetical listings, such as "Fried, Jason"
func (p PersonName) Sorted() string {
	return p.sorted
}

// Abbreviated returns first initial + last, such as "J. Fried"
func (p PersonName) Abbreviated() string {
	return p.abbreviated
}

// Familiar returns first + last initial, such as "Jason F."
func (p PersonName) Familiar() string {
	return p.familiar
}

// Initials returns the initials of the full name, such as "JF".
// Parenthesized and bracketed parts of the name are ignored.
func (p PersonName) Initials() string {
	return p.initials
}

// Mentionable returns a lowercase handle built from the familiar name,
// such as "jasonf"
func (p PersonName) Mentionable() string {
	return p.mentionable
}

// Possessive renders the name in the given format followed by 's, or just '
// when the rendering already ends in s
func (p PersonName) Possessive(format NameFormat) (string, error) {
	var name string
	switch format {
	case FormatFull:
		name = p.full
	case FormatFirst:
		name = p.first
	case FormatLast:
		name = p.last
		if name == "" {
			name = p.first
		}
	case FormatAbbreviated:
		name = p.abbreviated
	case FormatSorted:
		name = p.sorted
	case FormatInitials:
		name = p.initials
	default:
		return "", fmt.Errorf("%w: unknown name format %q", ErrInvalidArgument, format)
	}

	r, _ := utf8.DecodeLastRuneInString(name)
	if unicode.ToLower(r) == 's' {
		return name + "'", nil
	}
	return name + "'s", nil
}

// Equals reports whether both names have identical first and last parts
func (p PersonName) Equals(other *PersonName) bool {
	if other == nil {
		return false
	}
	return p.first == other.first && p.last == other.last
}

// String returns the full name
func (p PersonName) String() string {
	return p.full
}

// MarshalJSON encodes the name as its full form
func (p PersonName) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.full)
}

// UnmarshalJSON decodes a full name string
func (p *PersonName) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode person name: %w", err)
	}
	return p.UnmarshalText([]byte(s))
}

// MarshalText encodes the name as its full form
func (p PersonName) MarshalText() ([]byte, error) {
	return []byte(p.full), nil
}

// UnmarshalText parses text with FromFull. Blank text is rejected since
// there is no empty PersonName.
func (p *PersonName) UnmarshalText(text []byte) error {
	parsed, err := FromFull(string(text))
	if err != nil {
		return err
	}
	if parsed == nil {
		return fmt.Errorf("%w: person name is blank", ErrInvalidArgument)
	}
	*p = *parsed
	return nil
}

// firstGrapheme returns the leading rune of s together with any combining
// marks that follow it
func firstGrapheme(s string) string {
	_, end := utf8.DecodeRuneInString(s)
	for end < len(s) {
		r, size := utf8.DecodeRuneInString(s[end:])
		if !unicode.Is(unicode.M, r) {
			break
		}
		end += size
	}
	return s[:end]
}

func initialsOf(full string) string {
	cleaned := bracketedRun.ReplaceAllString(full, "")

	var b strings.Builder
	for _, word := range wordRun.FindAllString(cleaned, -1) {
		b.WriteString(firstGrapheme(word))
	}
	return b.String()
}
