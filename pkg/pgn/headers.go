package pgn

import "strings"

// Standard header names
const (
	HeaderEvent    = "Event"
	HeaderDate     = "Date"
	HeaderRound    = "Round"
	HeaderX        = "X"
	HeaderO        = "O"
	HeaderSetup    = "Setup"
	HeaderPosition = "Position"
	HeaderResult   = "Result"
)

// Single header field, rendered as [Name "Value"]
type Tag struct {
	Name  string
	Value string
}

// Ordered header block, insertion order is the render order
type Headers []Tag

// Value of the header with given name, "" if it's missing
func (h Headers) Get(name string) string {
	v, _ := h.Lookup(name)
	return v
}

func (h Headers) Lookup(name string) (string, bool) {
	for _, tag := range h {
		if tag.Name == name {
			return tag.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing header in place, or appends a new one
func (h *Headers) Set(name, value string) {
	for i := range *h {
		if (*h)[i].Name == name {
			(*h)[i].Value = value
			return
		}
	}
	*h = append(*h, Tag{Name: name, Value: value})
}

func (h Headers) String() string {
	var b strings.Builder
	for _, tag := range h {
		b.WriteString("[")
		b.WriteString(tag.Name)
		b.WriteString(" \"")
		b.WriteString(tag.Value)
		b.WriteString("\"]\n")
	}
	return b.String()
}
