// ABOUTME: Query types understood by catalog search
// ABOUTME: Each query exposes a stable shape identifier used for dispatch

package query

// Query is a typed filtering request. QueryType names the query's shape and
// must be stable: it is the key handlers are registered under.
type Query interface {
	QueryType() string
}

// TextType is the shape identifier of Text queries
const TextType = "text"

// Text matches entries whose metadata contains any of the words in Text
type Text struct {
	Text string `json:"text"`
}

// QueryType implements Query
func (Text) QueryType() string { return TextType }

// NewText creates a full-text query
func NewText(text string) Text {
	return Text{Text: text}
}

var _ Query = Text{}
