// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import "strings"

// =============================================================================
// SEGMENT TYPES
// =============================================================================

// Kind tags a rendered segment.
type Kind int

const (
	// Text is author text shown as is.
	Text Kind = iota
	// Mention is a resolved "@username" token.
	Mention
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Mention:
		return "mention"
	default:
		return "text"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Segment is one piece of rendered text. For a Mention, Text holds the full
// "@username" token and Username the name without "@".
type Segment struct {
	Kind     Kind   `json:"kind"`
	Text     string `json:"text"`
	Username string `json:"username,omitempty"`
}

// Fragment is rendered text as an ordered list of segments.
type Fragment []Segment

// String concatenates every segment, reproducing the rendered input.
func (f Fragment) String() string {
	var b strings.Builder
	for _, s := range f {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Mentions returns the usernames of the mention segments in order.
func (f Fragment) Mentions() []string {
	var out []string
	for _, s := range f {
		if s.Kind == Mention {
			out = append(out, s.Username)
		}
	}
	return out
}

// =============================================================================
// RENDERING
// =============================================================================

// Render tokenizes text in a single pass. Each mention token whose username
// is in resolved (compared case-sensitively) becomes a Mention segment; every
// other byte of text, including unresolved tokens, is kept as Text. The
// segments concatenate back to text exactly.
func Render(text string, resolved []string) Fragment {
	if text == "" {
		return Fragment{}
	}

	set := make(map[string]struct{}, len(resolved))
	for _, r := range resolved {
		set[r] = struct{}{}
	}

	var (
		frag Fragment
		last int
	)
	for _, loc := range tokenPattern.FindAllStringSubmatchIndex(text, -1) {
		name := text[loc[2]:loc[3]]
		if _, ok := set[name]; !ok {
			continue
		}
		frag = appendText(frag, text[last:loc[0]])
		frag = append(frag, Segment{Kind: Mention, Text: text[loc[0]:loc[1]], Username: name})
		last = loc[1]
	}
	return appendText(frag, text[last:])
}

// appendText adds plain text, merging with a preceding Text segment.
func appendText(frag Fragment, s string) Fragment {
	if s == "" {
		return frag
	}
	if n := len(frag); n > 0 && frag[n-1].Kind == Text {
		frag[n-1].Text += s
		return frag
	}
	return append(frag, Segment{Kind: Text, Text: s})
}
