package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrEmptyResponse means the oracle answered but no usable text could be
// extracted from any part of the reply.
var ErrEmptyResponse = errors.New("oracle returned no usable text")

// Oracle is the external text-understanding service. Implementations return
// the raw reply envelope; adapters own extraction, parsing and fallbacks.
type Oracle interface {
	Complete(ctx context.Context, system, user string) (Envelope, error)
}

// Envelope carries an oracle reply in whichever of the known shapes the
// backend produced: a direct text field, a list of text fragments, or a raw
// structured dump of the whole response.
type Envelope struct {
	OutputText string
	Fragments  []string
	Raw        []byte
}

// Text extracts the reply text: the direct field first, then concatenated
// fragments, then a walk of the raw dump. The first non-empty result wins.
func (e Envelope) Text() (string, bool) {
	if s := strings.TrimSpace(e.OutputText); s != "" {
		return s, true
	}
	if len(e.Fragments) > 0 {
		var b strings.Builder
		for _, f := range e.Fragments {
			b.WriteString(f)
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			return s, true
		}
	}
	if s := textFromRaw(e.Raw); s != "" {
		return s, true
	}
	return "", false
}

// textFromRaw digs through a serialized response for the first non-empty
// text. It understands output[].content[].text blocks (where text may be a
// string or a list of string pieces) and a top-level output_text of either
// shape.
func textFromRaw(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	for _, block := range gjson.GetBytes(raw, "output").Array() {
		for _, content := range block.Get("content").Array() {
			if s := textFromResult(content.Get("text")); s != "" {
				return s
			}
		}
	}
	return textFromResult(gjson.GetBytes(raw, "output_text"))
}

func textFromResult(r gjson.Result) string {
	if r.Type == gjson.String {
		return strings.TrimSpace(r.String())
	}
	if r.IsArray() {
		var b strings.Builder
		for _, piece := range r.Array() {
			if piece.Type == gjson.String {
				b.WriteString(piece.String())
			}
		}
		return strings.TrimSpace(b.String())
	}
	return ""
}

// stripFences removes a markdown code fence the oracle sometimes wraps
// around its JSON despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
