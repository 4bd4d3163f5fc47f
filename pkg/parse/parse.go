// Package parse extracts a coordinate label from unconstrained vision-model
// output.
//
// Extraction is a prioritized-alternative recognizer: a structured JSON pass
// first, then a permissive pattern scan over the raw text. The fallback is
// always attempted when the structured pass yields nothing usable, so a model
// that mangles the JSON contract but still writes the label in prose does not
// fail the run.
package parse

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/OpenBitX/seeclaw/pkg/grid"
	"github.com/OpenBitX/seeclaw/pkg/types"
)

// ErrNoTarget reports a reply from which neither pass could extract a
// coordinate label. This covers both an explicit null hex_coord and a
// reply with no recognizable payload at all.
var ErrNoTarget = errors.New("no coordinate label found in model reply")

// labelPattern tolerates whitespace around the comma and lowercase hex;
// normalization restores the canonical label form.
var labelPattern = regexp.MustCompile(`([0-9A-Fa-f]{4})\s*,\s*([0-9A-Fa-f]{4})`)

// Extract resolves a model reply into a canonical coordinate label.
//
// The structured pass falls through to the pattern pass instead of failing
// when the hex_coord field is null, absent, malformed, or fails grid
// validation against the capture dimensions. The pattern pass takes the
// first match in the raw text without validating it; an out-of-range pair
// is the caller's classification to make, not a parse failure.
func Extract(reply string, width, height int) (string, error) {
	if label, ok := structuredPass(reply, width, height); ok {
		return label, nil
	}

	if m := labelPattern.FindStringSubmatch(reply); m != nil {
		return normalizeLabel(m[1], m[2]), nil
	}

	return "", ErrNoTarget
}

func structuredPass(reply string, width, height int) (string, bool) {
	raw := sanitizeModelJSON(reply)
	if !strings.HasPrefix(raw, "{") {
		return "", false
	}

	var payload types.GridReply
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		// Conservative brace-slice retry for replies with trailing junk
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start < 0 || end <= start {
			return "", false
		}
		if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
			return "", false
		}
	}

	if payload.HexCoord == nil {
		return "", false
	}

	m := labelPattern.FindStringSubmatch(*payload.HexCoord)
	if m == nil {
		return "", false
	}

	label := normalizeLabel(m[1], m[2])
	if _, err := grid.ResolveLabel(label, width, height); err != nil {
		return "", false
	}

	return label, true
}

func normalizeLabel(x, y string) string {
	return strings.ToUpper(x) + "," + strings.ToUpper(y)
}

// sanitizeModelJSON removes code fences, comments and trailing commas, then
// keeps only the outermost JSON object embedded in the reply.
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")

	raw = reBlockComment.ReplaceAllString(raw, "")
	raw = reLineComment.ReplaceAllString(raw, "")
	raw = reTrailingComma.ReplaceAllString(raw, "$1")

	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}

var (
	reBlockComment  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reLineComment   = regexp.MustCompile(`(?m)^\s*//.*$`)
	reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)
