package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"doc2quiz-service/internal/models"
)

var (
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
	arrayPattern  = regexp.MustCompile(`(?s)\[.*\]`)
)

// ExtractJSON pulls the first JSON value out of free-form oracle text.
// Markdown code fences are stripped, then the whole text is tried as-is,
// then the widest {...} block, then the widest [...] block. The second
// return is false when nothing parseable was found.
func ExtractJSON(content string) (json.RawMessage, bool) {
	clean := stripFences(content)
	if clean == "" {
		return nil, false
	}

	if json.Valid([]byte(clean)) {
		return json.RawMessage(clean), true
	}
	if match := objectPattern.FindString(clean); match != "" && json.Valid([]byte(match)) {
		return json.RawMessage(match), true
	}
	if match := arrayPattern.FindString(clean); match != "" && json.Valid([]byte(match)) {
		return json.RawMessage(match), true
	}
	return nil, false
}

// stripFences drops a leading ```/```json line and a trailing ``` line.
func stripFences(content string) string {
	clean := strings.TrimSpace(content)
	if !strings.HasPrefix(clean, "```") {
		return clean
	}

	lines := strings.Split(clean, "\n")
	if strings.HasPrefix(strings.TrimSpace(lines[0]), "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// OutlineSource tags where in the extraction reply the outline was found.
// The oracle sometimes wraps the array in an object under an "items" or
// "directory" key instead of returning it bare.
type OutlineSource int

const (
	OutlineUnparseable OutlineSource = iota
	OutlineFromArray
	OutlineFromItemsKey
	OutlineFromDirectoryKey
)

// Outline is the decoded extraction reply. Call sites switch on Source;
// an OutlineUnparseable reply carries no items and means "nothing to
// merge", not a failure.
type Outline struct {
	Source OutlineSource
	Items  []models.OutlineItem
}

// ParseOutline decodes the extraction reply into the outline variants.
func ParseOutline(content string) Outline {
	raw, ok := ExtractJSON(content)
	if !ok {
		return Outline{Source: OutlineUnparseable}
	}

	var items []models.OutlineItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return Outline{Source: OutlineFromArray, Items: items}
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return Outline{Source: OutlineUnparseable}
	}
	if itemsRaw, ok := wrapped["items"]; ok {
		if err := json.Unmarshal(itemsRaw, &items); err == nil {
			return Outline{Source: OutlineFromItemsKey, Items: items}
		}
	}
	if directoryRaw, ok := wrapped["directory"]; ok {
		if err := json.Unmarshal(directoryRaw, &items); err == nil {
			return Outline{Source: OutlineFromDirectoryKey, Items: items}
		}
	}
	return Outline{Source: OutlineUnparseable}
}
