package scout

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/tripmaster/trip-scout/internal/domain"
)

// parseJSONLines decodes newline-delimited JSON objects. Lines that are not
// objects are skipped; lines that look like objects but fail to decode are
// logged and skipped, so one mangled line never loses the whole batch.
func parseJSONLines(text, scoutName string) []domain.ScoutItem {
	var items []domain.ScoutItem
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var item domain.ScoutItem
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			log.Printf("%s: failed to parse JSON line (%v): %.120s", scoutName, err, line)
			continue
		}
		items = append(items, item)
	}
	return items
}

// parseBatch decodes a full scout response. Newline-delimited objects are the
// contract, but models sometimes wrap the batch in a markdown fence or
// pretty-print it as one document; when no line parses, strip any fence and
// try a whole-document decode (array first, then a lone object) before giving
// up on the batch.
func parseBatch(text, scoutName string) []domain.ScoutItem {
	if items := parseJSONLines(text, scoutName); len(items) > 0 {
		return items
	}
	raw := stripFences(strings.TrimSpace(text))
	var list []domain.ScoutItem
	if err := json.Unmarshal([]byte(raw), &list); err == nil && len(list) > 0 {
		return list
	}
	var item domain.ScoutItem
	if err := json.Unmarshal([]byte(raw), &item); err == nil && len(item) > 0 {
		return []domain.ScoutItem{item}
	}
	return nil
}

// parseSingleItem handles a one-object response: first as a JSON line, then,
// after stripping any markdown fence, as a pretty-printed object.
func parseSingleItem(text, scoutName string) (domain.ScoutItem, bool) {
	raw := stripFences(strings.TrimSpace(text))
	if items := parseJSONLines(raw, scoutName); len(items) > 0 {
		return items[0], true
	}
	var item domain.ScoutItem
	if err := json.Unmarshal([]byte(raw), &item); err == nil && len(item) > 0 {
		return item, true
	}
	return nil, false
}

// stripFences unwraps output the model wrapped in a markdown code fence.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	parts := strings.SplitN(text, "```", 3)
	inner := text
	if len(parts) >= 2 {
		inner = parts[1]
	}
	inner = strings.TrimPrefix(inner, "json")
	return strings.TrimSpace(inner)
}
