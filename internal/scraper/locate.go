package scraper

import (
	"encoding/json"
	"math"
	"strings"

	"wordreel/internal/models"
)

// locatorTemplate walks every text node under body and returns the document
// coordinates of each whole-word, case-insensitive match whose parent element
// is rendered. __WORD__ is replaced by a JSON string literal.
const locatorTemplate = `(() => {
	const word = __WORD__;
	const escaped = word.replace(/[.*+?^${}()|[\]\\]/g, '\\$&');
	const regex = new RegExp('\\b' + escaped + '\\b', 'gi');
	const walker = document.createTreeWalker(document.body, NodeFilter.SHOW_TEXT, null);
	const boxes = [];
	let node;
	while ((node = walker.nextNode())) {
		const parent = node.parentElement;
		if (!parent || !(parent.offsetWidth > 0 && parent.offsetHeight > 0)) {
			continue;
		}
		const text = node.nodeValue || '';
		regex.lastIndex = 0;
		let match;
		while ((match = regex.exec(text)) !== null) {
			if (match[0].length === 0) {
				regex.lastIndex++;
				continue;
			}
			const range = document.createRange();
			range.setStart(node, match.index);
			range.setEnd(node, match.index + match[0].length);
			const rect = range.getBoundingClientRect();
			boxes.push({
				x: rect.x + window.scrollX,
				y: rect.y + window.scrollY,
				width: rect.width,
				height: rect.height,
			});
		}
	}
	return boxes;
})()`

// LocatorScript builds the in-page query for word. The word is embedded as a
// JSON string and regex-escaped in the page, so it always matches literally.
func LocatorScript(word string) string {
	literal, err := json.Marshal(word)
	if err != nil {
		// Marshalling a string cannot fail
		literal = []byte(`""`)
	}
	return strings.Replace(locatorTemplate, "__WORD__", string(literal), 1)
}

type boxKey struct {
	x, y float64
}

// Dedupe keeps the first box for every rounded (x, y) position, preserving
// order. Rounding is half to even.
func Dedupe(boxes []models.Box) []models.Box {
	seen := make(map[boxKey]struct{}, len(boxes))
	unique := make([]models.Box, 0, len(boxes))

	for _, b := range boxes {
		key := boxKey{x: math.RoundToEven(b.X), y: math.RoundToEven(b.Y)}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, b)
	}

	return unique
}
