package mutate

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/pinpoint/core"
	"github.com/termfx/pinpoint/parser"
)

// displayKeys are object keys whose values are treated as an entry's
// rendered text when pruning collection literals.
var displayKeys = map[string]struct{}{
	"label": {}, "title": {}, "text": {}, "name": {}, "value": {},
	"heading": {}, "content": {}, "id": {}, "body": {}, "description": {},
}

// DeleteArrayEntry removes a literal entry matching identifier from an
// array literal: a string or template element whose text matches, or —
// when allowObjects is set — an object element with a display-keyed string
// property matching. Returns false when no entry matched.
func DeleteArrayEntry(t *parser.Tree, identifier string, allowObjects bool) (bool, error) {
	target := core.Normalize(identifier)
	if target == "" {
		return false, nil
	}

	var hit *sitter.Node

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if hit != nil {
			return
		}
		if node.Type() == "array" {
			for i := 0; i < int(node.NamedChildCount()); i++ {
				el := node.NamedChild(i)
				if arrayEntryMatches(t, el, target, allowObjects) {
					hit = el
					return
				}
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(t.Root())

	if hit == nil {
		return false, nil
	}

	start, end := entryRangeWithComma(t.Source(), hit.StartByte(), hit.EndByte())
	if err := t.Splice(start, end, nil); err != nil {
		return false, err
	}
	return true, nil
}

func arrayEntryMatches(t *parser.Tree, el *sitter.Node, target string, allowObjects bool) bool {
	switch el.Type() {
	case "string":
		text := t.Text(el)
		if len(text) >= 2 {
			return textMatches(text[1:len(text)-1], target)
		}
	case "template_string":
		return textMatches(strings.Trim(t.Text(el), "`"), target)
	case "object":
		if !allowObjects {
			return false
		}
		for i := 0; i < int(el.NamedChildCount()); i++ {
			pair := el.NamedChild(i)
			if pair.Type() != "pair" {
				continue
			}
			key := pair.ChildByFieldName("key")
			value := pair.ChildByFieldName("value")
			if key == nil || value == nil {
				continue
			}
			keyText := strings.Trim(t.Text(key), "\"'`")
			if _, ok := displayKeys[keyText]; !ok {
				continue
			}
			if value.Type() == "string" {
				raw := t.Text(value)
				if len(raw) >= 2 && textMatches(raw[1:len(raw)-1], target) {
					return true
				}
			}
		}
	}
	return false
}

func textMatches(raw, normalizedTarget string) bool {
	value := core.Normalize(raw)
	return value == normalizedTarget || strings.Contains(value, normalizedTarget)
}

// entryRangeWithComma extends an array element's range over its trailing
// comma, or the preceding one for a final element, plus the whitespace
// that would otherwise be stranded.
func entryRangeWithComma(src []byte, start, end uint32) (uint32, uint32) {
	e := end
	for int(e) < len(src) && (src[e] == ' ' || src[e] == '\t' || src[e] == '\n') {
		e++
	}
	if int(e) < len(src) && src[e] == ',' {
		end = e + 1
		for int(end) < len(src) && (src[end] == ' ' || src[end] == '\t') {
			end++
		}
		if int(end) < len(src) && src[end] == '\n' {
			end++
		}
		for start > 0 && (src[start-1] == ' ' || src[start-1] == '\t') {
			start--
		}
		return start, end
	}

	s := start
	for s > 0 && (src[s-1] == ' ' || src[s-1] == '\t' || src[s-1] == '\n') {
		s--
	}
	if s > 0 && src[s-1] == ',' {
		start = s - 1
	}
	return start, end
}
