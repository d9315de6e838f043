package jira

import (
	"encoding/json"
	"strings"
)

// Section is a level-3 heading followed by one paragraph in an ADF document.
type Section struct {
	Heading string
	Body    string
}

// DescriptionToPlainText extracts plain text from Jira's ADF (Atlassian Document Format).
// Jira v3 API returns descriptions as ADF JSON, not plain text.
func DescriptionToPlainText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var doc struct {
		Type    string `json:"type"`
		Content []struct {
			Type    string `json:"type"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"content"`
	}

	if err := json.Unmarshal(raw, &doc); err != nil || doc.Type != "doc" {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		return string(raw)
	}

	var parts []string
	for _, block := range doc.Content {
		var line []string
		for _, inline := range block.Content {
			if inline.Text != "" {
				line = append(line, inline.Text)
			}
		}
		if len(line) > 0 {
			parts = append(parts, strings.Join(line, ""))
		}
	}

	return strings.Join(parts, "\n")
}

// PlainTextToADF converts plain text to an ADF document with one paragraph
// per line. Empty text yields nil.
func PlainTextToADF(text string) json.RawMessage {
	if text == "" {
		return nil
	}

	var content []interface{}
	for _, para := range strings.Split(text, "\n") {
		content = append(content, paragraph(para))
	}
	return marshalDoc(content)
}

// SectionsToADF renders sections as heading/paragraph pairs.
func SectionsToADF(sections []Section) json.RawMessage {
	content := make([]interface{}, 0, 2*len(sections))
	for _, s := range sections {
		content = append(content,
			map[string]interface{}{
				"type":    "heading",
				"attrs":   map[string]interface{}{"level": 3},
				"content": []interface{}{textNode(s.Heading)},
			},
			paragraph(s.Body),
		)
	}
	return marshalDoc(content)
}

func paragraph(text string) map[string]interface{} {
	if text == "" {
		return map[string]interface{}{
			"type":    "paragraph",
			"content": []interface{}{},
		}
	}
	return map[string]interface{}{
		"type":    "paragraph",
		"content": []interface{}{textNode(text)},
	}
}

func textNode(text string) map[string]interface{} {
	return map[string]interface{}{"type": "text", "text": text}
}

func marshalDoc(content []interface{}) json.RawMessage {
	doc := map[string]interface{}{
		"type":    "doc",
		"version": 1,
		"content": content,
	}
	data, _ := json.Marshal(doc)
	return data
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
