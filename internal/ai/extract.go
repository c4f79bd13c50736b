package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON pulls the first balanced {...} or [...] substring out of free
// model text and unmarshals it into v. Models wrap JSON in prose and code
// fences often enough that assuming a clean payload is a bug.
func ExtractJSON(text string, v interface{}) error {
	raw, err := firstJSONBlock(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("malformed json in model output: %w", err)
	}
	return nil
}

func firstJSONBlock(text string) (string, error) {
	objStart := strings.IndexByte(text, '{')
	arrStart := strings.IndexByte(text, '[')

	start := objStart
	open, close := byte('{'), byte('}')
	if start == -1 || (arrStart != -1 && arrStart < start) {
		start = arrStart
		open, close = '[', ']'
	}
	if start == -1 {
		return "", fmt.Errorf("no json object found in model output")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unbalanced json in model output")
}
