package session

// Normalize reduces a provider response value to text. The matchers are
// ordered and the first match wins; overlapping shapes resolve to the
// earliest rule:
//  1. a plain string is used directly;
//  2. an object whose .message.content is a string;
//  3. an object whose .message.content is a part array with a leading
//     text part;
//  4. a part array whose first element carries a string .text.
//
// Anything else is a *ShapeError carrying the raw value. The same rule is
// applied to full responses and to individual stream chunks.
func Normalize(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil

	case map[string]any:
		message, ok := v["message"].(map[string]any)
		if !ok {
			return "", &ShapeError{Raw: value}
		}
		switch content := message["content"].(type) {
		case string:
			return content, nil
		case []any:
			if text, ok := leadingTextPart(content); ok {
				return text, nil
			}
		}
		return "", &ShapeError{Raw: value}

	case []any:
		if len(v) == 0 {
			return "", &ShapeError{Raw: value}
		}
		if part, ok := v[0].(map[string]any); ok {
			if text, ok := part["text"].(string); ok {
				return text, nil
			}
		}
		return "", &ShapeError{Raw: value}

	default:
		return "", &ShapeError{Raw: value}
	}
}

// leadingTextPart extracts the text of the first part when it is a text
// part.
func leadingTextPart(parts []any) (string, bool) {
	if len(parts) == 0 {
		return "", false
	}
	part, ok := parts[0].(map[string]any)
	if !ok || part["type"] != "text" {
		return "", false
	}
	text, ok := part["text"].(string)
	return text, ok
}
