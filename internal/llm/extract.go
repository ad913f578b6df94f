package llm

import "encoding/json"

// A strategy pulls assistant text out of one known response layout. Each is a
// pure function over the raw body; the first non-empty result wins.
type strategy func(raw []byte) string

// strategies, in priority order:
//  1. OpenAI / OpenWebUI chat: choices[0].message.content
//  2. OpenAI text completion: choices[0].text
//  3. Ollama /api/chat: message.content
//  4. Ollama /api/generate: response
//
// Append here to support a new backend; call sites never change.
var strategies = []strategy{
	fromChatChoices,
	fromChoiceText,
	fromMessage,
	fromResponse,
}

// ExtractContent returns the assistant text from raw, or "" when no known
// shape matches.
func ExtractContent(raw []byte) string {
	for _, s := range strategies {
		if text := s(raw); text != "" {
			return text
		}
	}
	return ""
}

func fromChatChoices(raw []byte) string {
	var v struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if json.Unmarshal(raw, &v) != nil || len(v.Choices) == 0 {
		return ""
	}
	return v.Choices[0].Message.Content
}

func fromChoiceText(raw []byte) string {
	var v struct {
		Choices []struct {
			Text string `json:"text"`
		} `json:"choices"`
	}
	if json.Unmarshal(raw, &v) != nil || len(v.Choices) == 0 {
		return ""
	}
	return v.Choices[0].Text
}

func fromMessage(raw []byte) string {
	var v struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if json.Unmarshal(raw, &v) != nil {
		return ""
	}
	return v.Message.Content
}

func fromResponse(raw []byte) string {
	var v struct {
		Response string `json:"response"`
	}
	if json.Unmarshal(raw, &v) != nil {
		return ""
	}
	return v.Response
}
