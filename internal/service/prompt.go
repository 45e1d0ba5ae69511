package service

import (
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tiktoken-go/tokenizer"

	"github.com/MYSTERY2804/kisan-sathi-sahyayak/internal/models"
)

// promptHeader is the fixed persona and instruction block.
const promptHeader = `You are Krish Mitra, an expert agricultural assistant designed to help farmers, agricultural researchers, and rural development workers in India. Your knowledge spans across farming techniques, crop diseases, government schemes, agricultural innovations, weather adaptation, and sustainable practices. Always provide information that's practical, actionable, and relevant to Indian agricultural conditions.

When responding:
1. Be conversational and respectful, addressing the user as a valued farmer or agricultural stakeholder
2. Include traditional knowledge where relevant alongside modern scientific approaches
3. Reference specific schemes, subsidies or programs available in India when appropriate
4. Explain concepts using simple language and practical examples
5. Consider regional and seasonal context in your advice
6. Be specific about crop varieties, fertilizers, or techniques that are approved and available in India`

// BuildPrompt renders the header, the numbered context block and either the
// bare question or the prior conversation followed by the question.
// Content is interpolated verbatim; nothing is escaped or truncated.
func BuildPrompt(question string, snippets []models.Snippet, history []models.Turn) string {
	var sb strings.Builder
	sb.WriteString(promptHeader)
	sb.WriteString("\n\nContext information:\n")
	sb.WriteString(FormatContext(snippets))

	if len(history) == 0 {
		sb.WriteString("\n\nQuestion: ")
		sb.WriteString(question)
		sb.WriteString("\nAnswer:")
		return sb.String()
	}

	sb.WriteString("\n\nPrevious conversation:\n")
	sb.WriteString(FormatHistory(history))
	sb.WriteString("\nUser: ")
	sb.WriteString(question)
	sb.WriteString("\nAssistant:")
	return sb.String()
}

// FormatContext joins snippets as "{n}. {title}:\n{content}" separated by a blank line.
func FormatContext(snippets []models.Snippet) string {
	parts := make([]string, len(snippets))
	for i, s := range snippets {
		parts[i] = strconv.Itoa(i+1) + ". " + s.Title + ":\n" + s.Content
	}
	return strings.Join(parts, "\n\n")
}

// FormatHistory renders one "User: …" / "Assistant: …" line per turn, in order.
// Every turn is kept, including an opening assistant greeting.
func FormatHistory(history []models.Turn) string {
	var sb strings.Builder
	for _, t := range history {
		if t.IsUser {
			sb.WriteString("User: ")
		} else {
			sb.WriteString("Assistant: ")
		}
		sb.WriteString(t.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

var (
	codecOnce sync.Once
	codec     tokenizer.Codec
)

// CountTokens estimates the prompt size with the cl100k encoding.
// It is only used for logging and returns -1 when the encoder is unavailable.
func CountTokens(text string) int {
	codecOnce.Do(func() {
		c, err := tokenizer.Get(tokenizer.Cl100kBase)
		if err != nil {
			log.Warn().Err(err).Msg("token encoder unavailable")
			return
		}
		codec = c
	})
	if codec == nil {
		return -1
	}
	ids, _, err := codec.Encode(text)
	if err != nil {
		return -1
	}
	return len(ids)
}
