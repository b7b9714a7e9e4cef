package rationale

import (
	"fmt"
	"strings"

	"mapkeeper/application/ports"
	"mapkeeper/domain/quote"
)

// DefaultSystemPrompt frames the model as the guide through the corpus.
const DefaultSystemPrompt = "You are Mapkeeper, a thoughtful guide through a reader's personal collection of highlighted quotes. You explain, briefly and concretely, why one quote makes a good next step after another."

// Defaults for completion options when the request does not override them.
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 300
)

// PromptConfig carries the caller's optional overrides for a single request.
type PromptConfig struct {
	SystemPrompt string
	Model        string
	Temperature  *float64
	MaxTokens    *int64
}

// systemPrompt resolves the effective system prompt.
func (c PromptConfig) systemPrompt() string {
	if c.SystemPrompt != "" {
		return c.SystemPrompt
	}
	return DefaultSystemPrompt
}

// options resolves the effective completion options.
func (c PromptConfig) options() ports.CompletionOptions {
	opts := ports.CompletionOptions{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
	if c.Model != "" {
		opts.Model = c.Model
	}
	if c.Temperature != nil {
		opts.Temperature = *c.Temperature
	}
	if c.MaxTokens != nil {
		opts.MaxTokens = *c.MaxTokens
	}
	return opts
}

// describe renders a quote for prompt text.
func describe(q quote.Quote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q", q.Text)
	if q.Author != "" {
		fmt.Fprintf(&b, " — %s", q.Author)
	}
	if q.BookTitle != "" {
		fmt.Fprintf(&b, ", %s", q.BookTitle)
	}
	return b.String()
}

// connectionPrompt builds the user message for a seed/suggestion pair. The
// explicit JSON instruction is what switches the AI client into structured
// output mode.
func connectionPrompt(seed *quote.Quote, suggestion quote.Quote) string {
	var b strings.Builder

	if seed != nil {
		fmt.Fprintf(&b, "The reader's current quote:\n%s\n\n", describe(*seed))
		fmt.Fprintf(&b, "The suggested next quote:\n%s\n\n", describe(suggestion))
		b.WriteString("Explain why the suggested quote is a good next step after the current one. ")
	} else {
		fmt.Fprintf(&b, "The reader's opening quote:\n%s\n\n", describe(suggestion))
		b.WriteString("Introduce this quote as the starting point of a reading journey. ")
	}

	b.WriteString(`Respond with a JSON object of this exact shape: {"title": string (at most 50 characters), "rationale": string (1-3 sentences), "labels": array containing one or more of "adjacent", "oblique", "wildcard"}.`)
	return b.String()
}

// narrationPrompt builds the user message for narrating an accepted path.
func narrationPrompt(path []quote.Quote) string {
	var b strings.Builder
	b.WriteString("The reader walked this path of quotes, in order:\n\n")
	for i, q := range path {
		fmt.Fprintf(&b, "%d. %s\n", i+1, describe(q))
	}
	b.WriteString("\nWrite a short narration (one paragraph) of the journey these quotes trace, as plain text.")
	return b.String()
}
