package rationale

import (
	"fmt"

	"mapkeeper/domain/quote"
	pkgerrors "mapkeeper/pkg/errors"
)

// Fallback rationale texts, selected by error kind. These are deterministic
// substitutes so the user-facing flow never stalls on an AI failure.
const (
	fallbackAuthText        = "The connection engine could not reach its AI service: the credential was rejected. Check your API key. In the meantime, this quote sits close to your last one in the corpus."
	fallbackUpstreamBusy    = "The AI service is handling too many requests right now. Try again shortly. For now, this quote is a near neighbor of your last one."
	fallbackNetworkText     = "The AI service could not be reached, so here is the short version: this quote sits near your last one in the corpus and continues its line of thought."
	fallbackRateLimitedText = "You are exploring quickly! The connection engine is pausing its AI calls for a moment, but this quote is a close neighbor of your last one."
)

// fallbackTitle derives a degraded title from the suggestion.
func fallbackTitle(suggestion quote.Quote) string {
	if suggestion.Author != "" {
		return fmt.Sprintf("Next: %s", suggestion.Author)
	}
	return "A nearby quote"
}

// degraded builds the fallback rationale for a locally rate-limited request.
func degraded(suggestion quote.Quote) quote.Rationale {
	return quote.Rationale{
		Title:     fallbackTitle(suggestion),
		Rationale: fallbackRateLimitedText,
		Labels:    []string{quote.LabelAdjacent},
	}
}

// degradedFor maps an AI client failure onto a fallback rationale. Degraded
// results are never cached.
func degradedFor(err error, suggestion quote.Quote) quote.Rationale {
	text := fallbackNetworkText
	switch {
	case pkgerrors.IsUnauthorized(err):
		text = fallbackAuthText
	case pkgerrors.IsRateLimit(err):
		text = fallbackUpstreamBusy
	}

	return quote.Rationale{
		Title:     fallbackTitle(suggestion),
		Rationale: text,
		Labels:    []string{quote.LabelAdjacent},
	}
}

// fallbackNarration is the deterministic substitute for a failed path
// narration.
func fallbackNarration(path []quote.Quote) string {
	if len(path) == 1 {
		return fmt.Sprintf("Your journey begins with a single waypoint: %q.", path[0].Text)
	}
	return fmt.Sprintf(
		"Your path winds through %d waypoints, opening with %q and arriving, for now, at %q.",
		len(path), path[0].Text, path[len(path)-1].Text,
	)
}
