package rationale

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"mapkeeper/application/ports"
	"mapkeeper/domain/quote"
	pkgerrors "mapkeeper/pkg/errors"
)

// stubCache is an in-memory ports.ResponseCache double
type stubCache struct {
	items map[string]quote.Rationale
	sets  int
}

func newStubCache() *stubCache {
	return &stubCache{items: make(map[string]quote.Rationale)}
}

func (c *stubCache) Get(key string) (quote.Rationale, bool) {
	r, ok := c.items[key]
	return r, ok
}

func (c *stubCache) Set(key string, value quote.Rationale) {
	c.items[key] = value
	c.sets++
}

// stubLimiter is a ports.RateLimiter double with a fixed answer
type stubLimiter struct {
	allow bool
	calls int
}

func (l *stubLimiter) Allow(key string) bool {
	l.calls++
	return l.allow
}

// stubClient is a ports.AIClient double returning canned content or an error
type stubClient struct {
	content string
	err     error
	calls   int
}

func (c *stubClient) Complete(ctx context.Context, messages []ports.Message, opts ports.CompletionOptions) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.content, nil
}

var (
	seedQuote = quote.Quote{ID: "q1", Text: "the unexamined life is not worth living", Author: "Socrates"}
	nextQuote = quote.Quote{ID: "q2", Text: "know thyself", Author: "Socrates"}
)

func newTestService(cache *stubCache, limiter *stubLimiter, client *stubClient) *Service {
	return NewService(cache, limiter, client, zap.NewNop())
}

func TestExplain_SuccessIsCachedAndIdempotent(t *testing.T) {
	cache := newStubCache()
	limiter := &stubLimiter{allow: true}
	client := &stubClient{content: `{"title":"Know the examiner","rationale":"Both quotes ask who is doing the looking.","labels":["adjacent","oblique"]}`}
	svc := newTestService(cache, limiter, client)

	first := svc.Explain(context.Background(), &seedQuote, nextQuote, PromptConfig{}, "client-a")
	second := svc.Explain(context.Background(), &seedQuote, nextQuote, PromptConfig{}, "client-a")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.calls, "warm cache must not trigger a second AI call")
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, "Know the examiner", first.Title)
	assert.Equal(t, []string{"adjacent", "oblique"}, first.Labels)
}

func TestExplain_CacheHitSkipsRateLimiter(t *testing.T) {
	cache := newStubCache()
	cached := quote.Rationale{Title: "Cached", Rationale: "from an earlier call", Labels: []string{"adjacent"}}
	cache.items[cacheKey("q2", DefaultSystemPrompt)] = cached

	limiter := &stubLimiter{allow: false}
	client := &stubClient{}
	svc := newTestService(cache, limiter, client)

	got := svc.Explain(context.Background(), &seedQuote, nextQuote, PromptConfig{}, "client-a")

	assert.Equal(t, cached, got)
	assert.Zero(t, limiter.calls, "cache hit must not consult the limiter")
	assert.Zero(t, client.calls)
}

func TestExplain_RateLimitedDegradesWithoutAICall(t *testing.T) {
	cache := newStubCache()
	limiter := &stubLimiter{allow: false}
	client := &stubClient{}
	svc := newTestService(cache, limiter, client)

	got := svc.Explain(context.Background(), &seedQuote, nextQuote, PromptConfig{}, "client-a")

	assert.Equal(t, []string{quote.LabelAdjacent}, got.Labels)
	assert.Equal(t, fallbackRateLimitedText, got.Rationale)
	assert.Zero(t, client.calls)
	assert.Zero(t, cache.sets, "degraded results must not be cached")
}

func TestExplain_UnauthorizedUpstream(t *testing.T) {
	cache := newStubCache()
	limiter := &stubLimiter{allow: true}
	client := &stubClient{err: pkgerrors.NewUnauthorizedError("upstream rejected credentials")}
	svc := newTestService(cache, limiter, client)

	got := svc.Explain(context.Background(), &seedQuote, nextQuote, PromptConfig{}, "client-a")

	assert.Equal(t, fallbackAuthText, got.Rationale)
	assert.Contains(t, got.Rationale, "Check your API key")
	assert.Equal(t, []string{quote.LabelAdjacent}, got.Labels)
	assert.Zero(t, cache.sets)
}

func TestExplain_UpstreamRateLimited(t *testing.T) {
	svc := newTestService(newStubCache(), &stubLimiter{allow: true}, &stubClient{
		err: (&pkgerrors.AppError{Type: pkgerrors.ErrorTypeRateLimit, Message: "upstream rate limited"}),
	})

	got := svc.Explain(context.Background(), &seedQuote, nextQuote, PromptConfig{}, "client-a")
	assert.Equal(t, fallbackUpstreamBusy, got.Rationale)
}

func TestExplain_GenericFailure(t *testing.T) {
	svc := newTestService(newStubCache(), &stubLimiter{allow: true}, &stubClient{
		err: pkgerrors.NewUpstreamError("boom", errors.New("connection reset")),
	})

	got := svc.Explain(context.Background(), &seedQuote, nextQuote, PromptConfig{}, "client-a")
	assert.Equal(t, fallbackNetworkText, got.Rationale)
	assert.Equal(t, []string{quote.LabelAdjacent}, got.Labels)
}

func TestExplain_PromptPartitionsCache(t *testing.T) {
	cache := newStubCache()
	limiter := &stubLimiter{allow: true}
	client := &stubClient{content: `{"title":"T","rationale":"R.","labels":["wildcard"]}`}
	svc := newTestService(cache, limiter, client)

	svc.Explain(context.Background(), &seedQuote, nextQuote, PromptConfig{}, "client-a")
	svc.Explain(context.Background(), &seedQuote, nextQuote, PromptConfig{SystemPrompt: "Be terse."}, "client-a")

	assert.Equal(t, 2, client.calls, "different prompts must cache independently")
	assert.Equal(t, 2, cache.sets)
}

func TestNormalize(t *testing.T) {
	r := normalize(quote.Rationale{
		Title:     "  ",
		Rationale: " Both circle the same doubt. ",
		Labels:    []string{"Adjacent", "tangent", " WILDCARD "},
	}, nextQuote)

	assert.Equal(t, "Next: Socrates", r.Title)
	assert.Equal(t, "Both circle the same doubt.", r.Rationale)
	assert.Equal(t, []string{"adjacent", "wildcard"}, r.Labels)

	empty := normalize(quote.Rationale{Labels: []string{"nope"}}, quote.Quote{ID: "x", Text: "t"})
	assert.Equal(t, []string{quote.LabelAdjacent}, empty.Labels)
	assert.Equal(t, "A nearby quote", empty.Title)
}

func TestNarrate_Success(t *testing.T) {
	client := &stubClient{content: "  A short journey from doubt to knowledge.  "}
	svc := newTestService(newStubCache(), &stubLimiter{allow: true}, client)

	got := svc.Narrate(context.Background(), []quote.Quote{seedQuote, nextQuote}, PromptConfig{}, "client-a")
	assert.Equal(t, "A short journey from doubt to knowledge.", got)
}

func TestNarrate_DegradesOnFailure(t *testing.T) {
	svc := newTestService(newStubCache(), &stubLimiter{allow: true}, &stubClient{
		err: pkgerrors.NewUpstreamError("boom", nil),
	})

	got := svc.Narrate(context.Background(), []quote.Quote{seedQuote, nextQuote}, PromptConfig{}, "client-a")
	assert.Contains(t, got, "2 waypoints")
}

func TestNarrate_RateLimited(t *testing.T) {
	client := &stubClient{content: "never used"}
	svc := newTestService(newStubCache(), &stubLimiter{allow: false}, client)

	got := svc.Narrate(context.Background(), []quote.Quote{seedQuote}, PromptConfig{}, "client-a")
	assert.Contains(t, got, "single waypoint")
	assert.Zero(t, client.calls)
}
