package rag

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/ykhalidz/askdocs/internal/llm"
	"github.com/ykhalidz/askdocs/internal/vectordb"
)

const testDims = 8

// hashEmbedder derives deterministic unit vectors from the text itself so
// identical texts embed identically without a provider.
type hashEmbedder struct{}

func (hashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		sum := sha256.Sum256([]byte(text))
		v := make([]float32, testDims)
		var norm float64
		for j := range v {
			v[j] = float32(sum[j]) + 1
			norm += float64(v[j]) * float64(v[j])
		}
		norm = math.Sqrt(norm)
		for j := range v {
			v[j] = float32(float64(v[j]) / norm)
		}
		vecs[i] = v
	}
	return vecs, nil
}

func (hashEmbedder) Dimensions() int { return testDims }
func (hashEmbedder) Name() string    { return "hash-test" }

// stubStore returns scripted search results regardless of the query.
type stubStore struct {
	results []vectordb.SearchResult
	err     error
}

func (s *stubStore) EnsureIndex(context.Context, int, vectordb.Similarity) error { return nil }
func (s *stubStore) Upsert(context.Context, []vectordb.Record) error             { return nil }
func (s *stubStore) Delete(context.Context, string) error                        { return nil }
func (s *stubStore) Count(context.Context) (int, error)                          { return len(s.results), nil }
func (s *stubStore) Close(context.Context) error                                 { return nil }

func (s *stubStore) Search(_ context.Context, _ []float32, k int) ([]vectordb.SearchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if k <= 0 || len(s.results) == 0 {
		return nil, nil
	}
	if k > len(s.results) {
		k = len(s.results)
	}
	return s.results[:k], nil
}

// fakeProvider records the request and returns a canned completion.
type fakeProvider struct {
	lastReq llm.CompletionRequest
	reply   string
	err     error
}

func (f *fakeProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.reply}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func resultFixture(n int, textLen int) []vectordb.SearchResult {
	results := make([]vectordb.SearchResult, n)
	for i := range results {
		results[i] = vectordb.SearchResult{
			FragmentID: fmt.Sprintf("frag-%02d", i),
			Text:       strings.Repeat(string(rune('a'+i)), textLen),
			Metadata:   vectordb.Metadata{Source: "guide.pdf", Ordinal: i, TotalFragments: n},
			Score:      1 - float32(i)*0.1,
			Rank:       i + 1,
		}
	}
	return results
}

func TestAssembleContext_Budget(t *testing.T) {
	// Five 100-char fragments against a 200-char budget: exactly the top
	// two fit, the rest are dropped whole.
	results := resultFixture(5, 100)
	ctxt := assembleContext(results, 200)

	if len(ctxt.FragmentIDs) != 2 {
		t.Fatalf("included %d fragments, want 2", len(ctxt.FragmentIDs))
	}
	if ctxt.FragmentIDs[0] != "frag-00" || ctxt.FragmentIDs[1] != "frag-01" {
		t.Errorf("included %v, want the top-ranked two", ctxt.FragmentIDs)
	}
	if !strings.Contains(ctxt.Text, "guide.pdf") {
		t.Error("context text missing source provenance")
	}
	if strings.Contains(ctxt.Text, results[2].Text) {
		t.Error("context text contains a dropped fragment")
	}
	if ctxt.Empty() {
		t.Error("context with fragments reported empty")
	}
}

func TestAssembleContext_NoResults(t *testing.T) {
	ctxt := assembleContext(nil, 1000)
	if ctxt.Text != NoContextMarker {
		t.Errorf("text %q, want marker", ctxt.Text)
	}
	if !ctxt.Empty() {
		t.Error("marker context must report empty")
	}
}

func TestAssembleContext_TopFragmentOverBudget(t *testing.T) {
	results := resultFixture(3, 500)
	ctxt := assembleContext(results, 100)
	if ctxt.Text != NoContextMarker {
		t.Errorf("text %q, want marker when nothing fits", ctxt.Text)
	}
}

func TestAssembleContext_HeadersNotCounted(t *testing.T) {
	// Budget exactly equal to the fragment text length still admits the
	// fragment; the provenance header rides along for free.
	results := resultFixture(1, 100)
	ctxt := assembleContext(results, 100)
	if len(ctxt.FragmentIDs) != 1 {
		t.Fatalf("included %d fragments, want 1", len(ctxt.FragmentIDs))
	}
	if len(ctxt.Text) <= 100 {
		t.Error("expected header text in addition to the fragment")
	}
}

func TestRetriever_Retrieve(t *testing.T) {
	store := &stubStore{results: resultFixture(5, 50)}
	r := NewRetriever(hashEmbedder{}, store, RetrieverOptions{TopK: 3, MaxContextChars: 1000})

	ctxt, err := r.Retrieve(context.Background(), "what is the leave policy?")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(ctxt.FragmentIDs) != 3 {
		t.Errorf("got %d fragments, want topK=3", len(ctxt.FragmentIDs))
	}
}

func TestRetriever_MinScoreFilter(t *testing.T) {
	store := &stubStore{results: resultFixture(5, 50)} // scores 1.0 .. 0.6
	r := NewRetriever(hashEmbedder{}, store, RetrieverOptions{TopK: 5, MaxContextChars: 1000, MinScore: 0.75})

	ctxt, err := r.Retrieve(context.Background(), "question")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(ctxt.FragmentIDs) != 3 {
		t.Errorf("got %d fragments, want 3 at or above 0.75", len(ctxt.FragmentIDs))
	}
	for _, res := range ctxt.Results {
		if res.Score < 0.75 {
			t.Errorf("fragment %s with score %f passed the filter", res.FragmentID, res.Score)
		}
	}
}

func TestRetriever_EmptyStore(t *testing.T) {
	r := NewRetriever(hashEmbedder{}, &stubStore{}, RetrieverOptions{TopK: 5, MaxContextChars: 1000})

	ctxt, err := r.Retrieve(context.Background(), "question")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if !ctxt.Empty() || ctxt.Text != NoContextMarker {
		t.Errorf("empty store should yield marker context, got %+v", ctxt)
	}
}

func TestRetriever_SearchError(t *testing.T) {
	r := NewRetriever(hashEmbedder{}, &stubStore{err: errors.New("backend down")}, RetrieverOptions{TopK: 5, MaxContextChars: 1000})

	if _, err := r.Retrieve(context.Background(), "question"); err == nil {
		t.Fatal("expected error")
	}
}

func TestAnswerer_Ask(t *testing.T) {
	provider := &fakeProvider{reply: "The notice period is 30 days (guide.pdf)."}
	a := NewAnswerer(provider, "gpt-4o")

	ctxt := assembleContext(resultFixture(2, 50), 1000)
	answer, err := a.Ask(context.Background(), "what is the notice period?", ctxt)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if answer.Text != provider.reply {
		t.Errorf("answer text %q, want provider reply verbatim", answer.Text)
	}
	if len(answer.FragmentIDs) != 2 {
		t.Errorf("answer carries %d fragment IDs, want 2", len(answer.FragmentIDs))
	}

	if len(provider.lastReq.Messages) != 2 {
		t.Fatalf("got %d messages, want system + user", len(provider.lastReq.Messages))
	}
	if provider.lastReq.Messages[0].Role != llm.RoleSystem {
		t.Errorf("first message role %q, want system", provider.lastReq.Messages[0].Role)
	}
	user := provider.lastReq.Messages[1].Content
	if !strings.Contains(user, "what is the notice period?") {
		t.Error("user prompt missing the question")
	}
	if !strings.Contains(user, ctxt.Text) {
		t.Error("user prompt missing the assembled context")
	}
	if provider.lastReq.Temperature != 0 {
		t.Errorf("temperature %f, want 0", provider.lastReq.Temperature)
	}
}

func TestAnswerer_EmptyContextStillAsks(t *testing.T) {
	provider := &fakeProvider{reply: "I don't have that information in the documents"}
	a := NewAnswerer(provider, "gpt-4o")

	answer, err := a.Ask(context.Background(), "question", assembleContext(nil, 1000))
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(answer.FragmentIDs) != 0 {
		t.Errorf("empty context produced %d fragment IDs", len(answer.FragmentIDs))
	}
	if !strings.Contains(provider.lastReq.Messages[1].Content, NoContextMarker) {
		t.Error("user prompt missing the no-context marker")
	}
}

func TestAnswerer_ProviderError(t *testing.T) {
	a := NewAnswerer(&fakeProvider{err: errors.New("provider down")}, "gpt-4o")
	if _, err := a.Ask(context.Background(), "q", assembleContext(nil, 1000)); err == nil {
		t.Fatal("expected error")
	}
}
