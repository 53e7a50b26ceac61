package rag

import (
	"context"
	"fmt"

	"github.com/ykhalidz/askdocs/internal/llm"
)

// systemPrompt constrains the assistant to the supplied context. The
// wording matters: it is the fabrication mitigation.
const systemPrompt = `You are a helpful and professional assistant answering questions about a document collection.

Your responsibilities:
- Base all answers strictly on the provided context from the documents
- If the information is not in the context, clearly state: "I don't have that information in the documents"
- Be concise, accurate, and professional in your responses
- Always cite the source document when providing information

CRITICAL RULE: Never make up or infer information. Only use facts explicitly stated in the provided context.`

// Answer is the final response: the provider's text verbatim plus the
// identifiers of the fragments that were included in the grounding
// context, whether or not the text visibly cites them.
type Answer struct {
	Text        string
	FragmentIDs []string
}

// Answerer combines assembled context and a question into a grounding
// prompt and delegates generation to the external provider.
type Answerer struct {
	provider llm.Provider
	model    string
}

// NewAnswerer creates an Answerer using the given provider and model.
func NewAnswerer(provider llm.Provider, model string) *Answerer {
	return &Answerer{provider: provider, model: model}
}

// Ask answers the question from the assembled context. With an empty
// context the provider is still asked, so it can state that the documents
// hold no relevant information instead of the call failing.
func (a *Answerer) Ask(ctx context.Context, question string, ctxt *Context) (*Answer, error) {
	prompt := fmt.Sprintf(`Based on the following document excerpts, please answer the question.

CONTEXT FROM DOCUMENTS:
%s

QUESTION: %s

INSTRUCTIONS:
- Provide a clear, concise answer based ONLY on the information in the context above
- If the context doesn't contain enough information to answer, explicitly state that
- Cite the source document when providing information`, ctxt.Text, question)

	resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
		Model: a.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		Temperature: 0, // deterministic responses for consistent answers
	})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &Answer{
		Text:        resp.Content,
		FragmentIDs: ctxt.FragmentIDs,
	}, nil
}
