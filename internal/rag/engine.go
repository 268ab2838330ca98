package rag

import (
	"context"
	"fmt"

	"paperchat/internal/contextutil"
	"paperchat/internal/index"
	"paperchat/internal/llm"
	"paperchat/internal/prompt"
	"paperchat/internal/retriever"
)

// Engine answers questions about scoped papers using retrieval-augmented
// generation.
type Engine interface {
	// Ask retrieves relevant chunks for the scoped papers and generates an answer.
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
	// AskStream behaves like Ask but forwards answer fragments to the callback
	// as they arrive. The caller cancels by returning an error from the
	// callback or cancelling the context.
	AskStream(ctx context.Context, req AskRequest, callback func(fragment string) error) ([]Reference, error)
}

// AskRequest is a question scoped to a set of paper note paths.
type AskRequest struct {
	Question string   `json:"question"`
	Papers   []string `json:"papers"`
}

// Reference points at a chunk that was fed to the model.
type Reference struct {
	Path          string `json:"path"`
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	SectionLabel  string `json:"section_label,omitempty"`
	PositionIndex int    `json:"position_index"`
}

// AskResponse carries the generated answer and its supporting chunks.
type AskResponse struct {
	Answer     string      `json:"answer"`
	References []Reference `json:"references"`
}

const (
	noContextMessage = "I couldn't find any indexed content for those papers to answer this question."
	// completionFailureMessage stands in for the assistant response when the
	// completion service fails; retrieval-side failures never crash a chat.
	completionFailureMessage = "Sorry, the language model request failed. Please try again."
)

type engine struct {
	retriever *retriever.Retriever
	llmClient *llm.Client
}

// NewEngine creates a new RAG engine.
func NewEngine(r *retriever.Retriever, llmClient *llm.Client) Engine {
	return &engine{retriever: r, llmClient: llmClient}
}

func (e *engine) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	chunks, prompted, err := e.preparePrompt(ctx, req)
	if err != nil {
		return AskResponse{}, err
	}
	if len(chunks) == 0 {
		return AskResponse{Answer: noContextMessage, References: []Reference{}}, nil
	}

	logger := contextutil.LoggerFromContext(ctx)
	answer, err := e.llmClient.Complete(ctx, prompted)
	if err != nil {
		logger.ErrorContext(ctx, "completion failed", "error", err)
		return AskResponse{Answer: completionFailureMessage, References: referencesFor(chunks)}, nil
	}

	return AskResponse{Answer: answer, References: referencesFor(chunks)}, nil
}

func (e *engine) AskStream(ctx context.Context, req AskRequest, callback func(fragment string) error) ([]Reference, error) {
	chunks, prompted, err := e.preparePrompt(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return []Reference{}, callback(noContextMessage)
	}

	logger := contextutil.LoggerFromContext(ctx)
	if err := e.llmClient.StreamComplete(ctx, prompted, callback); err != nil {
		logger.ErrorContext(ctx, "streaming completion failed", "error", err)
		return referencesFor(chunks), callback(completionFailureMessage)
	}
	return referencesFor(chunks), nil
}

// preparePrompt runs retrieval and prompt assembly shared by both ask paths.
func (e *engine) preparePrompt(ctx context.Context, req AskRequest) ([]index.Chunk, string, error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "RAG query started", "question", req.Question, "papers", req.Papers)

	chunks, err := e.retriever.Retrieve(ctx, req.Question, req.Papers)
	if err != nil {
		return nil, "", fmt.Errorf("retrieval failed: %w", err)
	}
	if len(chunks) == 0 {
		return nil, "", nil
	}

	prompted := prompt.Build(req.Question, chunks)
	logger.DebugContext(ctx, "prompt assembled", "chunks", len(chunks), "prompt_length", len(prompted))
	return chunks, prompted, nil
}

func referencesFor(chunks []index.Chunk) []Reference {
	refs := make([]Reference, 0, len(chunks))
	for _, c := range chunks {
		refs = append(refs, Reference{
			Path:          c.DocumentPath,
			Name:          c.DocumentName,
			Kind:          string(c.Kind),
			SectionLabel:  c.SectionLabel,
			PositionIndex: c.PositionIndex,
		})
	}
	return refs
}
