package app

import (
	"context"
	"strings"

	"chatdocs/internal/ai"
)

const synthesizerSystemPrompt = "You are a helpful assistant. Answer the user's question based only on the following context from the uploaded document. If the context does not contain enough information, say that the document does not contain the answer. Do not make up facts."

const emptyContextNote = "(no relevant passages were retrieved from the document)"

// Synthesizer produces an answer grounded in retrieved chunks using the
// "stuff" strategy: every retrieved chunk goes into one prompt, the model's
// completion is returned verbatim.
type Synthesizer struct {
	completer ai.Completer
}

func NewSynthesizer(completer ai.Completer) *Synthesizer {
	return &Synthesizer{completer: completer}
}

// Answer is always called, even with zero retrieved chunks; the empty-context
// prompt makes the model answer "not found" instead of this layer failing.
func (s *Synthesizer) Answer(ctx context.Context, question string, contextChunks []string) (string, error) {
	messages := []ai.ChatMessage{
		{Role: "system", Content: synthesizerSystemPrompt},
		{Role: "user", Content: buildStuffPrompt(question, contextChunks)},
	}

	answer, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = "The model returned an empty response."
	}
	return answer, nil
}

func buildStuffPrompt(question string, contextChunks []string) string {
	var contextBlock strings.Builder
	if len(contextChunks) == 0 {
		contextBlock.WriteString("\n" + emptyContextNote)
	}
	for _, c := range contextChunks {
		contextBlock.WriteString("\n---\n")
		contextBlock.WriteString(c)
	}
	if len(contextChunks) > 0 {
		contextBlock.WriteString("\n---")
	}

	return "Context:" + contextBlock.String() + "\n\nQuestion: " + question + "\n\nAnswer:"
}
