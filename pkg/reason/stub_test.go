package reason

import (
	"context"
	"errors"

	"github.com/trailhead-ai/trailhead/backend/pkg/ai"
	"github.com/trailhead-ai/trailhead/backend/pkg/common"
	"github.com/trailhead-ai/trailhead/backend/pkg/store"
)

// stubAIClient implements ai.GraphAIClient with programmable behavior.
type stubAIClient struct {
	completionFn func(name string, out any) error
	embedFn      func(input string) ([]float32, error)
	chatFn       func(messages []ai.ChatMessage) (string, error)
}

func (c *stubAIClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	return "", errors.New("not implemented")
}

func (c *stubAIClient) GenerateCompletionWithFormat(ctx context.Context, name string, description string, prompt string, out any, opts ...ai.GenerateOption) error {
	if c.completionFn == nil {
		return errors.New("no completion configured")
	}
	return c.completionFn(name, out)
}

func (c *stubAIClient) GenerateChat(ctx context.Context, messages []ai.ChatMessage, opts ...ai.GenerateOption) (string, error) {
	if c.chatFn == nil {
		return "", errors.New("no chat configured")
	}
	return c.chatFn(messages)
}

func (c *stubAIClient) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	if c.embedFn == nil {
		return nil, errors.New("no embedding configured")
	}
	return c.embedFn(string(input))
}

func (c *stubAIClient) ResetMetrics() {}

func (c *stubAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

// extractStub returns a completion function that fills the extraction
// response with the given entities.
func extractStub(entities ...string) func(name string, out any) error {
	return func(name string, out any) error {
		res, ok := out.(*extractResponse)
		if !ok {
			return errors.New("unexpected output type")
		}
		res.Entities = entities
		return nil
	}
}

// constantEmbedding makes every embedding call return the same vector, so
// every path scores with cosine similarity 1 against the question.
func constantEmbedding(vec []float32) func(input string) ([]float32, error) {
	return func(input string) ([]float32, error) {
		return append([]float32(nil), vec...), nil
	}
}

// failingStore wraps a store.GraphStore and fails selected operations.
type failingStore struct {
	store.GraphStore

	matchErr       error
	findErr        error
	edgesErrEntity string
}

func (s *failingStore) MatchNodes(ctx context.Context, substring string, limit int) ([]string, error) {
	if s.matchErr != nil {
		return nil, s.matchErr
	}
	return s.GraphStore.MatchNodes(ctx, substring, limit)
}

func (s *failingStore) FindPaths(ctx context.Context, start string, maxHops int, limit int) ([]common.Path, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.GraphStore.FindPaths(ctx, start, maxHops, limit)
}

func (s *failingStore) OutgoingEdges(ctx context.Context, name string, limit int) ([]common.Edge, error) {
	if s.edgesErrEntity != "" && common.NodeKey(name) == common.NodeKey(s.edgesErrEntity) {
		return nil, errors.New("edge query failed")
	}
	return s.GraphStore.OutgoingEdges(ctx, name, limit)
}
