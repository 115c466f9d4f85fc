package embedding

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// maxBatchSize caps one EmbedContent call: the Gemini embedding API
// 400s above 100 inputs per call.
const maxBatchSize = 100

// GenAIEngine embeds chunks via Google's Gemini embedding models.
type GenAIEngine struct {
	client   *genai.Client
	model    string
	taskType string
	dims     int
}

// NewGenAIEngine constructs a GenAIEngine with working defaults for
// model and taskType.
func NewGenAIEngine(ctx context.Context, apiKey, model, taskType string) (*GenAIEngine, error) {
	if model == "" {
		model = "gemini-embedding-001"
	}
	if taskType == "" {
		taskType = "SEMANTIC_SIMILARITY"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GenAIEngine{client: client, model: model, taskType: taskType, dims: 768}, nil
}

func (e *GenAIEngine) Name() string    { return "genai:" + e.model }
func (e *GenAIEngine) Dimensions() int { return e.dims }

func (e *GenAIEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedWithTaskType(ctx, text, e.taskType)
}

func (e *GenAIEngine) EmbedWithTaskType(ctx context.Context, text, taskType string) ([]float32, error) {
	vectors, err := e.embedContents(ctx, []string{text}, taskType)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *GenAIEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) > maxBatchSize {
		return nil, fmt.Errorf("batch of %d exceeds genai max batch size %d", len(texts), maxBatchSize)
	}
	return e.embedContents(ctx, texts, e.taskType)
}

func (e *GenAIEngine) embedContents(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}
	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		TaskType: taskType,
	})
	if err != nil {
		return nil, fmt.Errorf("genai embed content: %w", err)
	}
	out := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		out[i] = emb.Values
	}
	if len(out) > 0 {
		e.dims = len(out[0])
	}
	return out, nil
}
