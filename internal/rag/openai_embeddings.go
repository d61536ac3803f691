package rag

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// OpenAIEmbeddingProvider 基于 OpenAI 兼容端点的向量化实现
type OpenAIEmbeddingProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbeddingProvider 创建向量化提供者
// model 为空时默认使用 text-embedding-3-small
func NewOpenAIEmbeddingProvider(client *openai.Client, model string) *OpenAIEmbeddingProvider {
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	return &OpenAIEmbeddingProvider{client: client, model: model}
}

// Embed 将单条文本转换为向量
func (p *OpenAIEmbeddingProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, NewError(KindEmbeddingProvider, "待向量化文本不能为空")
	}

	vectors, err := p.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch 批量向量化文本，输出顺序与输入保持一致
// API 单次请求最多接受 2048 条输入，超出时分批处理。
func (p *OpenAIEmbeddingProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	const batchSize = 2048
	all := make([][]float32, 0, len(texts))

	for i := 0; i < len(texts); i += batchSize {
		end := i + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := p.embed(ctx, texts[i:end])
		if err != nil {
			return nil, err
		}
		all = append(all, vectors...)
	}

	return all, nil
}

// embed 调用 Embeddings API 并校验返回数量
func (p *OpenAIEmbeddingProvider) embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(p.model),
	})
	if err != nil {
		return nil, WrapError(KindEmbeddingProvider, "调用 Embeddings API 失败", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, NewError(KindEmbeddingProvider, "Embeddings API 返回向量数量与输入不匹配")
	}

	vectors := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		vectors[i] = data.Embedding
	}
	return vectors, nil
}

// Model 返回当前使用的模型
func (p *OpenAIEmbeddingProvider) Model() string {
	return p.model
}
