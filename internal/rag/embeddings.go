package rag

import "context"

// EmbeddingProvider 抽象向量化服务的统一接口
// 实现必须保持输出与输入的顺序一致，失败时直接上抛（重试策略由调用方决定）。
type EmbeddingProvider interface {
	// Embed 向量化单条文本（查询时使用）
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch 批量向量化（建索引时使用）
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Model 返回使用的模型名称
	Model() string
}
