package rag

import (
	"bytes"
	"context"

	"backend/internal/logger"
	"backend/internal/rag/parsers"

	"go.uber.org/zap"
)

// RawDocument 构建期间临时持有的原始文档，提取完文本即丢弃
type RawDocument struct {
	Name string
	Data []byte
}

// BuildSummary 一次索引构建的统计结果
type BuildSummary struct {
	FilesProcessed int `json:"files_processed"`
	ChunksCreated  int `json:"chunks_created"`
}

// IndexBuilder 索引构建器
// 编排: 提取文本 -> 分块 -> 批量向量化 -> 原子写入索引存储。
// 构建永远是同步的全量替换，没有增量更新。
type IndexBuilder struct {
	parserRegistry *parsers.ParserRegistry
	chunker        *Chunker
	provider       EmbeddingProvider
	store          IndexStore
}

// NewIndexBuilder 创建索引构建器
func NewIndexBuilder(registry *parsers.ParserRegistry, chunker *Chunker, provider EmbeddingProvider, store IndexStore) *IndexBuilder {
	return &IndexBuilder{
		parserRegistry: registry,
		chunker:        chunker,
		provider:       provider,
		store:          store,
	}
}

// Build 为 (tenantID, collection) 全量构建索引
// 无可提取文本的文档计入 files_processed 但不贡献分块；
// 全部文档加起来没有任何分块时返回 KindEmptyCorpus，旧索引保持不动。
func (b *IndexBuilder) Build(ctx context.Context, tenantID, collection string, docs []RawDocument) (*BuildSummary, error) {
	units := make([]TextUnit, 0)
	filesProcessed := 0

	for _, doc := range docs {
		filesProcessed++

		pages, err := b.parserRegistry.Parse(doc.Name, bytes.NewReader(doc.Data))
		if err != nil {
			// 单份文档解析失败视为无可提取内容，不中断整次构建
			logger.Warn("文档解析失败",
				zap.String("tenant_id", tenantID),
				zap.String("collection", collection),
				zap.String("document", doc.Name),
				zap.Error(err),
			)
			continue
		}

		for _, page := range pages {
			units = append(units, TextUnit{
				Document: doc.Name,
				Page:     page.Number,
				Text:     page.Text,
			})
		}
	}

	chunks, err := b.chunker.Split(units)
	if err != nil {
		return nil, err
	}

	if len(chunks) == 0 {
		return nil, NewError(KindEmptyCorpus, "所有文档都没有可提取的文本内容")
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := b.provider.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}

	key := IndexKey{TenantID: tenantID, Collection: collection}
	if err := b.store.Write(key, b.provider.Model(), chunks, embeddings); err != nil {
		return nil, err
	}

	return &BuildSummary{
		FilesProcessed: filesProcessed,
		ChunksCreated:  len(chunks),
	}, nil
}
