package rag

import (
	"context"
	"time"

	"backend/internal/logger"
	"backend/internal/metrics"
	"backend/internal/rag/parsers"
	"backend/internal/storage"

	"go.uber.org/zap"
)

// DocumentSource 抽象文档来源（对象存储）
type DocumentSource interface {
	ListFolder(ctx context.Context, tenantID, folder string) ([]storage.Entry, error)
	ListFolders(ctx context.Context, tenantID string) ([]string, error)
	Fetch(ctx context.Context, objectKey string) ([]byte, error)
}

// IndexSummary 索引构建的对外结果
type IndexSummary struct {
	Status         string `json:"status"`
	Folder         string `json:"folder"`
	FilesProcessed int    `json:"files_processed"`
	ChunksCreated  int    `json:"chunks_created"`
}

// ChatResult 一次问答的对外结果
type ChatResult struct {
	Answer   string `json:"answer"`
	Folder   string `json:"folder"`
	TenantID string `json:"tenant_id"`
}

// Service RAG 服务门面
// 持有全部核心组件；每个请求都是独立的工作单元，
// 查询时加载各自的索引快照，不在请求间共享可变索引。
type Service struct {
	source         DocumentSource
	parserRegistry *parsers.ParserRegistry
	builder        *IndexBuilder
	coordinator    *BuildCoordinator
	store          IndexStore
	provider       EmbeddingProvider
	retriever      *Retriever
	synthesizer    *Synthesizer
}

// NewService 创建 RAG 服务
func NewService(
	source DocumentSource,
	registry *parsers.ParserRegistry,
	builder *IndexBuilder,
	coordinator *BuildCoordinator,
	store IndexStore,
	provider EmbeddingProvider,
	retriever *Retriever,
	synthesizer *Synthesizer,
) *Service {
	return &Service{
		source:         source,
		parserRegistry: registry,
		builder:        builder,
		coordinator:    coordinator,
		store:          store,
		provider:       provider,
		retriever:      retriever,
		synthesizer:    synthesizer,
	}
}

// IndexFolder 为租户的一个文件夹全量构建索引
// 同一 (租户, 文件夹) 上的并发构建会立即失败（KindBuildInProgress）。
func (s *Service) IndexFolder(ctx context.Context, tenantID, folder string) (*IndexSummary, error) {
	start := time.Now()

	entries, err := s.source.ListFolder(ctx, tenantID, folder)
	if err != nil {
		metrics.ObserveIndexBuild("error", time.Since(start))
		return nil, err
	}

	// 只保留可识别类型的文件，跳过占位对象和文件夹标记
	files := make([]storage.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Kind != storage.EntryFile || e.Name == ".placeholder" {
			continue
		}
		if !s.parserRegistry.Recognized(e.Name) {
			continue
		}
		files = append(files, e)
	}

	if len(files) == 0 {
		metrics.ObserveIndexBuild("not_found", time.Since(start))
		return nil, NewError(KindNotFound, "文件夹 '"+folder+"' 中没有可索引的文档")
	}

	key := IndexKey{TenantID: tenantID, Collection: folder}
	var summary *BuildSummary

	err = s.coordinator.WithLock(key, func() error {
		docs := make([]RawDocument, 0, len(files))
		for _, f := range files {
			data, err := s.source.Fetch(ctx, storage.ObjectKey(tenantID, folder, f.Name))
			if err != nil {
				return err
			}
			docs = append(docs, RawDocument{Name: f.Name, Data: data})
		}

		var err error
		summary, err = s.builder.Build(ctx, tenantID, folder, docs)
		return err
	})
	if err != nil {
		metrics.ObserveIndexBuild(KindOf(err).String(), time.Since(start))
		return nil, err
	}

	metrics.ObserveIndexBuild("indexed", time.Since(start))
	logger.WithContext(ctx).Info("索引构建完成",
		zap.String("tenant_id", tenantID),
		zap.String("folder", folder),
		zap.Int("files_processed", summary.FilesProcessed),
		zap.Int("chunks_created", summary.ChunksCreated),
	)

	return &IndexSummary{
		Status:         "indexed",
		Folder:         folder,
		FilesProcessed: summary.FilesProcessed,
		ChunksCreated:  summary.ChunksCreated,
	}, nil
}

// Chat 基于某个文件夹的索引回答问题
// 文件夹未建立索引时直接返回 KindNotFound，不会触发任何模型调用。
func (s *Service) Chat(ctx context.Context, tenantID, folder, question string) (*ChatResult, error) {
	key := IndexKey{TenantID: tenantID, Collection: folder}

	if !s.store.Exists(key) {
		metrics.ObserveQuery("not_found")
		return nil, NewError(KindNotFound, "文件夹 '"+folder+"' 尚未建立索引，请先执行索引构建")
	}

	queryVector, err := s.provider.Embed(ctx, question)
	if err != nil {
		metrics.ObserveQuery("error")
		return nil, err
	}

	// 每次查询加载自己的索引快照；写入是原子替换，
	// 并发读取要么看到旧索引，要么看到新索引，不会看到中间态
	idx, err := s.store.Load(key)
	if err != nil {
		metrics.ObserveQuery("error")
		return nil, err
	}

	result := s.retriever.Retrieve(idx, queryVector)

	answer, err := s.synthesizer.Answer(ctx, question, result)
	if err != nil {
		metrics.ObserveQuery("error")
		return nil, err
	}

	metrics.ObserveQuery("ok")
	return &ChatResult{
		Answer:   answer,
		Folder:   folder,
		TenantID: tenantID,
	}, nil
}

// ListFolders 列出租户名下的全部文件夹
func (s *Service) ListFolders(ctx context.Context, tenantID string) ([]string, error) {
	return s.source.ListFolders(ctx, tenantID)
}
