package api

import (
	"time"

	"backend/internal/auth"
	"backend/internal/config"
	"backend/internal/rag"
	"backend/internal/rag/parsers"
	"backend/internal/storage"

	"github.com/sashabaranov/go-openai"
)

// AppContainer 汇集所有依赖实例
// 模型客户端等依赖显式构造并传入，不使用进程级单例，便于测试替换
type AppContainer struct {
	Verifier   *auth.TokenVerifier
	RAGService *rag.Service
}

// BuildContainer 按配置组装依赖
func BuildContainer(cfg *config.Config) (*AppContainer, error) {
	// 文档存储
	source, err := storage.New(storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	// 模型客户端（OpenAI 兼容端点）
	clientConfig := openai.DefaultConfig(cfg.AI.APIKey)
	if cfg.AI.BaseURL != "" {
		clientConfig.BaseURL = cfg.AI.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	provider := rag.NewOpenAIEmbeddingProvider(client, cfg.AI.EmbeddingModel)
	llm := rag.NewOpenAIChatCompleter(client, cfg.AI.ChatModel,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second)

	// 核心组件
	registry := parsers.NewParserRegistry()
	chunker := rag.NewChunker(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	store := rag.NewFileIndexStore(cfg.RAG.IndexDir)
	builder := rag.NewIndexBuilder(registry, chunker, provider, store)
	coordinator := rag.NewBuildCoordinator()
	retriever := rag.NewRetriever(cfg.RAG.TopK, cfg.RAG.FetchK)
	synthesizer := rag.NewSynthesizer(llm, cfg.AI.MaxRetries)

	ragService := rag.NewService(
		source, registry, builder, coordinator, store, provider, retriever, synthesizer,
	)

	return &AppContainer{
		Verifier:   auth.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience),
		RAGService: ragService,
	}, nil
}
