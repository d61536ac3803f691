package rag

import (
	"math"
	"sort"
)

// ScoredChunk 带相似度分数的检索结果项
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// RetrievalResult 检索结果，按相似度从高到低排列
type RetrievalResult struct {
	Chunks []ScoredChunk `json:"chunks"`
}

// Retriever 余弦相似度检索器
// 两阶段检索：先取 FetchK 个候选，再从中截取 TopK 个返回。
// 第二阶段目前是严格的按分截断，留出插入重排序步骤的位置。
type Retriever struct {
	TopK   int
	FetchK int
}

// NewRetriever 创建检索器，fetchK 不足 topK 时提升到 topK
func NewRetriever(topK, fetchK int) *Retriever {
	if topK <= 0 {
		topK = 10
	}
	if fetchK <= 0 {
		fetchK = 20
	}
	if fetchK < topK {
		fetchK = topK
	}
	return &Retriever{TopK: topK, FetchK: fetchK}
}

// Retrieve 对索引中的全部向量计算余弦相似度并返回最相似的分块
// 空索引返回空结果而不是错误；分数相同的分块按插入顺序排列。
func (r *Retriever) Retrieve(idx *Index, queryVector []float32) RetrievalResult {
	if idx == nil || idx.Size() == 0 {
		return RetrievalResult{Chunks: []ScoredChunk{}}
	}

	scored := make([]ScoredChunk, 0, idx.Size())
	for i, vec := range idx.Vectors {
		scored = append(scored, ScoredChunk{
			Chunk: idx.Chunks[i],
			Score: cosineSimilarity(queryVector, vec),
		})
	}

	// 稳定排序保证同分时保持插入顺序
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	// 第一阶段：截取 FetchK 个候选
	candidates := scored
	if len(candidates) > r.FetchK {
		candidates = candidates[:r.FetchK]
	}

	// 第二阶段：从候选中取 TopK（将来可在此插入重排序）
	if len(candidates) > r.TopK {
		candidates = candidates[:r.TopK]
	}

	return RetrievalResult{Chunks: candidates}
}

// cosineSimilarity 计算两个向量的余弦相似度
// 任一向量为零向量时返回 0
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
