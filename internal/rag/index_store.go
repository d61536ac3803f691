package rag

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// IndexKey 索引键，租户与集合共同构成隔离边界
type IndexKey struct {
	TenantID   string
	Collection string
}

// Index 一个 (租户, 集合) 的完整索引快照
// Chunks 与 Vectors 按下标一一对应；整体作为单一工件加载和替换。
type Index struct {
	TenantID   string      `json:"tenant_id"`
	Collection string      `json:"collection"`
	Model      string      `json:"model"`
	Dimension  int         `json:"dimension"`
	CreatedAt  time.Time   `json:"created_at"`
	Chunks     []Chunk     `json:"chunks"`
	Vectors    [][]float32 `json:"vectors"`
}

// Size 返回索引中的分块数量
func (idx *Index) Size() int {
	return len(idx.Chunks)
}

// IndexStore 抽象索引的持久化
// Write 必须原子替换：读取方要么看到旧的完整索引，要么看到新的完整索引。
type IndexStore interface {
	Write(key IndexKey, model string, chunks []Chunk, embeddings [][]float32) error
	Load(key IndexKey) (*Index, error)
	Exists(key IndexKey) bool
}

// FileIndexStore 基于本地文件的索引存储
// 每个键对应 {root}/{tenant}/{collection}.index 一个 JSON 工件，
// 写入先落到同目录临时文件，再通过一次 rename 提交。
type FileIndexStore struct {
	root string
}

// NewFileIndexStore 创建文件索引存储
func NewFileIndexStore(root string) *FileIndexStore {
	return &FileIndexStore{root: root}
}

const indexSuffix = ".index"

// Write 原子地用新索引替换 key 下的旧索引
// chunks 与 embeddings 长度必须一致；中间任何失败都不会改动已提交的工件。
func (s *FileIndexStore) Write(key IndexKey, model string, chunks []Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("分块与向量数量不一致: %d != %d", len(chunks), len(embeddings))
	}

	dimension := 0
	if len(embeddings) > 0 {
		dimension = len(embeddings[0])
	}

	idx := &Index{
		TenantID:   key.TenantID,
		Collection: key.Collection,
		Model:      model,
		Dimension:  dimension,
		CreatedAt:  time.Now().UTC(),
		Chunks:     chunks,
		Vectors:    embeddings,
	}

	data, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("序列化索引失败: %w", err)
	}

	target := s.path(key)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建索引目录失败: %w", err)
	}

	// 临时文件必须与目标同目录，rename 才是原子的
	tmp, err := os.CreateTemp(dir, "."+sanitize(key.Collection)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("写入索引失败: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("落盘索引失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("提交索引失败: %w", err)
	}

	return nil
}

// Load 加载 key 下的索引快照，不存在时返回 KindNotFound
func (s *FileIndexStore) Load(key IndexKey) (*Index, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewError(KindNotFound, fmt.Sprintf("集合 '%s' 尚未建立索引", key.Collection))
		}
		return nil, fmt.Errorf("读取索引失败: %w", err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("解析索引失败: %w", err)
	}

	// 截断或被改动的工件不能进入检索
	if len(idx.Chunks) != len(idx.Vectors) {
		return nil, fmt.Errorf("索引文件损坏: 分块与向量数量不一致: %d != %d",
			len(idx.Chunks), len(idx.Vectors))
	}
	return &idx, nil
}

// Exists 检查 key 下是否存在已提交的索引
func (s *FileIndexStore) Exists(key IndexKey) bool {
	info, err := os.Stat(s.path(key))
	return err == nil && !info.IsDir()
}

// path 计算索引工件的落盘路径
func (s *FileIndexStore) path(key IndexKey) string {
	return filepath.Join(s.root, sanitize(key.TenantID), sanitize(key.Collection)+indexSuffix)
}

// sanitize 清洗路径片段，防止键逃出索引根目录
func sanitize(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, name)
	cleaned = strings.Trim(cleaned, ".")
	if cleaned == "" {
		cleaned = "_"
	}
	return cleaned
}
