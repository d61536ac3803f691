package rag

import "strings"

// TextUnit 从单份文档中提取出的一段文本（通常是一页）
type TextUnit struct {
	Document string // 来源文档名
	Page     int    // 来源页码（从1开始）
	Text     string
}

// Chunk 分块，检索的基本单位，创建后不可变
type Chunk struct {
	Text           string `json:"text"`
	SourceDocument string `json:"source_document"`
	SourcePage     int    `json:"source_page"`
	ChunkIndex     int    `json:"chunk_index"`
}

// Chunker 文档分块器
// 按分隔符优先级切分：段落 > 换行 > 句子 > 单词 > 字符，
// 仅在当前粒度仍超过 MaxSize 时才退化到更细的切分。
type Chunker struct {
	MaxSize int // 分块大小上限（字符数）
	Overlap int // 同一文本单元内相邻分块的重叠（字符数）
}

// 切分分隔符，按优先级排列
var separators = []string{"\n\n", "\n", ". ", " "}

// NewChunker 创建分块器
// chunkSize 小于等于 0 时使用默认值 1500；
// chunkOverlap 小于 0 时使用默认值 300，0 是合法配置（无重叠）。
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 1500
	}
	if chunkOverlap < 0 {
		chunkOverlap = 300
	}
	return &Chunker{MaxSize: chunkSize, Overlap: chunkOverlap}
}

// Split 对文本单元序列进行分块
// 重叠只作用于同一单元内的相邻分块，分块不会跨越两份文档；
// 去除空白后为空的单元直接跳过。
func (c *Chunker) Split(units []TextUnit) ([]Chunk, error) {
	if c.MaxSize <= c.Overlap {
		return nil, NewError(KindChunking, "分块配置无效: chunk_size 必须大于 chunk_overlap")
	}

	chunks := make([]Chunk, 0)
	indexByDoc := make(map[string]int) // 分块索引按文档递增

	for _, unit := range units {
		text := strings.TrimSpace(unit.Text)
		if text == "" {
			continue
		}

		for _, piece := range c.splitText(text) {
			chunks = append(chunks, Chunk{
				Text:           piece,
				SourceDocument: unit.Document,
				SourcePage:     unit.Page,
				ChunkIndex:     indexByDoc[unit.Document],
			})
			indexByDoc[unit.Document]++
		}
	}

	return chunks, nil
}

// splitText 将单个文本单元切分成若干重叠分块
// 每个分块不超过 MaxSize，相邻分块共享长度为 Overlap 的后缀/前缀，
// 仅末尾分块允许更短。
func (c *Chunker) splitText(text string) []string {
	runes := []rune(text)
	n := len(runes)
	if n <= c.MaxSize {
		return []string{text}
	}

	pieces := make([]string, 0, n/(c.MaxSize-c.Overlap)+1)
	pos := 0
	for {
		if n-pos <= c.MaxSize {
			pieces = append(pieces, string(runes[pos:n]))
			break
		}
		end := c.cutPoint(runes, pos)
		pieces = append(pieces, string(runes[pos:end]))
		pos = end - c.Overlap
	}
	return pieces
}

// cutPoint 在 (pos+Overlap, pos+MaxSize] 区间内选择切分点
// 依次尝试各级分隔符，在窗口内取最靠后的一个；全部落空时按字符硬切。
func (c *Chunker) cutPoint(runes []rune, pos int) int {
	window := runes[pos : pos+c.MaxSize]
	for _, sep := range separators {
		sepRunes := []rune(sep)
		if idx := lastIndexRunes(window, sepRunes); idx >= 0 {
			end := pos + idx + len(sepRunes)
			if end > pos+c.Overlap {
				return end
			}
		}
	}
	return pos + c.MaxSize
}

// lastIndexRunes 返回 sep 在 runes 中最后一次出现的位置，不存在返回 -1
func lastIndexRunes(runes, sep []rune) int {
	for i := len(runes) - len(sep); i >= 0; i-- {
		match := true
		for j := range sep {
			if runes[i+j] != sep[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
