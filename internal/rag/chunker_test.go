package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunker_Split(t *testing.T) {
	t.Run("配置无效时报错", func(t *testing.T) {
		c := &Chunker{MaxSize: 100, Overlap: 100}
		_, err := c.Split([]TextUnit{{Document: "a.txt", Page: 1, Text: "hello"}})
		require.Error(t, err)
		assert.True(t, IsKind(err, KindChunking))

		c = &Chunker{MaxSize: 50, Overlap: 100}
		_, err = c.Split([]TextUnit{{Document: "a.txt", Page: 1, Text: "hello"}})
		assert.True(t, IsKind(err, KindChunking))
	})

	t.Run("空单元被跳过而不是报错", func(t *testing.T) {
		c := NewChunker(100, 20)
		chunks, err := c.Split([]TextUnit{
			{Document: "a.txt", Page: 1, Text: "   \n\t  "},
			{Document: "a.txt", Page: 2, Text: "有效内容"},
		})
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "有效内容", chunks[0].Text)
		assert.Equal(t, 2, chunks[0].SourcePage)
	})

	t.Run("短单元生成单个分块", func(t *testing.T) {
		c := NewChunker(100, 20)
		chunks, err := c.Split([]TextUnit{{Document: "a.txt", Page: 1, Text: "short text"}})
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "short text", chunks[0].Text)
		assert.Equal(t, 0, chunks[0].ChunkIndex)
	})

	t.Run("所有分块不超过大小上限", func(t *testing.T) {
		c := NewChunker(50, 10)
		text := strings.Repeat("word ", 100)
		chunks, err := c.Split([]TextUnit{{Document: "a.txt", Page: 1, Text: text}})
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, len([]rune(chunk.Text)), 50)
		}
	})

	t.Run("相邻分块共享指定长度的重叠", func(t *testing.T) {
		c := NewChunker(50, 10)
		text := strings.Repeat("word ", 100)
		chunks, err := c.Split([]TextUnit{{Document: "a.txt", Page: 1, Text: text}})
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		for i := 1; i < len(chunks); i++ {
			prev := []rune(chunks[i-1].Text)
			curr := []rune(chunks[i].Text)
			suffix := string(prev[len(prev)-10:])
			prefix := string(curr[:10])
			assert.Equal(t, suffix, prefix, "分块 %d 与 %d 之间的重叠不一致", i-1, i)
		}
	})

	t.Run("3200字符按默认配置切成3块", func(t *testing.T) {
		// 两份文档合计约3200字符，chunk_size=1500, overlap=300
		c := NewChunker(1500, 300)
		units := []TextUnit{
			{Document: "one.pdf", Page: 1, Text: strings.Repeat("word ", 440)}, // 2200 字符
			{Document: "two.pdf", Page: 1, Text: strings.Repeat("word ", 200)}, // 1000 字符
		}
		chunks, err := c.Split(units)
		require.NoError(t, err)
		assert.Len(t, chunks, 3)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, len([]rune(chunk.Text)), 1500)
		}
	})

	t.Run("分块不跨越文档边界", func(t *testing.T) {
		c := NewChunker(50, 10)
		units := []TextUnit{
			{Document: "one.txt", Page: 1, Text: strings.Repeat("aaaa ", 30)},
			{Document: "two.txt", Page: 1, Text: strings.Repeat("bbbb ", 30)},
		}
		chunks, err := c.Split(units)
		require.NoError(t, err)
		for _, chunk := range chunks {
			if chunk.SourceDocument == "one.txt" {
				assert.NotContains(t, chunk.Text, "bbbb")
			} else {
				assert.NotContains(t, chunk.Text, "aaaa")
			}
		}
	})

	t.Run("分块索引按文档递增", func(t *testing.T) {
		c := NewChunker(50, 10)
		units := []TextUnit{
			{Document: "one.txt", Page: 1, Text: strings.Repeat("aaaa ", 30)},
			{Document: "one.txt", Page: 2, Text: strings.Repeat("cccc ", 30)},
			{Document: "two.txt", Page: 1, Text: "short"},
		}
		chunks, err := c.Split(units)
		require.NoError(t, err)

		lastByDoc := make(map[string]int)
		for _, chunk := range chunks {
			if prev, seen := lastByDoc[chunk.SourceDocument]; seen {
				assert.Equal(t, prev+1, chunk.ChunkIndex)
			} else {
				assert.Equal(t, 0, chunk.ChunkIndex)
			}
			lastByDoc[chunk.SourceDocument] = chunk.ChunkIndex
		}
	})

	t.Run("优先在段落边界切分", func(t *testing.T) {
		c := &Chunker{MaxSize: 20, Overlap: 5}
		text := "aaaa aaaa\n\nbbbb bbbb cccc"
		chunks, err := c.Split([]TextUnit{{Document: "a.txt", Page: 1, Text: text}})
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)
		assert.True(t, strings.HasSuffix(chunks[0].Text, "\n\n"),
			"第一个分块应当在段落边界结束: %q", chunks[0].Text)
	})
}

func TestNewChunker_Defaults(t *testing.T) {
	c := NewChunker(0, -1)
	assert.Equal(t, 1500, c.MaxSize)
	assert.Equal(t, 300, c.Overlap)

	// 0 是合法的重叠配置，不应被当作未配置
	c = NewChunker(100, 0)
	assert.Equal(t, 0, c.Overlap)
}

func TestChunker_ZeroOverlap(t *testing.T) {
	c := NewChunker(50, 0)
	text := strings.Repeat("word ", 40)
	chunks, err := c.Split([]TextUnit{{Document: "a.txt", Page: 1, Text: text}})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// 无重叠时相邻分块拼接还原原文
	var joined strings.Builder
	for _, chunk := range chunks {
		joined.WriteString(chunk.Text)
	}
	assert.Equal(t, strings.TrimSpace(text), joined.String())
}
