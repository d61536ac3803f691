package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// InsufficientContextSentinel 上下文不足时要求模型输出的固定回答
const InsufficientContextSentinel = "I don't have enough information in your documents to answer this question."

// ChatCompleter 抽象生成服务：一段提示词换一段文本
type ChatCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Synthesizer 答案合成器
// 将检索到的分块与问题拼装成受约束的提示词，单次调用生成服务，
// 失败时做有界重试，绝不降级为无依据的回答。
type Synthesizer struct {
	llm        ChatCompleter
	maxRetries int
	backoff    time.Duration
}

// NewSynthesizer 创建答案合成器
// maxRetries 小于 0 时按 0 处理（不重试）
func NewSynthesizer(llm ChatCompleter, maxRetries int) *Synthesizer {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Synthesizer{
		llm:        llm,
		maxRetries: maxRetries,
		backoff:    time.Second,
	}
}

// Answer 基于检索结果生成有依据的回答
func (s *Synthesizer) Answer(ctx context.Context, question string, result RetrievalResult) (string, error) {
	prompt := buildPrompt(question, result)

	var answer string
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		answer, err = s.llm.Complete(ctx, prompt)
		if err == nil {
			return strings.TrimSpace(answer), nil
		}

		// 请求被取消或超时属于致命失败，不再重试
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}

		if attempt < s.maxRetries {
			// 指数退避
			select {
			case <-time.After(s.backoff << uint(attempt)):
			case <-ctx.Done():
				return "", WrapError(KindGenerationProvider, "生成调用被取消", ctx.Err())
			}
		}
	}

	return "", WrapError(KindGenerationProvider, "调用生成服务失败", err)
}

// buildPrompt 拼装受约束的提示词
// 每个分块都带来源定位，并明确要求：只依据上下文作答，
// 上下文不含答案时输出固定的"信息不足"句子，不得编造。
func buildPrompt(question string, result RetrievalResult) string {
	var ctxBuf strings.Builder
	for _, sc := range result.Chunks {
		fmt.Fprintf(&ctxBuf, "[source: %s, page %d]\n%s\n\n",
			sc.Chunk.SourceDocument, sc.Chunk.SourcePage, sc.Chunk.Text)
	}

	var buf strings.Builder
	buf.WriteString("You are an expert AI tutor helping students understand their study materials.\n")
	buf.WriteString("Use the following context from the student's documents to answer their question accurately and comprehensively.\n\n")
	buf.WriteString("Context from documents:\n")
	buf.WriteString(ctxBuf.String())
	buf.WriteString("Student's Question: ")
	buf.WriteString(question)
	buf.WriteString("\n\nInstructions:\n")
	buf.WriteString("1. Answer based ONLY on the provided context\n")
	buf.WriteString("2. If the answer isn't in the context, say \"" + InsufficientContextSentinel + "\"\n")
	buf.WriteString("3. Cite specific details from the context when possible\n")
	buf.WriteString("4. Explain concepts clearly and break down complex topics\n")
	buf.WriteString("5. Do not fabricate anything beyond the given context\n")
	buf.WriteString("6. If relevant, mention which document the information comes from\n\n")
	buf.WriteString("Answer:")
	return buf.String()
}
