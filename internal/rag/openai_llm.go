package rag

import (
	"context"
	"math"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIChatCompleter 基于 OpenAI 兼容端点的生成实现
// 温度固定为 0，偏向事实复述而不是自由发挥。
type OpenAIChatCompleter struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIChatCompleter 创建生成客户端
// timeout 小于等于 0 时默认 60 秒
func NewOpenAIChatCompleter(client *openai.Client, model string, timeout time.Duration) *OpenAIChatCompleter {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIChatCompleter{client: client, model: model, timeout: timeout}
}

// Complete 执行一次对话补全
func (c *OpenAIChatCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Temperature 字段带 omitempty，字面量 0 不会出现在请求体里，
	// 服务端会落回自己的默认温度；用最小非零值表达 0
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: math.SmallestNonzeroFloat32,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", NewError(KindGenerationProvider, "生成服务返回空结果")
	}
	return resp.Choices[0].Message.Content, nil
}
