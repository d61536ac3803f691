package rag

import (
	"errors"
	"fmt"
)

// Kind 错误类别
// 调用方通过类别而不是字符串匹配来区分可重试与致命错误
type Kind int

const (
	// KindChunking 分块配置错误
	KindChunking Kind = iota + 1
	// KindEmbeddingProvider 向量化服务调用失败（含超时）
	KindEmbeddingProvider
	// KindGenerationProvider 生成服务调用失败（含超时）
	KindGenerationProvider
	// KindEmptyCorpus 所有文档均无可提取内容
	KindEmptyCorpus
	// KindNotFound 集合未建立索引或文件夹为空
	KindNotFound
	// KindBuildInProgress 同一索引键上已有构建在执行
	KindBuildInProgress
	// KindAuth 身份验证失败
	KindAuth
)

// String 返回类别名称
func (k Kind) String() string {
	switch k {
	case KindChunking:
		return "chunking"
	case KindEmbeddingProvider:
		return "embedding_provider"
	case KindGenerationProvider:
		return "generation_provider"
	case KindEmptyCorpus:
		return "empty_corpus"
	case KindNotFound:
		return "not_found"
	case KindBuildInProgress:
		return "build_in_progress"
	case KindAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// Error 带类别的业务错误
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap 返回底层错误
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError 创建业务错误
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError 包装底层错误
func WrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf 提取错误类别，非业务错误返回 0
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
