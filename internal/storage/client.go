package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// EntryKind 列表项类别的显式判别字段
type EntryKind string

const (
	// EntryFile 普通文件对象
	EntryFile EntryKind = "file"
	// EntryFolderMarker 文件夹标记（列表中的公共前缀）
	EntryFolderMarker EntryKind = "folder"
)

// Entry 存储列表中的一项，File 与 FolderMarker 的带标签变体
type Entry struct {
	Kind EntryKind `json:"kind"`
	Name string    `json:"name"`
	Size int64     `json:"size"`
}

// Config 对象存储连接配置
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Client 文档存储客户端
// 文档存放在一个 S3 兼容的桶里，层级为 {tenant_id}/{folder}/{file}。
type Client struct {
	mc     *minio.Client
	bucket string
}

// New 创建文档存储客户端
func New(cfg Config) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建对象存储客户端失败: %w", err)
	}
	return &Client{mc: mc, bucket: cfg.Bucket}, nil
}

// ListFolder 列出租户某个文件夹下的直接条目
func (c *Client) ListFolder(ctx context.Context, tenantID, folder string) ([]Entry, error) {
	return c.list(ctx, folderPrefix(tenantID, folder))
}

// ListFolders 列出租户名下的全部文件夹名
func (c *Client) ListFolders(ctx context.Context, tenantID string) ([]string, error) {
	entries, err := c.list(ctx, folderPrefix(tenantID, ""))
	if err != nil {
		return nil, err
	}

	folders := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Kind == EntryFolderMarker {
			folders = append(folders, e.Name)
		}
	}
	return folders, nil
}

// Fetch 下载一个对象的完整内容
func (c *Client) Fetch(ctx context.Context, objectKey string) ([]byte, error) {
	obj, err := c.mc.GetObject(ctx, c.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("获取对象 '%s' 失败: %w", objectKey, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("读取对象 '%s' 失败: %w", objectKey, err)
	}
	return data, nil
}

// ObjectKey 拼装对象键: {tenant}/{folder}/{name}
func ObjectKey(tenantID, folder, name string) string {
	return folderPrefix(tenantID, folder) + name
}

// list 非递归列举 prefix 下的直接条目并打上类别标签
func (c *Client) list(ctx context.Context, prefix string) ([]Entry, error) {
	entries := make([]Entry, 0)

	for obj := range c.mc.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("列举存储对象失败: %w", obj.Err)
		}
		entries = append(entries, classifyObject(obj.Key, prefix, obj.Size))
	}

	return entries, nil
}

// classifyObject 将一个列表项归类为文件或文件夹标记
// 非递归列举时公共前缀以 "/" 结尾，其余是普通对象。
func classifyObject(key, prefix string, size int64) Entry {
	name := strings.TrimPrefix(key, prefix)

	if strings.HasSuffix(name, "/") {
		return Entry{
			Kind: EntryFolderMarker,
			Name: strings.TrimSuffix(name, "/"),
		}
	}
	return Entry{Kind: EntryFile, Name: name, Size: size}
}

// folderPrefix 拼装列举前缀，folder 为空时只按租户前缀列举
func folderPrefix(tenantID, folder string) string {
	if folder == "" {
		return tenantID + "/"
	}
	return tenantID + "/" + folder + "/"
}
