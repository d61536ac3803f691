package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFolderPrefix(t *testing.T) {
	assert.Equal(t, "tenant-1/biology/", folderPrefix("tenant-1", "biology"))
	// folder 为空时退化为租户根前缀
	assert.Equal(t, "tenant-1/", folderPrefix("tenant-1", ""))
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "tenant-1/biology/notes.pdf", ObjectKey("tenant-1", "biology", "notes.pdf"))
}

func TestClassifyObject(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		prefix string
		size   int64
		want   Entry
	}{
		{
			name:   "普通对象归类为文件",
			key:    "tenant-1/biology/notes.pdf",
			prefix: "tenant-1/biology/",
			size:   2048,
			want:   Entry{Kind: EntryFile, Name: "notes.pdf", Size: 2048},
		},
		{
			name:   "占位对象也是普通文件",
			key:    "tenant-1/biology/.placeholder",
			prefix: "tenant-1/biology/",
			size:   0,
			want:   Entry{Kind: EntryFile, Name: ".placeholder", Size: 0},
		},
		{
			name:   "以斜杠结尾的公共前缀归类为文件夹标记",
			key:    "tenant-1/biology/",
			prefix: "tenant-1/",
			size:   0,
			want:   Entry{Kind: EntryFolderMarker, Name: "biology"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyObject(tt.key, tt.prefix, tt.size))
		})
	}
}
