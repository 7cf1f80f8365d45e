package cache

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// KeyGenerator 为渲染后的 SQL 生成缓存键
type KeyGenerator struct {
	prefix     string
	maxKeySize int
}

// NewKeyGenerator 创建键生成器，键的格式为 prefix:queryType:md5(sql)
func NewKeyGenerator(prefix string) *KeyGenerator {
	return &KeyGenerator{
		prefix:     prefix,
		maxKeySize: 200,
	}
}

// WithMaxKeySize 设置键的最大长度
func (g *KeyGenerator) WithMaxKeySize(size int) *KeyGenerator {
	if size > 32 {
		g.maxKeySize = size
	}
	return g
}

// Prefix 返回带分隔符的前缀，用于按前缀清理
func (g *KeyGenerator) Prefix() string {
	if g.prefix == "" || strings.HasSuffix(g.prefix, ":") {
		return g.prefix
	}
	return g.prefix + ":"
}

func (g *KeyGenerator) Generate(queryType, query string) string {
	var key strings.Builder
	key.WriteString(g.Prefix())
	key.WriteString(queryType)
	key.WriteString(":")

	queryHash := md5.Sum([]byte(query))
	key.WriteString(hex.EncodeToString(queryHash[:]))

	result := key.String()
	if len(result) > g.maxKeySize {
		resultHash := md5.Sum([]byte(result))
		result = result[:g.maxKeySize-32] + hex.EncodeToString(resultHash[:])
	}
	return result
}
