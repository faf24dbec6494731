package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewRawToken 生成一次性令牌（重置密码/邮箱验证），邮件里发原文，库里只存摘要
func NewRawToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// HashToken 令牌摘要（sha256 hex）
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
