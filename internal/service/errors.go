package service

import "errors"

// 哨兵错误；handler 统一翻译成 HTTP 状态码
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidRating      = errors.New("invalid rating value")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrMailUnavailable    = errors.New("mail delivery is not configured")
)

// ValidationError 带原因的入参错误（→ 400）
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

func invalid(msg string) error { return ValidationError(msg) }
