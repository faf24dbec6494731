package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"carexchange/internal/core/auth"
	"carexchange/internal/domain"
	"carexchange/pkg/utils"
)

const resetTokenTTL = time.Hour

// Mailer 发信能力，真实实现见 internal/core/mailer
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type AuthService struct {
	users   domain.UserRepository
	hasher  auth.Hasher
	mailer  Mailer // 可为 nil（未配置 SMTP 时找回密码/邮箱验证直接报错）
	baseURL string
}

func NewAuthService(users domain.UserRepository, hasher auth.Hasher, mailer Mailer, baseURL string) *AuthService {
	return &AuthService{users: users, hasher: hasher, mailer: mailer, baseURL: strings.TrimRight(baseURL, "/")}
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)

	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" || in.Phone == "" || in.Address == "" {
		return nil, invalid("please provide all required fields")
	}
	if len(in.Password) < 8 {
		return nil, invalid("password must be at least 8 characters")
	}
	// admin 不开放自助注册
	if in.Role != domain.RoleDonor && in.Role != domain.RoleRecipient {
		return nil, invalid(fmt.Sprintf("%s is not a valid role", in.Role))
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Phone:        in.Phone,
		Address:      in.Address,
		Verified:     false,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// 预检查有并发窗口，唯一键兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}

// Login 查不到用户和密码不对返回同一个错误，不泄露哪一步失败
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, invalid("please provide email and password")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !s.hasher.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	u.LastLogin = &now
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Me(ctx context.Context, uid string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, uid, current, next string) error {
	if current == "" || next == "" {
		return invalid("please provide both current and new password")
	}
	if len(next) < 8 {
		return invalid("password must be at least 8 characters")
	}

	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	if !s.hasher.Verify(current, u.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.users.Update(ctx, u)
}

// ForgotPassword 生成一次性重置令牌（库里只存摘要），邮件发原文链接，1 小时过期
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return invalid("email is required")
	}
	if s.mailer == nil {
		return ErrMailUnavailable
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}

	raw := utils.NewRawToken()
	expire := time.Now().Add(resetTokenTTL)
	u.ResetPasswordToken = utils.HashToken(raw)
	u.ResetPasswordExpire = &expire
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	link := s.baseURL + "/reset-password?token=" + raw
	body := fmt.Sprintf(`<h1>Password Reset Request</h1>
<p>Hello %s,</p>
<p>You requested to reset your password. Click the link below to continue:</p>
<p><a href="%s">Reset Password</a></p>
<p>This link will expire in 1 hour. If you did not request this, please ignore this email.</p>
<p>Best regards,<br>CareXchange Team</p>`, u.Name, link)

	if err := s.mailer.Send(u.Email, "Password Reset Request - CareXchange", body); err != nil {
		// 发信失败就清掉令牌，别留下无法送达的半开状态
		u.ResetPasswordToken = ""
		u.ResetPasswordExpire = nil
		_ = s.users.Update(ctx, u)
		return err
	}
	return nil
}

// ResetPassword 令牌一次性：用完即清，二次提交拿不到匹配记录
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, password string) error {
	if rawToken == "" || password == "" {
		return invalid("token and password are required")
	}
	if len(password) < 8 {
		return invalid("password must be at least 8 characters")
	}

	u, err := s.users.FindByResetToken(ctx, utils.HashToken(rawToken), time.Now())
	if err != nil {
		return err
	}
	if u == nil {
		return ErrInvalidToken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.ResetPasswordToken = ""
	u.ResetPasswordExpire = nil
	return s.users.Update(ctx, u)
}

func (s *AuthService) SendVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return invalid("email is required")
	}
	if s.mailer == nil {
		return ErrMailUnavailable
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	if u.Verified {
		return ErrAlreadyVerified
	}

	raw := utils.NewRawToken()
	u.VerificationToken = utils.HashToken(raw)
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	link := s.baseURL + "/verify-email?token=" + raw
	body := fmt.Sprintf(`<p>Please verify your email address by clicking the link below:</p>
<p><a href="%s">Verify Email</a></p>
<p>If you did not create an account, please ignore this email.</p>`, link)

	if err := s.mailer.Send(u.Email, "Email Verification - CareXchange", body); err != nil {
		u.VerificationToken = ""
		_ = s.users.Update(ctx, u)
		return err
	}
	return nil
}

func (s *AuthService) ConfirmVerification(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return invalid("verification token is required")
	}

	u, err := s.users.FindByVerificationToken(ctx, utils.HashToken(rawToken))
	if err != nil {
		return err
	}
	if u == nil {
		return ErrInvalidToken
	}

	u.Verified = true
	u.VerificationToken = ""
	return s.users.Update(ctx, u)
}

func (s *AuthService) EmailExists(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, invalid("email is required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}
