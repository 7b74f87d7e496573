package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cdmi123/progress-report/internal/config"
	"github.com/cdmi123/progress-report/internal/model"
	"github.com/cdmi123/progress-report/internal/util"
	"github.com/cdmi123/progress-report/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	Staff    StaffStore
	Students StudentStore
	Tokens   TokenStore
	Cfg      *config.Config
}

func NewAuthService(staff StaffStore, students StudentStore, tokens TokenStore, cfg *config.Config) *AuthService {
	return &AuthService{
		Staff:    staff,
		Students: students,
		Tokens:   tokens,
		Cfg:      cfg,
	}
}

// LoginResult 登录成功后返回给客户端的数据
type LoginResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Kind      string          `json:"kind"`
	Role      model.StaffRole `json:"role,omitempty"`
}

func (s *AuthService) issue(p util.Principal) (string, time.Time, error) {
	token, err := util.GenerateJWT(p, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, time.Now().Add(s.Cfg.JWT.ExpireTime), nil
}

func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	staff, err := s.Staff.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	if !staff.IsActive() {
		return nil, util.ErrAccountBlocked
	}

	token, exp, err := s.issue(util.StaffPrincipal(staff))
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Staff logged in", zap.Uint("staffID", staff.ID))
	return &LoginResult{
		Token:     token,
		ExpiresAt: exp,
		ID:        staff.ID,
		Name:      staff.Name,
		Email:     staff.Email,
		Kind:      string(util.KindStaff),
		Role:      staff.Role,
	}, nil
}

// StudentLogin 学生使用联系电话与密码登录
func (s *AuthService) StudentLogin(ctx context.Context, contact, password string) (*LoginResult, error) {
	candidates, err := s.Students.FindAllByContact(ctx, strings.TrimSpace(contact))
	if err != nil {
		return nil, err
	}

	// 同一联系电话可能属于多名学生, 以密码区分
	var student *model.Student
	for i := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(candidates[i].Password), []byte(password)) == nil {
			student = &candidates[i]
			break
		}
	}
	if student == nil {
		return nil, util.ErrInvalidCredentials
	}

	token, exp, err := s.issue(util.StudentPrincipal(student))
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Student logged in", zap.Uint("studentID", student.ID))
	return &LoginResult{
		Token:     token,
		ExpiresAt: exp,
		ID:        student.ID,
		Name:      student.Name,
		Email:     student.Email,
		Kind:      string(util.KindStudent),
	}, nil
}

// Logout 将令牌加入黑名单直至其过期
func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	return s.Tokens.Revoke(ctx, claims.ID, ttl)
}

// Authenticate 解析令牌, 检查是否已注销以及管理员账号状态
func (s *AuthService) Authenticate(ctx context.Context, token string) (*util.Claims, error) {
	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}
	if claims.ID != "" {
		revoked, err := s.Tokens.IsRevoked(ctx, claims.ID)
		if err != nil {
			logger.Log.Warn("Token denylist lookup failed", zap.Error(err))
		} else if revoked {
			return nil, util.ErrTokenRevoked
		}
	}

	// 管理员被封禁或删除后, 已签发的令牌立即失效; 角色以当前记录为准
	if claims.Kind == util.KindStaff {
		staff, err := s.Staff.FindByID(ctx, claims.SubjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrInvalidCredentials
			}
			return nil, err
		}
		if !staff.IsActive() {
			return nil, util.ErrAccountBlocked
		}
		claims.Role = staff.Role
	}
	return claims, nil
}
