package util

import (
	"time"

	"github.com/cdmi123/progress-report/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const principalKey = "principal"

// PrincipalKind 已认证调用方的类型
type PrincipalKind string

const (
	KindStaff   PrincipalKind = "staff"
	KindStudent PrincipalKind = "student"
)

// Principal 由认证中间件解析出的调用方, 显式传入各业务操作
type Principal struct {
	ID   uint            `json:"id"`
	Kind PrincipalKind   `json:"kind"`
	Role model.StaffRole `json:"role,omitempty"`
}

func StaffPrincipal(s *model.Staff) Principal {
	return Principal{ID: s.ID, Kind: KindStaff, Role: s.Role}
}

func StudentPrincipal(s *model.Student) Principal {
	return Principal{ID: s.ID, Kind: KindStudent}
}

func (p Principal) IsStaff() bool {
	return p.Kind == KindStaff
}

func (p Principal) IsStudent() bool {
	return p.Kind == KindStudent
}

func (p Principal) IsGlobalStaff() bool {
	return p.IsStaff() && p.Role == model.RoleGlobal
}

// CanSeeStudent 全局管理员可见所有学生, 院系管理员仅可见本院系学生, 学生仅可见自己
func (p Principal) CanSeeStudent(s *model.Student) bool {
	switch {
	case p.IsGlobalStaff():
		return true
	case p.IsStaff():
		return s.FacultyID == p.ID
	case p.IsStudent():
		return s.ID == p.ID
	}
	return false
}

type Claims struct {
	SubjectID uint            `json:"sub_id"`
	Kind      PrincipalKind   `json:"kind"`
	Role      model.StaffRole `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Principal() Principal {
	return Principal{ID: c.SubjectID, Kind: c.Kind, Role: c.Role}
}

func GenerateJWT(p Principal, secret string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration)

	claims := &Claims{
		SubjectID: p.ID,
		Kind:      p.Kind,
		Role:      p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}

func SetClaims(c *gin.Context, claims *Claims) {
	c.Set(principalKey, claims)
}

func GetClaims(c *gin.Context) *Claims {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil
	}
	claims, ok := v.(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetPrincipal 获取当前请求的调用方
func GetPrincipal(c *gin.Context) (Principal, bool) {
	claims := GetClaims(c)
	if claims == nil {
		return Principal{}, false
	}
	return claims.Principal(), true
}
