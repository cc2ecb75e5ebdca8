package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AdminRole is the role claimed by an admin session token
type AdminRole string

const (
	RoleSuper    AdminRole = "SUPER"
	RoleManager  AdminRole = "MANAGER"
	RoleOperator AdminRole = "OPERATOR"
)

// rolePathPrefixes maps a role to the API path prefixes it may access.
// SUPER 는 전체 허용.
var rolePathPrefixes = map[AdminRole][]string{
	RoleManager: {
		"/submissions", "/workflows", "/designs", "/contracts",
		"/packages", "/notifications",
	},
	RoleOperator: {
		"/workflows", "/designs", "/notifications",
	},
}

// AdminClaims are the JWT claims carried by an admin session
type AdminClaims struct {
	AdminID uuid.UUID `json:"adminId"`
	Role    AdminRole `json:"role"`
	jwt.RegisteredClaims
}

func unauthorized(c *gin.Context, message, korean string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
		"message": korean,
	})
	c.Abort()
}

// Auth returns a middleware that validates admin JWT tokens and stores the
// admin id and role in the gin context
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header is required", "인증이 필요합니다")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "Invalid authorization header format", "잘못된 인증 헤더 형식입니다")
			return
		}

		claims := &AdminClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "Invalid or expired token", "유효하지 않거나 만료된 토큰입니다")
			return
		}
		if claims.AdminID == uuid.Nil {
			unauthorized(c, "Token has no admin identity", "관리자 정보가 없는 토큰입니다")
			return
		}

		c.Set("admin_id", claims.AdminID)
		c.Set("admin_role", claims.Role)

		c.Next()
	}
}

// RequireRole returns a middleware enforcing the role → path-prefix allowlist.
// basePath is stripped before matching so the table stays routing-independent.
func RequireRole(basePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("admin_role")
		if !exists {
			unauthorized(c, "Admin role not found in context", "인증이 필요합니다")
			return
		}

		role, ok := roleValue.(AdminRole)
		if !ok {
			unauthorized(c, "Invalid admin role", "유효하지 않은 권한입니다")
			return
		}

		if role == RoleSuper {
			c.Next()
			return
		}

		path := strings.TrimPrefix(c.Request.URL.Path, basePath)
		for _, prefix := range rolePathPrefixes[role] {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Role does not allow access to this resource",
			},
			"message": "접근 권한이 없습니다",
		})
		c.Abort()
	}
}

// GetAdminID extracts the authenticated admin id from the gin context
func GetAdminID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("admin_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
