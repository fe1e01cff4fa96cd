package middleware

import (
	"context"
	"net/http"
	"strings"

	"timesheet-backend/internal/auth"
	"timesheet-backend/internal/models"
)

type contextKey string

const ClaimsKey contextKey = "claims"

// EmployeeLookup loads the current state of an employee
type EmployeeLookup interface {
	Get(ctx context.Context, id int) (*models.Employee, error)
}

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	employees  EmployeeLookup
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, employees EmployeeLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		employees:  employees,
	}
}

// bearerToken reads "Authorization: Bearer <token>", falling back to the
// token query parameter for websocket upgrades (browsers cannot set headers there)
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if t := r.URL.Query().Get("token"); t != "" {
			return t, true
		}
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// Authenticate is a middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		// Check database for current employee status (for immediate permission updates)
		emp, err := m.employees.Get(r.Context(), claims.EmployeeID)
		if err != nil {
			http.Error(w, "Employee not found", http.StatusUnauthorized)
			return
		}
		if !emp.IsActive {
			http.Error(w, "Account paused. Please contact your administrator.", http.StatusForbidden)
			return
		}

		// Database values win over the token
		claims.Role = emp.Role
		claims.OrganizationID = emp.OrganizationID
		claims.Email = emp.Email

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireRole rejects authenticated requests whose role is not allowed.
// It must run after Authenticate.
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}
			for _, role := range allowedRoles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Forbidden - insufficient permissions", http.StatusForbidden)
		})
	}
}

func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetClaims extracts the authenticated employee from request context
func GetClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims, ok
}
