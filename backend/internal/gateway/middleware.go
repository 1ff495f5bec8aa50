package gateway

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"neurocampus/backend/internal/gateway/util"
	"neurocampus/backend/internal/shared"
)

// Claims is the JWT payload issued by the identity service.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies the bearer token and attaches the authenticated
// principal to the request context. Token issuance lives with the external
// identity service; only verification happens here.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := util.ExtractToken(r)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, err.Error())
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				util.WriteJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if claims.UserID == "" || !shared.IsValidRole(claims.Role) {
				util.WriteJSONError(w, http.StatusUnauthorized, "token is missing required claims")
				return
			}

			principal := shared.Principal{
				ID:    claims.UserID,
				Name:  claims.Name,
				Email: claims.Email,
				Role:  claims.Role,
			}

			ctx := shared.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
