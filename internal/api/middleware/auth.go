package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adarshamigo11/task-portal/internal/api/handler/v1/response"
	"github.com/adarshamigo11/task-portal/internal/domain"
	"github.com/adarshamigo11/task-portal/internal/pkg/jwthelper"
)

// ContextUserEmailKey is where VerifyJWT deposits the authenticated email.
const ContextUserEmailKey = "user_email"

var (
	errMissingToken = errors.New("missing or malformed authorization header")
	errAdminOnly    = errors.New("admin access required")
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT gates a route group on a valid bearer token and stores the token's
// user email in the request context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		ctx.Set(ContextUserEmailKey, claims.UserEmail)
		ctx.Next()
	}
}

// AdminOnly gates a route group on the reserved admin address. It runs after
// VerifyJWT.
func AdminOnly() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetString(ContextUserEmailKey) != domain.AdminEmail {
			response.RenderErr(ctx, response.ErrForbidden(errAdminOnly))
			return
		}

		ctx.Next()
	}
}
