package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-core-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// AuthRequired rejects requests without a valid access token and stores the
// caller's user.Actor in the request context.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		actor, err := ActorFromClaims(claims)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// ActorFromClaims builds the caller identity from access token claims.
func ActorFromClaims(claims map[string]interface{}) (user.Actor, error) {
	tokenType, ok := claims[jwt.ClaimType].(string)
	if !ok || tokenType != jwt.TokenTypeAccess {
		return user.Actor{}, user.ErrInvalidToken
	}

	userID, ok := claims[jwt.ClaimUserID].(string)
	if !ok || userID == "" {
		return user.Actor{}, user.ErrActorNotResolved
	}

	roleStr, _ := claims[jwt.ClaimRole].(string)
	role := user.Role(roleStr)
	if !role.Valid() {
		return user.Actor{}, user.ErrActorNotResolved
	}

	// employee_id is optional: admins may have no employee record.
	employeeID, _ := claims[jwt.ClaimEmployeeID].(string)

	return user.Actor{UserID: userID, EmployeeID: employeeID, Role: role}, nil
}

func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored by AuthRequired.
func ActorFromContext(ctx context.Context) (user.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(user.Actor)
	return actor, ok
}
