// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/constants"
	"github.com/taibuivan/tahmin/internal/platform/ctxutil"
	"github.com/taibuivan/tahmin/internal/platform/respond"
	"github.com/taibuivan/tahmin/internal/platform/sec"
)

// TokenVerifier verifies a raw bearer token and returns its claims.
//
// It must return [sec.ErrSigningSecretMissing] when no secret is configured
// so the gate can report a server misconfiguration instead of a bad token.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// AccountLookup resolves the current stored role of a user.
//
// It returns an [apperr.AppError] with code NOT_FOUND when the user row is gone.
type AccountLookup interface {
	FindRoleByID(ctx context.Context, userID string) (string, error)
}

// Gate authenticates requests and resolves the caller's current role.
//
// The token is treated as an identity assertion only. The role is loaded from
// the account store on every request so promotions and demotions apply
// immediately.
type Gate struct {
	verifier TokenVerifier
	accounts AccountLookup
}

// NewGate creates a Gate.
func NewGate(verifier TokenVerifier, accounts AccountLookup) *Gate {
	return &Gate{verifier: verifier, accounts: accounts}
}

// Authenticate requires a valid bearer token and binds [*sec.Identity] into
// the request context.
//
// # Flow
//  1. OPTIONS pre-flights pass straight through.
//  2. Missing or non-Bearer header: 401 UNAUTHENTICATED.
//  3. Missing signing secret: 500 SERVER_MISCONFIGURATION.
//  4. Bad signature, expiry or payload: 401 INVALID_TOKEN.
//  5. Subject no longer stored: 403 UNKNOWN_USER.
//  6. Stored role is bound; the token's role claim is ignored.
func (gate *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

		// ── 1. Pre-flight ─────────────────────────────────────────────────
		if request.Method == http.MethodOptions {
			writer.WriteHeader(http.StatusOK)
			return
		}

		ctx := request.Context()
		logger := ctxutil.GetLogger(ctx)

		// ── 2. Header Extraction ──────────────────────────────────────────
		tokenStr, ok := bearerToken(request.Header.Get(constants.HeaderAuthorization))
		if !ok {
			respond.Error(writer, request, apperr.Unauthenticated("Authentication required"))
			return
		}

		// ── 3/4. Token Verification ───────────────────────────────────────
		claims, err := gate.verifier.VerifyToken(tokenStr)
		if err != nil {
			if errors.Is(err, sec.ErrSigningSecretMissing) {
				logger.ErrorContext(ctx, "server_misconfiguration", slog.String("reason", "jwt secret not set"))
				respond.Error(writer, request, apperr.ServerMisconfiguration(err))
				return
			}
			logger.WarnContext(ctx, "invalid_token", slog.String("error", err.Error()))
			respond.Error(writer, request, apperr.InvalidToken(err))
			return
		}

		// ── 5. Subject Resolution ─────────────────────────────────────────
		storedRole, err := gate.accounts.FindRoleByID(ctx, claims.UserID)
		if err != nil {
			if apperr.IsNotFound(err) {
				logger.WarnContext(ctx, "unknown_token_subject", slog.String("user_id", claims.UserID))
				respond.Error(writer, request, apperr.UnknownUser())
				return
			}
			respond.Error(writer, request, err)
			return
		}

		// ── 6. Role Binding ───────────────────────────────────────────────
		role, err := sec.ParseRole(storedRole)
		if err != nil {
			respond.Error(writer, request, apperr.Internal(err))
			return
		}

		identity := &sec.Identity{UserID: claims.UserID, Role: role}
		ctx = ctxutil.WithIdentity(ctx, identity)
		ctx = ctxutil.WithLogger(ctx, logger.With(
			slog.String("user_id", identity.UserID),
			slog.String("role", identity.Role.String()),
		))

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RequireRole blocks callers whose resolved role does not satisfy allowed.
//
// Must be mounted AFTER [Gate.Authenticate].
func RequireRole(allowed func(sec.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthenticated("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !allowed(identity.Role) {
				respond.Error(writer, request, apperr.Forbidden("You do not have permission to perform this action"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// EditorOrAdmin admits editors and admins.
func EditorOrAdmin(next http.Handler) http.Handler {
	return RequireRole(sec.Role.IsEditorOrAdmin)(next)
}

// AdminOnly admits admins.
func AdminOnly(next http.Handler) http.Handler {
	return RequireRole(sec.Role.IsAdmin)(next)
}

// RequireSelfOrAdmin admits the user named by the URL parameter param, or any admin.
func RequireSelfOrAdmin(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthenticated("Authentication required"))
				return
			}

			if !sec.IsSelfOrAdmin(identity, chi.URLParam(request, param)) {
				respond.Error(writer, request, apperr.Forbidden("You can only access your own account"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
