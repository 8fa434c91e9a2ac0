// internal/api/users.go
package api

import (
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"roi-navigator/internal/common/errors"
)

const defaultUserPageSize = 100

func (s *Server) handleListUsers(ctx *fasthttp.RequestCtx) {
	first := 0
	if raw := string(ctx.QueryArgs().Peek("first")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondErrorMessage(ctx, fasthttp.StatusBadRequest, "first must be a non-negative integer")
			return
		}
		first = parsed
	}

	max := defaultUserPageSize
	if raw := string(ctx.QueryArgs().Peek("max")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondErrorMessage(ctx, fasthttp.StatusBadRequest, "max must be a positive integer")
			return
		}
		max = parsed
	}

	users, err := s.identity.ListUsers(ctx, first, max)
	if err != nil {
		s.logger.WithError(err).Error("User list failed", nil)
		respondError(ctx, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}

	respondSuccess(ctx, fasthttp.StatusOK, out)
}

type blockUserRequest struct {
	Blocked *bool `json:"blocked"`
}

func (s *Server) handleBlockUser(ctx *fasthttp.RequestCtx, uid string) {
	var req blockUserRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respondErrorMessage(ctx, fasthttp.StatusBadRequest, "Malformed request body")
		return
	}
	if req.Blocked == nil {
		respondErrorMessage(ctx, fasthttp.StatusBadRequest, "blocked field is required")
		return
	}

	user, err := s.identity.SetBlocked(ctx, uid, *req.Blocked)
	if err != nil {
		s.logger.WithError(err).Error("User block update failed", nil)
		respondError(ctx, err)
		return
	}

	s.logger.Info("User block flag updated", map[string]interface{}{
		"user_id": uid,
		"blocked": *req.Blocked,
	})

	respondSuccess(ctx, fasthttp.StatusOK, toUserResponse(user))
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

// handleResetPassword generates a temporary credential, disables the
// account and delivers the credential by email. The credential never
// appears in the response body or the logs. Without a configured mailer
// the request is rejected up front; resetting first would lock the
// account with no way to deliver the new credential.
func (s *Server) handleResetPassword(ctx *fasthttp.RequestCtx) {
	if s.mailer == nil {
		respondErrorMessage(ctx, fasthttp.StatusServiceUnavailable,
			"Password reset is unavailable: email delivery is not configured")
		return
	}

	var req resetPasswordRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respondErrorMessage(ctx, fasthttp.StatusBadRequest, "Malformed request body")
		return
	}
	if req.Email == "" {
		respondErrorMessage(ctx, fasthttp.StatusBadRequest, "email field is required")
		return
	}

	user, err := s.identity.GetUserByEmail(ctx, req.Email)
	if err != nil {
		respondError(ctx, err)
		return
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		s.logger.WithError(err).Error("Temporary password generation failed", nil)
		respondError(ctx, errors.NewIdentityProviderError("generate credential", err))
		return
	}

	if err := s.identity.ResetPassword(ctx, user.ID, tempPassword); err != nil {
		s.logger.WithError(err).Error("Password reset failed", nil)
		respondError(ctx, err)
		return
	}

	if err := s.mailer.SendTemporaryPassword(ctx, user.Email, tempPassword); err != nil {
		s.logger.WithError(err).Error("Credential email delivery failed", nil)
		respondError(ctx, err)
		return
	}

	s.logger.Info("Password reset completed", map[string]interface{}{"user_id": user.ID})

	respondSuccess(ctx, fasthttp.StatusOK, map[string]string{
		"message": "Temporary password sent by email; account disabled until re-enabled",
	})
}

const tempPasswordCharset = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

func generateTempPassword() (string, error) {
	const length = 16

	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(tempPasswordCharset))))
		if err != nil {
			return "", err
		}
		out[i] = tempPasswordCharset[n.Int64()]
	}

	return string(out), nil
}
