// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/tahmin/internal/platform/apperr"
	"github.com/taibuivan/tahmin/internal/platform/ctxutil"
	"github.com/taibuivan/tahmin/internal/platform/storage"
	"github.com/taibuivan/tahmin/internal/users/auth"
	"github.com/taibuivan/tahmin/pkg/uuid"
)

// Service implements profile use cases.
type Service struct {
	accountRepository AccountRepository
	objects           storage.ObjectStorage
}

// NewService constructs a new account [Service].
func NewService(repo AccountRepository, objects storage.ObjectStorage) *Service {
	return &Service{accountRepository: repo, objects: objects}
}

/*
GetProfile retrieves the account for userID.

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(ctx context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

/*
UpdateProfile applies a partial set of changes to a user's account.

Returns:
  - *auth.User: The updated user profile
  - error: Not found, conflict or storage failures
*/
func (service *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
	}

	if err := service.accountRepository.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_profile_updated", slog.String("target_user_id", userID))
	return user, nil
}

/*
UploadAvatar stores the image under avatars/{userID}/ and records its URL.

Returns:
  - *auth.User: The updated user profile
  - error: Not found, misconfiguration or storage failures
*/
func (service *Service) UploadAvatar(ctx context.Context, userID string, upload AvatarUpload) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_avatar_lookup_failed: %w", err)
	}

	key := fmt.Sprintf("avatars/%s/%s.%s", userID, uuid.New(), upload.Extension)
	err = service.objects.Put(ctx, key, bytes.NewReader(upload.Data), int64(len(upload.Data)), upload.ContentType)
	if errors.Is(err, storage.ErrDisabled) {
		return nil, apperr.ServerMisconfiguration(err)
	}
	if err != nil {
		return nil, apperr.UpstreamFailure(err)
	}

	previous := user.AvatarURL
	user.AvatarURL = service.objects.URL(key)
	if err := service.accountRepository.UpdateAvatar(ctx, userID, user.AvatarURL); err != nil {
		_ = service.objects.Delete(ctx, key)
		return nil, fmt.Errorf("account_service_avatar_persist_failed: %w", err)
	}

	// The replaced object is garbage once the new URL is stored.
	if oldKey := service.objects.KeyFromURL(previous); oldKey != "" {
		if err := service.objects.Delete(ctx, oldKey); err != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "user_avatar_cleanup_failed",
				slog.String("key", oldKey),
				slog.Any("error", err),
			)
		}
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_avatar_uploaded",
		slog.String("target_user_id", userID),
		slog.Int("bytes", len(upload.Data)),
	)
	return user, nil
}
