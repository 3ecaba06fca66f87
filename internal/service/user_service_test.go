package service

import (
	"context"
	"strings"
	"testing"

	"minisocial/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserService_UpdateProfile(t *testing.T) {
	users := noopUserRepo()
	var saved *models.User
	users.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}
	svc := NewUserService(users)
	ctx := context.Background()

	t.Run("updates bio and avatar", func(t *testing.T) {
		user, err := svc.UpdateProfile(ctx, UpdateProfileInput{
			UserID:    1,
			Bio:       strPtr("  hello there  "),
			AvatarURL: strPtr("https://example.com/a.png"),
		})
		require.NoError(t, err)
		assert.Equal(t, "hello there", user.Bio)
		assert.Equal(t, "https://example.com/a.png", user.AvatarURL)
		assert.Equal(t, saved.Bio, user.Bio)
	})

	t.Run("nil fields leave values untouched", func(t *testing.T) {
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Bio: "existing", AvatarURL: "kept.png"}, nil
		}
		user, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1})
		require.NoError(t, err)
		assert.Equal(t, "existing", user.Bio)
		assert.Equal(t, "kept.png", user.AvatarURL)
	})

	t.Run("bio too long", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{
			UserID: 1,
			Bio:    strPtr(strings.Repeat("x", 201)),
		})
		assertAppErrorCode(t, err, models.CodeValidation)
	})
}
