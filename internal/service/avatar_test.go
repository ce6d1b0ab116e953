package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"strings"
	"testing"

	"github.com/Dan9191/contacts-service/internal/models"
	"github.com/Dan9191/contacts-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 600, 400))))
	return buf.Bytes()
}

func TestUpdateAvatar(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.signupVerified(t, "a@x.com", "pw1")

	url, err := env.svc.UpdateAvatar(ctx, u, bytes.NewReader(testPNG(t)), "me.png")
	require.NoError(t, err)

	wantName := u.ID.Hex() + "_me.png"
	assert.Equal(t, "/avatars/"+wantName, url)
	assert.Equal(t, wantName, env.storage.name)
	assert.Equal(t, "image/png", env.storage.contentType)

	img, err := png.Decode(bytes.NewReader(env.storage.data))
	require.NoError(t, err)
	assert.Equal(t, utils.AvatarSize, img.Bounds().Dx())
	assert.Equal(t, utils.AvatarSize, img.Bounds().Dy())

	stored, err := env.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, url, stored.AvatarURL)
}

func TestUpdateAvatar_InvalidImage(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	u := env.signupVerified(t, "a@x.com", "pw1")

	_, err := env.svc.UpdateAvatar(context.Background(), u, strings.NewReader("not an image"), "me.png")
	requireStatus(t, err, http.StatusBadRequest)
}

func TestUpdateAvatar_UnknownUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ghost := &models.User{ID: primitive.NewObjectID(), Email: "ghost@x.com"}

	_, err := env.svc.UpdateAvatar(context.Background(), ghost, bytes.NewReader(testPNG(t)), "me.png")
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestUpdateAvatar_StorageFailure(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	u := env.signupVerified(t, "a@x.com", "pw1")
	env.storage.err = errors.New("disk full")

	_, err := env.svc.UpdateAvatar(context.Background(), u, bytes.NewReader(testPNG(t)), "me.png")
	assert.ErrorContains(t, err, "disk full")
}
