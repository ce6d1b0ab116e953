package utils

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// AvatarSize is the side of the square every uploaded avatar is resized to
const AvatarSize = 250

// GravatarURL derives the default avatar reference for an email
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon", sum)
}

// ResizeAvatar decodes an uploaded image, resizes it to AvatarSize x AvatarSize
// and encodes it back in the format implied by filename (JPEG when unknown)
func ResizeAvatar(r io.Reader, filename string) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		format = imaging.JPEG
	}

	resized := imaging.Resize(img, AvatarSize, AvatarSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// AvatarFileName builds the stored file name for a user's avatar upload
func AvatarFileName(userID, original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "avatar.jpg"
	}
	if _, err := imaging.FormatFromFilename(base); err != nil {
		base += ".jpg"
	}
	return fmt.Sprintf("%s_%s", userID, base)
}
