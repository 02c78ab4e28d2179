package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var AllowImage = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

var (
	ErrEmptyFile      = errors.New("file is empty")
	ErrFileType       = errors.New("file type is not allowed")
	ErrInvalidDataURL = errors.New("invalid base64 data url")
)

// ImageStorage keeps uploaded files and hands out public links to them.
type ImageStorage interface {
	UploadFile(ctx context.Context, fileName string, data []byte, folder string, allowed ...string) (string, error)
	DeleteFile(ctx context.Context, objectKey string) error
	GetPublicLinkKey(objectKey string) string
	GetObjectKeyFromLink(link string) string
}

// DecodeDataURL accepts either "data:<mime>;base64,<payload>" or a bare
// base64 payload and returns the raw bytes.
func DecodeDataURL(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyFile
	}
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx < 0 || !strings.HasSuffix(s[:idx], ";base64") {
			return nil, ErrInvalidDataURL
		}
		s = s[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	return data, nil
}

// objectKey sniffs the content type of data, checks it against allowed and
// builds "<folder>/<name>-<uuid><ext>".
func objectKey(fileName string, data []byte, folder string, allowed []string) (string, string, error) {
	if len(data) == 0 {
		return "", "", ErrEmptyFile
	}
	mtype := mimetype.Detect(data)
	if len(allowed) > 0 && !mimetype.EqualsAny(mtype.String(), allowed...) {
		return "", "", fmt.Errorf("%w: %s", ErrFileType, mtype.String())
	}
	name := strings.TrimSuffix(path.Base(fileName), path.Ext(fileName))
	if name == "" || name == "." || name == "/" {
		name = "file"
	}
	key := fmt.Sprintf("%s-%s%s", name, uuid.NewString(), mtype.Extension())
	if folder != "" {
		key = path.Join(folder, key)
	}
	return key, mtype.String(), nil
}
