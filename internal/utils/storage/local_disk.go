package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// localDisk writes files under root and serves them from baseURL, which the
// HTTP app exposes as a static directory.
type localDisk struct {
	root    string
	baseURL string
}

func NewLocalDisk(root, baseURL string) (ImageStorage, error) {
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating media directory: %w", err)
	}
	return &localDisk{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *localDisk) UploadFile(_ context.Context, fileName string, data []byte, folder string, allowed ...string) (string, error) {
	key, _, err := objectKey(fileName, data, folder, allowed)
	if err != nil {
		return "", err
	}
	full := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return key, nil
}

func (l *localDisk) DeleteFile(_ context.Context, objectKey string) error {
	if objectKey == "" {
		return nil
	}
	err := os.Remove(filepath.Join(l.root, filepath.FromSlash(objectKey)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (l *localDisk) GetPublicLinkKey(objectKey string) string {
	if objectKey == "" {
		return ""
	}
	return l.baseURL + "/" + objectKey
}

func (l *localDisk) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, l.baseURL+"/")
}
