package object

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path"
	"strings"
)

var ErrInvalidName = errors.New("invalid file name")

// OwnerPrefix maps a user id to a stable, path-safe directory name so raw ids
// never appear in storage keys.
func OwnerPrefix(owner string) string {
	sum := sha256.Sum256([]byte(owner))
	return hex.EncodeToString(sum[:16])
}

// CleanFileName keeps the base name of an upload, replacing separators and
// rejecting traversal.
func CleanFileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if strings.Contains(name, "..") {
		return "", ErrInvalidName
	}
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	if name == "" || name == "." {
		return "", ErrInvalidName
	}
	return name, nil
}

// Key joins the owner prefix, a unique id and the cleaned file name.
func Key(owner, id, fileName string) (string, error) {
	name, err := CleanFileName(fileName)
	if err != nil {
		return "", err
	}
	return path.Join(OwnerPrefix(owner), id+"_"+name), nil
}
