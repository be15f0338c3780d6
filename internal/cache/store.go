package cache

import (
	"archive/tar"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Store is the blob cache consumed by the install flow. Restore returns the
// matched key, or the empty string on a miss; Save returns the stored blob
// id.
type Store interface {
	Restore(ctx context.Context, paths []string, key string) (string, error)
	Save(ctx context.Context, paths []string, key string) (string, error)
}

// DirStore is a local content-addressed store: each saved path set becomes
// one tar+zstd blob under Root, addressed through index.json.
type DirStore struct {
	Root string
}

// NewDirStore opens (creating if needed) a store rooted at root, defaulting
// to <user cache dir>/qtsetup.
func NewDirStore(root string) (*DirStore, error) {
	if root == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolve cache root: %w", err)
		}
		root = filepath.Join(base, "qtsetup")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache root: %w", err)
	}
	return &DirStore{Root: root}, nil
}

func (s *DirStore) indexPath() string {
	return filepath.Join(s.Root, "index.json")
}

// BlobID is the stable identifier for a key: keys may exceed filename limits
// and contain path separators, so blobs are named by the key's digest.
func BlobID(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Restore extracts the blob stored under key into paths. A missing key is a
// miss, not an error. The number of requested paths must match the saved
// entry.
func (s *DirStore) Restore(ctx context.Context, paths []string, key string) (string, error) {
	idx, err := loadIndex(s.indexPath())
	if err != nil {
		return "", err
	}

	entry, ok := idx.Entries[BlobID(key)]
	if !ok || entry.Key != key {
		return "", nil
	}
	if len(entry.Paths) != len(paths) {
		return "", fmt.Errorf("cache entry %s covers %d paths, %d requested", entry.Blob, len(entry.Paths), len(paths))
	}

	blob := filepath.Join(s.Root, entry.Blob)
	if err := extractBlob(ctx, blob, paths); err != nil {
		return "", fmt.Errorf("restore %s: %w", entry.Blob, err)
	}
	return key, nil
}

// Save archives paths into a new blob for key and records it in the index,
// replacing any previous blob for the same key.
func (s *DirStore) Save(ctx context.Context, paths []string, key string) (string, error) {
	id := BlobID(key)
	blobName := id + ".tar.zst"
	blobPath := filepath.Join(s.Root, blobName)

	size, err := writeBlob(ctx, blobPath, paths)
	if err != nil {
		return "", fmt.Errorf("save cache blob: %w", err)
	}

	idx, err := loadIndex(s.indexPath())
	if err != nil {
		return "", err
	}
	idx.Entries[id] = Entry{
		Key:       key,
		Blob:      blobName,
		Paths:     append([]string{}, paths...),
		SizeBytes: size,
		SavedAt:   nowFunc().UTC(),
	}
	if err := saveIndex(s.indexPath(), idx); err != nil {
		return "", err
	}
	return id, nil
}

// Entries returns the current index contents for inspection.
func (s *DirStore) Entries() (map[string]Entry, error) {
	idx, err := loadIndex(s.indexPath())
	if err != nil {
		return nil, err
	}
	return idx.Entries, nil
}

// Clear removes every blob and resets the index.
func (s *DirStore) Clear() error {
	idx, err := loadIndex(s.indexPath())
	if err != nil {
		return err
	}
	for _, entry := range idx.Entries {
		if err := os.Remove(filepath.Join(s.Root, entry.Blob)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove blob %s: %w", entry.Blob, err)
		}
	}
	return saveIndex(s.indexPath(), newIndex())
}

func writeBlob(ctx context.Context, blobPath string, paths []string) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(blobPath), ".blob-*")
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		tmp.Close()
		if !committed {
			_ = os.Remove(tmp.Name())
		}
	}()

	zw, err := zstd.NewWriter(tmp)
	if err != nil {
		return 0, err
	}
	tw := tar.NewWriter(zw)

	for i, root := range paths {
		prefix := strconv.Itoa(i)
		if err := addTree(ctx, tw, root, prefix); err != nil {
			return 0, err
		}
	}

	if err := tw.Close(); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}

	info, err := tmp.Stat()
	if err != nil {
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), blobPath); err != nil {
		return 0, err
	}
	committed = true
	return info.Size(), nil
}

func addTree(ctx context.Context, tw *tar.Writer, root, prefix string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		link := ""
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = prefix + "/" + filepath.ToSlash(rel)

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(tw, f); err != nil {
			return fmt.Errorf("archive %s: %w", rel, err)
		}
		return nil
	})
}

func extractBlob(ctx context.Context, blobPath string, paths []string) error {
	f, err := os.Open(blobPath)
	if err != nil {
		return err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		dest, err := resolveEntryPath(hdr.Name, paths)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}
			if err := os.Remove(dest); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := os.Symlink(hdr.Linkname, dest); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}
			out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, hdr.FileInfo().Mode().Perm())
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("extract %s: %w", hdr.Name, err)
			}
			if err := out.Close(); err != nil {
				return err
			}
		}
	}
}

// resolveEntryPath maps a "<pathIndex>/rel" archive name back onto the
// requested destination roots, rejecting escapes.
func resolveEntryPath(name string, paths []string) (string, error) {
	idxStr, rel, _ := strings.Cut(name, "/")
	i, err := strconv.Atoi(idxStr)
	if err != nil || i < 0 || i >= len(paths) {
		return "", fmt.Errorf("unexpected archive entry %q", name)
	}

	rel = filepath.FromSlash(rel)
	if rel == "" || rel == "." {
		return paths[i], nil
	}
	if strings.Contains(rel, "..") {
		clean := filepath.Clean(rel)
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("archive entry %q escapes destination", name)
		}
		rel = clean
	}
	return filepath.Join(paths[i], rel), nil
}
