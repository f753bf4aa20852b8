package asset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"time"

	"github.com/matzehuels/needful/pkg/cache"
	"github.com/matzehuels/needful/pkg/observability"
)

// versionLen is the number of hex characters of the content hash used in URLs.
const versionLen = 16

type fileStat struct {
	Path    string    `json:"p"`
	Size    int64     `json:"s"`
	ModTime time.Time `json:"m"`
}

// fingerprint hashes every regular file under fsys, in lexical order.
// The result is cached under a key built from the file metadata, so an
// unchanged library is fingerprinted without reading file contents.
func fingerprint(ctx context.Context, name string, fsys fs.FS, c cache.Cache) (string, error) {
	var stats []fileStat
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		stats = append(stats, fileStat{Path: path, Size: info.Size(), ModTime: info.ModTime().UTC()})
		return nil
	})
	if err != nil {
		return "", err
	}

	key := cache.Key("version", name, stats)
	if data, hit, err := c.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "version")
		return string(data), nil
	}
	observability.Cache().OnCacheMiss(ctx, "version")

	h := sha256.New()
	for _, st := range stats {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		io.WriteString(h, st.Path)
		h.Write([]byte{0})
		f, err := fsys.Open(st.Path)
		if err != nil {
			return "", err
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", err
		}
	}
	v := hex.EncodeToString(h.Sum(nil))[:versionLen]

	// A failed write only costs a recomputation next time.
	if err := c.Set(ctx, key, []byte(v), 0); err == nil {
		observability.Cache().OnCacheSet(ctx, "version", len(v))
	}
	return v, nil
}
