package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/labelcheck/labelcheck/internal/model"
)

// BlockCache stores canonical block sets from completed recognition runs,
// keyed by image digest.
type BlockCache interface {
	Get(key string) ([]model.CanonicalBlock, bool)
	Set(key string, blocks []model.CanonicalBlock, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ImageKey generates a cache key from raw image bytes. Recognition output is
// deterministic for a given image and configuration, so the digest alone
// identifies the entry within a config version.
func ImageKey(image []byte) string {
	hash := sha256.Sum256(image)
	return "labelcheck:v1:" + hex.EncodeToString(hash[:])
}
