package shaping

import (
	"sync"

	"github.com/npillmayer/tcache/core"
	"github.com/npillmayer/tcache/core/font"
	"github.com/npillmayer/tcache/shaping/harfbuzz"
)

// FaceCache maps typeface identity to a shaper face handle, grounded on
// fontregistry.Registry's sync.Mutex-guarded map idiom (spec §4.C). Face
// handles are retained without incrementing the typeface's own reference
// count: typeface lifetime is managed by font.Registry, a separate global
// cache, and FaceCache must not interfere with it (spec §9).
type FaceCache struct {
	mu    sync.Mutex
	faces map[font.ID]*harfbuzz.Face
}

// NewFaceCache returns an empty FaceCache.
func NewFaceCache() *FaceCache {
	return &FaceCache{faces: make(map[font.ID]*harfbuzz.Face)}
}

// FaceFor returns the shaper face handle for tf, creating and recording
// one via the harfbuzz adapter on first use (spec §4.C).
func (fc *FaceCache) FaceFor(tf *font.Typeface) (*harfbuzz.Face, error) {
	if tf == nil {
		return nil, core.Error(core.EINVALID, "facecache: nil typeface")
	}
	id := tf.UniqueID()
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if f, ok := fc.faces[id]; ok {
		return f, nil
	}
	f, err := harfbuzz.NewFace(tf.ScalableFont())
	if err != nil {
		return nil, err
	}
	fc.faces[id] = f
	return f, nil
}

// Purge releases every recorded face handle and clears the cache (spec
// §4.C: "release every face handle, then clear").
func (fc *FaceCache) Purge() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	for id, f := range fc.faces {
		f.Release()
		delete(fc.faces, id)
	}
}

// Len reports the number of recorded face handles; used by diagnostics.
func (fc *FaceCache) Len() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return len(fc.faces)
}
