package cache

import (
	"testing"
	"time"

	"github.com/labelcheck/labelcheck/internal/model"
)

func blockSet(texts ...string) []model.CanonicalBlock {
	blocks := make([]model.CanonicalBlock, len(texts))
	for i, text := range texts {
		blocks[i] = model.CanonicalBlock{TextBlock: model.TextBlock{
			Text:       text,
			BBox:       model.Rect{X: 10, Y: 20 * i, W: 100, H: 15},
			Confidence: 90,
			SourcePass: "normalized/psm3",
		}}
	}
	return blocks
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	key := ImageKey([]byte("image-bytes"))
	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss before set")
	}

	if err := c.Set(key, blockSet("STONES THROW", "BOURBON"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok := c.Get(key)
	if !ok || len(got) != 2 || got[0].Text != "STONES THROW" {
		t.Errorf("expected stored block set back, got %+v ok=%v", got, ok)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("expected miss after delete")
	}
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	key := ImageKey([]byte("img"))
	_ = c.Set(key, blockSet("ORIGINAL"), time.Minute)

	got, _ := c.Get(key)
	got[0].Text = "TAMPERED"

	again, ok := c.Get(key)
	if !ok || again[0].Text != "ORIGINAL" {
		t.Errorf("cached set mutated through a returned copy: %+v", again)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(10*time.Millisecond, time.Minute)
	key := ImageKey([]byte("short-lived"))
	_ = c.Set(key, blockSet("V"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get(key); ok {
		t.Error("expected entry to expire")
	}
}

func TestImageKey_Stable(t *testing.T) {
	a := ImageKey([]byte("same"))
	b := ImageKey([]byte("same"))
	if a != b {
		t.Error("identical bytes must produce identical keys")
	}
	if a == ImageKey([]byte("different")) {
		t.Error("different bytes must produce different keys")
	}
}
