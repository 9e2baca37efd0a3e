package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPropertyBag(t *testing.T) {
	bag := PropertyBag{
		"s":     "hello",
		"i":     42,
		"i64":   int64(7),
		"f":     float64(9),
		"b":     true,
		"wrong": "not a number",
	}

	t.Run("GetString", func(t *testing.T) {
		if v, ok := bag.GetString("s"); !ok || v != "hello" {
			t.Fatalf("GetString(s): want hello/true, got %q/%v", v, ok)
		}
		if _, ok := bag.GetString("missing"); ok {
			t.Fatalf("GetString(missing): want ok=false")
		}
		if _, ok := bag.GetString("i"); ok {
			t.Fatalf("GetString(i): want ok=false for non-string value")
		}
	})

	t.Run("GetInt coerces yaml number types", func(t *testing.T) {
		for _, key := range []string{"i", "i64", "f"} {
			if _, ok := bag.GetInt(key); !ok {
				t.Fatalf("GetInt(%s): want ok=true", key)
			}
		}
		if v, _ := bag.GetInt("i"); v != 42 {
			t.Fatalf("GetInt(i): want 42, got %d", v)
		}
		if _, ok := bag.GetInt("wrong"); ok {
			t.Fatalf("GetInt(wrong): want ok=false")
		}
	})

	t.Run("GetBool", func(t *testing.T) {
		if v, ok := bag.GetBool("b"); !ok || !v {
			t.Fatalf("GetBool(b): want true/true, got %v/%v", v, ok)
		}
		if _, ok := bag.GetBool("s"); ok {
			t.Fatalf("GetBool(s): want ok=false")
		}
	})
}

func TestDefaultPolicy(t *testing.T) {
	bag := DefaultPolicy()
	limit, ok := bag.GetInt("file-size-limit.maxBytes")
	if !ok {
		t.Fatalf("default policy missing file-size-limit.maxBytes")
	}
	if limit != 64<<20 {
		t.Fatalf("file-size-limit.maxBytes: want %d, got %d", int64(64<<20), limit)
	}
}

func TestLoadPolicy(t *testing.T) {
	t.Run("reads a flat yaml bag", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yml")
		content := "file-size-limit.maxBytes: 1024\nsome-rule.enabled: true\nsome-rule.mode: strict\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile error: %v", err)
		}

		bag, err := LoadPolicy(path)
		if err != nil {
			t.Fatalf("LoadPolicy error: %v", err)
		}
		if v, ok := bag.GetInt("file-size-limit.maxBytes"); !ok || v != 1024 {
			t.Fatalf("maxBytes: want 1024, got %d (ok=%v)", v, ok)
		}
		if v, ok := bag.GetBool("some-rule.enabled"); !ok || !v {
			t.Fatalf("enabled: want true, got %v (ok=%v)", v, ok)
		}
		if v, ok := bag.GetString("some-rule.mode"); !ok || v != "strict" {
			t.Fatalf("mode: want strict, got %q (ok=%v)", v, ok)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
			t.Fatalf("want error for missing file, got nil")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yml")
		if err := os.WriteFile(path, []byte("key: [unterminated"), 0o644); err != nil {
			t.Fatalf("WriteFile error: %v", err)
		}
		_, err := LoadPolicy(path)
		if err == nil {
			t.Fatalf("want parse error, got nil")
		}
		if !strings.Contains(err.Error(), "failed to parse policy file") {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
