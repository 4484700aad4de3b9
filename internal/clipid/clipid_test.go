package clipid

import (
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		length int
		want   string
	}{
		{name: "long stem truncated", path: "/data/train/aaaaaaaaaaa1.mp4", length: 11, want: "aaaaaaaaaaa"},
		{name: "exact length", path: "train/-7kbO0v4hag.mp4", length: 11, want: "-7kbO0v4hag"},
		{name: "youtube suffix", path: "abseiling/-7kbO0v4hag_000010_000020.mp4", length: 11, want: "-7kbO0v4hag"},
		{name: "short stem kept whole", path: "/x/abc.mp4", length: 11, want: "abc"},
		{name: "no extension", path: "/x/bbbbbbbbbbbbbb", length: 11, want: "bbbbbbbbbbb"},
		{name: "dotted stem", path: "/x/a.b.c.mp4", length: 11, want: "a.b.c"},
		{name: "zero length keeps stem", path: "/x/abcdef.mp4", length: 0, want: "abcdef"},
		{name: "empty path", path: "", length: 11, want: ""},
		{name: "root", path: "/", length: 11, want: ""},
		{name: "multibyte", path: "/x/ééééééééééééé.mp4", length: 3, want: "ééé"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(tc.path, tc.length); got != tc.want {
				t.Fatalf("Resolve(%q, %d) = %q, want %q", tc.path, tc.length, got, tc.want)
			}
		})
	}
}

func TestResolveIsPrefixOfStem(t *testing.T) {
	paths := []string{
		"/root/train/zzzzzzzzzzzzzzzzzz.mp4",
		"/root/val/short.mp4",
		"relative/clip_name_here.avi",
		"x.mp4",
	}
	for _, p := range paths {
		for _, length := range []int{1, 5, 11, 40} {
			got := Resolve(p, length)
			stem := strings.TrimSuffix(p[strings.LastIndex(p, "/")+1:], ".mp4")
			stem = strings.TrimSuffix(stem, ".avi")
			if !strings.HasPrefix(stem, got) {
				t.Fatalf("Resolve(%q, %d) = %q is not a prefix of %q", p, length, got, stem)
			}
			if len([]rune(got)) > length {
				t.Fatalf("Resolve(%q, %d) = %q exceeds length", p, length, got)
			}
			if again := Resolve(p, length); again != got {
				t.Fatalf("Resolve not stable: %q then %q", got, again)
			}
		}
	}
}

func TestResolverDefaultsAndFilename(t *testing.T) {
	r := NewResolver(0)
	if r.Length != DefaultLength {
		t.Fatalf("expected default length %d, got %d", DefaultLength, r.Length)
	}
	if got := r.Filename("/data/train/aaaaaaaaaaa1.mp4"); got != "aaaaaaaaaaa.mp4" {
		t.Fatalf("unexpected filename %q", got)
	}
}
