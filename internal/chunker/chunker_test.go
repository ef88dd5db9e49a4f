package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitBasic(t *testing.T) {
	text := strings.Repeat("a", 3000)
	chunks := Split(text, 2000, 200)

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if len(chunks[0]) != 2000 {
		t.Errorf("first chunk length: got %d, want 2000", len(chunks[0]))
	}
	// Second chunk starts at 1800 and runs to the end.
	if len(chunks[1]) != 1200 {
		t.Errorf("second chunk length: got %d, want 1200", len(chunks[1]))
	}
}

func TestSplitOverlap(t *testing.T) {
	text := "abcdefghij"
	chunks := Split(text, 4, 2)

	want := []string{"abcd", "cdef", "efgh", "ghij"}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks %v, want %d", len(chunks), chunks, len(want))
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d: got %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestSplitKeepsTrailingContent(t *testing.T) {
	text := "abcdefghijk" // 11 chars, size 4 step 2
	chunks := Split(text, 4, 2)

	joined := strings.Join(chunks, "")
	if !strings.HasSuffix(chunks[len(chunks)-1], "k") {
		t.Errorf("trailing content dropped: last chunk %q", chunks[len(chunks)-1])
	}
	if !strings.Contains(joined, "k") {
		t.Error("trailing character missing from all chunks")
	}
}

func TestSplitSingleChunk(t *testing.T) {
	chunks := Split("short", 2000, 200)
	if len(chunks) != 1 || chunks[0] != "short" {
		t.Fatalf("got %v, want one chunk %q", chunks, "short")
	}
}

func TestSplitEmpty(t *testing.T) {
	if chunks := Split("", 2000, 200); len(chunks) != 0 {
		t.Fatalf("empty input: got %d chunks, want 0", len(chunks))
	}
}

func TestSplitClampsDegenerateParams(t *testing.T) {
	// overlap >= size must still make progress.
	chunks := Split("abcdef", 2, 5)
	if len(chunks) == 0 {
		t.Fatal("no chunks produced")
	}
	for _, c := range chunks {
		if len(c) > 2 {
			t.Errorf("chunk %q exceeds size", c)
		}
	}
}

func TestChunksRestartable(t *testing.T) {
	seq := Chunks(strings.Repeat("xyz", 500), 100, 10)

	var first, second []string
	for c := range seq {
		first = append(first, c)
	}
	for c := range seq {
		second = append(second, c)
	}

	if len(first) != len(second) {
		t.Fatalf("restart produced %d chunks, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between iterations", i)
		}
	}
}

func TestChunksEarlyStop(t *testing.T) {
	count := 0
	for range Chunks(strings.Repeat("a", 10000), 100, 0) {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Fatalf("iterated %d chunks after break, want 3", count)
	}
}

func TestSplitMultiByteRunes(t *testing.T) {
	chunks := Split("ééééé", 3, 1)

	want := []string{"ééé", "ééé"}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks %v, want %d", len(chunks), chunks, len(want))
	}
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, c)
		}
		if c != want[i] {
			t.Errorf("chunk %d: got %q, want %q", i, c, want[i])
		}
	}

	// Size and overlap count runes, not bytes.
	mixed := Split("日本語のテキスト", 4, 2)
	if len(mixed) != 3 {
		t.Fatalf("got %d chunks %v, want 3", len(mixed), mixed)
	}
	for i, c := range mixed {
		if got := utf8.RuneCountInString(c); i < 2 && got != 4 {
			t.Errorf("chunk %d rune count: got %d, want 4", i, got)
		}
	}
}
