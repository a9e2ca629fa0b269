package types

import (
	"errors"
	"testing"
	"time"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "plain bytes", input: "1024", want: 1024},
		{name: "zero bytes", input: "0", want: 0},
		{name: "bytes with B suffix", input: "512B", want: 512},
		{name: "kilobytes", input: "64K", want: 64 * 1024},
		{name: "kilobytes with iB", input: "64KiB", want: 64 * 1024},
		{name: "megabytes lowercase", input: "1m", want: 1024 * 1024},
		{name: "megabytes with iB", input: "1MiB", want: 1024 * 1024},
		{name: "gigabytes with B", input: "2GB", want: 2 * 1024 * 1024 * 1024},
		{name: "terabytes", input: "1T", want: 1024 * 1024 * 1024 * 1024},
		{name: "surrounding whitespace", input: "  4M  ", want: 4 * 1024 * 1024},
		{name: "decimal values truncated", input: "1.5K", want: 1536},

		{name: "empty string", input: "", wantErr: true},
		{name: "only whitespace", input: "   ", wantErr: true},
		{name: "invalid suffix", input: "100X", wantErr: true},
		{name: "negative value", input: "-1M", wantErr: true},
		{name: "letters only", input: "abc", wantErr: true},
		{name: "suffix only", input: "M", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSize_ErrorKinds(t *testing.T) {
	if _, err := ParseSize("-5"); !errors.Is(err, ErrNegativeSize) {
		t.Errorf("ParseSize(-5) error = %v, want ErrNegativeSize", err)
	}
	if _, err := ParseSize("five"); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("ParseSize(five) error = %v, want ErrInvalidSize", err)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{9, "9 B"},
		{1024, "1.0 KiB"},
		{1536 * 1024, "1.5 MiB"},
		{-2048, "-2.0 KiB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestDuplicateSet_Redundant(t *testing.T) {
	set := DuplicateSet{
		Size: 9,
		Files: []File{
			{Path: "/a"},
			{Path: "/b"},
			{Path: "/c"},
		},
	}

	if got := set.Redundant(); got != 2 {
		t.Errorf("Redundant() = %d, want 2", got)
	}
	if got := set.Wasted(); got != 18 {
		t.Errorf("Wasted() = %d, want 18", got)
	}

	empty := DuplicateSet{}
	if got := empty.Redundant(); got != 0 {
		t.Errorf("empty Redundant() = %d, want 0", got)
	}
}

func TestScanResult_WastedBytes(t *testing.T) {
	result := ScanResult{
		Duplicates: []DuplicateSet{
			{Size: 10, Files: []File{{Path: "/a"}, {Path: "/b"}}},
			{Size: 4, Files: []File{{Path: "/c"}, {Path: "/d"}, {Path: "/e"}}},
		},
	}

	if got := result.WastedBytes(); got != 18 {
		t.Errorf("WastedBytes() = %d, want 18", got)
	}
}

func TestFile_HasCreatedAt(t *testing.T) {
	if (File{Path: "/a"}).HasCreatedAt() {
		t.Error("HasCreatedAt() = true for zero time")
	}
	if !(File{Path: "/a", CreatedAt: time.Now()}).HasCreatedAt() {
		t.Error("HasCreatedAt() = false for non-zero time")
	}
}
