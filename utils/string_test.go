package utils

import (
	"strings"
	"testing"
)

func TestCompressAndDecompressString(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "Short string",
			text: "Hello, world!",
		},
		{
			name: "Longer JSON string",
			text: `{"title":"Disco Elysium","media_type":"game","status":"completed"}`,
		},
		{
			name: "Empty string",
			text: "",
		},
		{
			name: "Item-like content",
			text: `{"id":"a1","title":"Severance","media_type":"series","tags":["sci-fi","mystery"],"description":"Employees undergo a procedure splitting their memories between work and personal life."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed, err := CompressString(tt.text)
			if err != nil {
				t.Fatalf("CompressString error: %v", err)
			}

			decompressed, err := DecompressString(compressed)
			if err != nil {
				t.Fatalf("DecompressString error: %v", err)
			}

			if decompressed != tt.text {
				t.Errorf("Expected decompressed string %q, got %q", tt.text, decompressed)
			}
		})
	}
}

func TestCompressionRatio(t *testing.T) {
	// Repetitive JSON content should compress well
	content := strings.Repeat(`{"title":"Hades","media_type":"game","status":"completed"},`, 100)

	compressed, err := CompressString(content)
	if err != nil {
		t.Fatalf("CompressString error: %v", err)
	}

	ratio := float64(len(compressed)) / float64(len(content))
	t.Logf("Original: %d bytes, Compressed: %d bytes, Ratio: %.2f", len(content), len(compressed), ratio)

	// Repetitive content should compress to less than 10% of original
	if ratio > 0.1 {
		t.Errorf("Expected compression ratio < 0.1 for repetitive content, got %.2f", ratio)
	}
}

func TestInvalidBase64Decompression(t *testing.T) {
	invalidInput := "invalid_base64_string"

	_, err := DecompressString(invalidInput)
	if err == nil {
		t.Error("Expected error when decompressing invalid base64 string")
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "The Dark Knight", "the dark knight"},
		{"trims whitespace", "  Hades  ", "hades"},
		{"both", "  Elden RING ", "elden ring"},
		{"empty", "", ""},
		{"only whitespace", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTitle(tt.input); got != tt.expected {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
