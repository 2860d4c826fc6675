package audio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{word: "Cat", want: "word_cat.mp3"},
		{word: " ice cream ", want: "word_ice_cream.mp3"},
		{word: "../../etc/passwd", want: "word_etcpasswd.mp3"},
		{word: "don't", want: "word_don_t.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := Filename(tt.word); got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

func TestGenerateAudioFileCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("q") != "cat" {
			t.Errorf("q = %q, want cat", r.URL.Query().Get("q"))
		}
		w.Write([]byte("ID3 fake mp3"))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "audio")
	svc := NewTTSService(dir, srv.URL)

	for i := 0; i < 2; i++ {
		name, err := svc.GenerateAudioFile(context.Background(), "cat")
		if err != nil {
			t.Fatalf("GenerateAudioFile() error = %v", err)
		}
		if name != "word_cat.mp3" {
			t.Errorf("filename = %q", name)
		}
	}

	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1", calls.Load())
	}
	data, err := os.ReadFile(filepath.Join(dir, "word_cat.mp3"))
	if err != nil || string(data) != "ID3 fake mp3" {
		t.Errorf("cached file = %q, %v", data, err)
	}
}

func TestGenerateAudioFileFailureLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	dir := t.TempDir()
	svc := NewTTSService(dir, srv.URL)

	if _, err := svc.GenerateAudioFile(context.Background(), "dog"); err == nil {
		t.Fatal("GenerateAudioFile() error = nil, want error")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("audio dir has %d entries after failure", len(entries))
	}
}
