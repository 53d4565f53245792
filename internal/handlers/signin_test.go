package handlers

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHandleGenerateSignInSheet(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	dir := t.TempDir()
	handler := NewSignInSheetHandler(db, dir)

	req := &GenerateSignInSheetRequest{ActivityID: f.activity.ID}
	resp, err := handler.HandleGenerate(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleGenerate returned error: %v", err)
	}

	// Session runs 2024-06-01 to 2024-08-17: 77 days, 11 weekly columns.
	if resp.Body.NumWeeks != 11 {
		t.Errorf("num weeks = %d, want 11 derived from the session span", resp.Body.NumWeeks)
	}
	if !strings.HasPrefix(resp.Body.Filename, "Summer 2024 - Saturday Zumba") {
		t.Errorf("filename = %q", resp.Body.Filename)
	}
	if _, err := os.Stat(filepath.Join(dir, resp.Body.Filename)); err != nil {
		t.Errorf("workbook not written: %v", err)
	}

	t.Run("explicit week count overrides the span", func(t *testing.T) {
		req := &GenerateSignInSheetRequest{ActivityID: f.activity.ID}
		req.Body.NumWeeks = 4
		resp, err := handler.HandleGenerate(context.Background(), req)
		if err != nil {
			t.Fatalf("HandleGenerate returned error: %v", err)
		}
		if resp.Body.NumWeeks != 4 {
			t.Errorf("num weeks = %d, want 4", resp.Body.NumWeeks)
		}
	})

	t.Run("out-of-range week count rejected", func(t *testing.T) {
		req := &GenerateSignInSheetRequest{ActivityID: f.activity.ID}
		req.Body.NumWeeks = 500
		if _, err := handler.HandleGenerate(context.Background(), req); err == nil {
			t.Error("expected error for absurd week count")
		}
	})

	t.Run("unknown activity", func(t *testing.T) {
		req := &GenerateSignInSheetRequest{ActivityID: 9999}
		if _, err := handler.HandleGenerate(context.Background(), req); err == nil {
			t.Error("expected error for unknown activity")
		}
	})

	t.Run("regeneration never clobbers", func(t *testing.T) {
		first, err := handler.HandleGenerate(context.Background(), &GenerateSignInSheetRequest{ActivityID: f.activity.ID})
		if err != nil {
			t.Fatal(err)
		}
		second, err := handler.HandleGenerate(context.Background(), &GenerateSignInSheetRequest{ActivityID: f.activity.ID})
		if err != nil {
			t.Fatal(err)
		}
		if first.Body.Filename == second.Body.Filename {
			t.Error("two generations produced the same filename")
		}
	})
}
