package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ingredients.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestReadIngredients_Valid(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	path := writeFile(t, `[
		{"id": "`+id.String()+`", "name": "Oats", "serving_size": 100, "serving_unit": "g",
		 "category": "grains", "calories": 389, "protein": 16.9, "carbs": 66.3, "fat": 6.9, "fiber": 10.6,
		 "verified": true},
		{"name": "Egg", "serving_size": 1, "serving_unit": "pcs", "calories": 72, "protein": 6.3, "fat": 4.8}
	]`)

	got, err := readIngredients(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != id || got[0].Macros.Protein != 16.9 || !got[0].Verified {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].ID == uuid.Nil {
		t.Error("missing id should be generated")
	}
}

func TestReadIngredients_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"not json", `{{{`},
		{"bad id", `[{"id": "nope", "name": "Oats", "serving_size": 100}]`},
		{"missing name", `[{"serving_size": 100}]`},
		{"zero serving size", `[{"name": "Oats"}]`},
		{"negative macros", `[{"name": "Oats", "serving_size": 100, "calories": -1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := readIngredients(writeFile(t, tt.content)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReadIngredients_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := readIngredients(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error")
	}
}
