package services

import (
	"context"
	"testing"

	"github.com/codyseavey/tcg-portfolio/internal/models"
	"github.com/codyseavey/tcg-portfolio/internal/store"
)

func TestParseScanText(t *testing.T) {
	setCodes := []string{"BS", "JU", "MEW"}

	tests := []struct {
		name string
		text string
		want models.ScanHints
	}{
		{
			name: "full card",
			text: "Charizard\nHP 120\nFire Spin 100\n4/102 BS",
			want: models.ScanHints{CardName: "Charizard", CardNumber: "4/102", SetCode: "BS"},
		},
		{
			name: "hp prefix and misread digit",
			text: "HP 60 Pikachu\n58/1O2",
			want: models.ScanHints{CardName: "Pikachu", CardNumber: "58/102"},
		},
		{
			name: "set code line skipped for name",
			text: "MEW\nMew ex\n151/165",
			want: models.ScanHints{CardName: "Mew ex", CardNumber: "151/165", SetCode: "MEW"},
		},
		{
			name: "lowercase set code",
			text: "Flareon 3/64 ju",
			want: models.ScanHints{CardNumber: "3/64", SetCode: "JU"},
		},
		{
			name: "numbers only",
			text: "123\n456",
			want: models.ScanHints{},
		},
		{
			name: "empty",
			text: "",
			want: models.ScanHints{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseScanText(tt.text, setCodes)
			if got != tt.want {
				t.Errorf("ParseScanText(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestScanText(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.AddCards(
		models.Card{ID: "bs-4", Name: "Charizard", Number: "4/102", SetCode: "BS"},
		models.Card{ID: "bs-58", Name: "Pikachu", Number: "58/102", SetCode: "BS"},
	)
	svc := NewScannerService(mem, mem)
	ctx := context.Background()

	resp, err := svc.ScanText(ctx, "user-1", "Charizard\nHP 120\n4/102 BS")
	if err != nil {
		t.Fatalf("ScanText: %v", err)
	}
	if !resp.Matched || resp.Card.ID != "bs-4" || resp.Confidence != 1 {
		t.Fatalf("unexpected result %+v", resp.ScanResult)
	}
	if resp.Hints.CardNumber != "4/102" || resp.CollectionItem == nil {
		t.Errorf("hints %+v, item %+v", resp.Hints, resp.CollectionItem)
	}
	if got := mem.Calls("ListCards"); got != 1 {
		t.Errorf("catalog read %d times, want 1", got)
	}

	blank, err := svc.ScanText(ctx, "user-1", "   ")
	if err != nil {
		t.Fatalf("ScanText blank: %v", err)
	}
	if blank.Matched || len(blank.Candidates) != 0 {
		t.Errorf("blank text should not match: %+v", blank)
	}
	if got := mem.Calls("ListCards"); got != 1 {
		t.Errorf("blank text read the catalog")
	}
}
