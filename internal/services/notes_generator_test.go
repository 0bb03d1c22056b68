package services

import (
	"testing"

	"github.com/videolearn/backend/internal/types"
)

func TestDecodeNotesPayload_AcceptsValidRange(t *testing.T) {
	raw := map[string]any{
		"title":   "Title",
		"summary": "Summary",
		"sections": []any{
			map[string]any{"heading": "A", "content": "a"},
			map[string]any{"heading": "B", "content": "b"},
			map[string]any{"heading": "C", "content": "c"},
		},
	}
	payload, err := decodeNotesPayload(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(payload.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(payload.Sections))
	}
}

func TestDecodeNotesPayload_RejectsTooFewSections(t *testing.T) {
	raw := map[string]any{
		"title":   "Title",
		"summary": "Summary",
		"sections": []any{
			map[string]any{"heading": "A", "content": "a"},
		},
	}
	if _, err := decodeNotesPayload(raw); err == nil {
		t.Fatalf("expected error for too few sections")
	}
}

func TestDecodeNotesPayload_RejectsTooManySections(t *testing.T) {
	raw := map[string]any{
		"title":   "Title",
		"summary": "Summary",
		"sections": []any{
			map[string]any{"heading": "A"}, map[string]any{"heading": "B"},
			map[string]any{"heading": "C"}, map[string]any{"heading": "D"},
			map[string]any{"heading": "E"}, map[string]any{"heading": "F"},
		},
	}
	if _, err := decodeNotesPayload(raw); err == nil {
		t.Fatalf("expected error for too many sections")
	}
}

func TestValidateDiagramDiversity_AcceptsTwoDistinctTypes(t *testing.T) {
	sections := []types.NotesSection{
		{Diagrams: []types.Diagram{{Type: types.DiagramFlow}, {Type: types.DiagramPie}}},
	}
	if err := validateDiagramDiversity(sections); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestValidateDiagramDiversity_RejectsSingleType(t *testing.T) {
	sections := []types.NotesSection{
		{Diagrams: []types.Diagram{{Type: types.DiagramFlow}, {Type: types.DiagramFlow}}},
	}
	if err := validateDiagramDiversity(sections); err == nil {
		t.Fatalf("expected error for single diagram type")
	}
}

func TestValidateDiagramDiversity_RejectsTooFewOrTooMany(t *testing.T) {
	none := []types.NotesSection{{Diagrams: nil}}
	if err := validateDiagramDiversity(none); err == nil {
		t.Fatalf("expected error for zero diagrams")
	}

	many := []types.NotesSection{
		{Diagrams: []types.Diagram{
			{Type: types.DiagramFlow}, {Type: types.DiagramPie},
			{Type: types.DiagramState}, {Type: types.DiagramSequence},
			{Type: types.DiagramClass},
		}},
	}
	if err := validateDiagramDiversity(many); err == nil {
		t.Fatalf("expected error for more than 4 diagrams")
	}
}
