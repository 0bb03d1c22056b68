package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/videolearn/backend/internal/clients/llm"
	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/repos"
	"github.com/videolearn/backend/internal/types"
)

// NotesTranscriptChars is how much of the leading transcript is sent to the
// single notes-generation LLM call (spec.md §4.6).
const NotesTranscriptChars = 10000

var notesSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"title", "summary", "sections"},
	"properties": map[string]any{
		"title":   map[string]any{"type": "string"},
		"summary": map[string]any{"type": "string"},
		"sections": map[string]any{
			"type":     "array",
			"minItems": 3,
			"maxItems": 5,
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"heading", "content", "key_concepts", "diagrams"},
				"properties": map[string]any{
					"heading":      map[string]any{"type": "string"},
					"content":      map[string]any{"type": "string"},
					"key_concepts": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"diagrams": map[string]any{
						"type":     "array",
						"minItems": 0,
						"maxItems": 4,
						"items": map[string]any{
							"type":                 "object",
							"additionalProperties": false,
							"required":             []string{"type", "code", "title", "purpose"},
							"properties": map[string]any{
								"type":    map[string]any{"type": "string", "enum": []string{"flow", "pie", "state", "sequence", "class", "gantt", "mindmap", "git"}},
								"code":    map[string]any{"type": "string"},
								"title":   map[string]any{"type": "string"},
								"purpose": map[string]any{"type": "string"},
							},
						},
					},
				},
			},
		},
	},
}

const notesSystemPrompt = `You are a study-notes author. Given a video transcript excerpt, produce a title, a short summary, and 3 to 5 sections (heading, content, key_concepts). Across all sections combined, include 2 to 4 diagrams using at least two distinct diagram types from the allowed set, each with valid DSL source in "code" and a one-line "purpose".`

// NotesGenerator produces a single structured study document per video in
// one LLM call (spec.md §4.6).
type NotesGenerator interface {
	Generate(ctx context.Context, video *types.Video, fullText string) (*types.Notes, error)
}

type notesGenerator struct {
	log   *logger.Logger
	llm   llm.Client
	notes repos.NotesRepo
}

func NewNotesGenerator(log *logger.Logger, llmClient llm.Client, notesRepo repos.NotesRepo) NotesGenerator {
	return &notesGenerator{log: log.With("service", "NotesGenerator"), llm: llmClient, notes: notesRepo}
}

type notesPayload struct {
	Title    string               `json:"title"`
	Summary  string               `json:"summary"`
	Sections []types.NotesSection `json:"sections"`
}

func (g *notesGenerator) Generate(ctx context.Context, video *types.Video, fullText string) (*types.Notes, error) {
	excerpt := fullText
	if len(excerpt) > NotesTranscriptChars {
		excerpt = excerpt[:NotesTranscriptChars]
	}

	user := fmt.Sprintf("Video title: %s\n\nTranscript excerpt:\n%s", video.Title, excerpt)

	raw, err := g.llm.GenerateJSON(ctx, notesSystemPrompt, user, "video_notes", notesSchema)
	if err != nil {
		return nil, fmt.Errorf("notes synthesis: %w", err)
	}

	payload, err := decodeNotesPayload(raw)
	if err != nil {
		return nil, fmt.Errorf("notes payload decode: %w", err)
	}
	if err := validateDiagramDiversity(payload.Sections); err != nil {
		g.log.Warn("notes diagram diversity requirement unmet, keeping generated content anyway", "error", err, "video_id", video.ID)
	}

	sectionsJSON, err := json.Marshal(payload.Sections)
	if err != nil {
		return nil, fmt.Errorf("marshal sections: %w", err)
	}

	existing, err := g.notes.GetByVideoID(ctx, nil, video.ID)
	if err == nil && existing != nil {
		if err := g.notes.Replace(ctx, nil, video.ID, payload.Title, payload.Summary, sectionsJSON); err != nil {
			return nil, fmt.Errorf("replace notes: %w", err)
		}
		existing.Title = payload.Title
		existing.Summary = payload.Summary
		existing.Sections = sectionsJSON
		return existing, nil
	}

	created := &types.Notes{
		VideoID:  video.ID,
		Title:    payload.Title,
		Summary:  payload.Summary,
		Sections: sectionsJSON,
	}
	rows, err := g.notes.Create(ctx, nil, []*types.Notes{created})
	if err != nil {
		return nil, fmt.Errorf("create notes: %w", err)
	}
	return rows[0], nil
}

func decodeNotesPayload(raw map[string]any) (*notesPayload, error) {
	bytes, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var payload notesPayload
	if err := json.Unmarshal(bytes, &payload); err != nil {
		return nil, err
	}
	if len(payload.Sections) < 3 || len(payload.Sections) > 5 {
		return nil, fmt.Errorf("expected 3-5 sections, got %d", len(payload.Sections))
	}
	return &payload, nil
}

func validateDiagramDiversity(sections []types.NotesSection) error {
	total := 0
	distinct := map[types.DiagramType]bool{}
	for _, s := range sections {
		for _, d := range s.Diagrams {
			total++
			distinct[d.Type] = true
		}
	}
	if total < 2 || total > 4 {
		return fmt.Errorf("expected 2-4 diagrams total, got %d", total)
	}
	if len(distinct) < 2 {
		return fmt.Errorf("expected at least 2 distinct diagram types, got %d", len(distinct))
	}
	return nil
}
