package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/videolearn/backend/internal/clients/llm"
	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/repos"
	"github.com/videolearn/backend/internal/types"
)

// Mastery thresholds partition per-question accuracy (spec.md §3, §4.7).
const (
	MasteryThresholdMastered = 0.80
	MasteryThresholdLearning = 0.50
)

// GrowthAreaTranscriptChars bounds how much leading transcript accompanies
// incorrect-question text in the growth-area LLM call (spec.md §4.7).
const GrowthAreaTranscriptChars = 1500

// ReportGenerator fuses transcript semantics with attempt statistics into a
// frozen snapshot (spec.md §4.7).
type ReportGenerator interface {
	Generate(ctx context.Context, userID, videoID uuid.UUID, quizID *uuid.UUID) (*types.Report, error)
}

type reportGenerator struct {
	log       *logger.Logger
	llm       llm.Client
	videos    repos.VideoRepo
	questions repos.QuestionRepo
	attempts  repos.AttemptRepo
	reports   repos.ReportRepo
}

func NewReportGenerator(log *logger.Logger, llmClient llm.Client, videos repos.VideoRepo, questions repos.QuestionRepo, attempts repos.AttemptRepo, reports repos.ReportRepo) ReportGenerator {
	return &reportGenerator{
		log:       log.With("service", "ReportGenerator"),
		llm:       llmClient,
		videos:    videos,
		questions: questions,
		attempts:  attempts,
		reports:   reports,
	}
}

type performanceStats struct {
	Total            int             `json:"total"`
	Correct          int             `json:"correct"`
	Incorrect        int             `json:"incorrect"`
	AccuracyRate     float64         `json:"accuracy_rate"`
	QuizAverageScore float64         `json:"quiz_average_score"`
	PerQuestion      map[string]stat `json:"per_question"`
}

type stat struct {
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
}

type attemptBreakdown struct {
	Flashcards int `json:"flashcards"`
	Quiz       int `json:"quiz"`
}

type weakArea struct {
	Concept     string `json:"concept"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

type masteryAnalysis struct {
	Mastered    []string `json:"mastered"`
	Learning    []string `json:"learning"`
	NeedsReview []string `json:"needs_review"`
}

type learningPathNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}
type learningPathEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}
type learningPath struct {
	Nodes []learningPathNode `json:"nodes"`
	Edges []learningPathEdge `json:"edges"`
}

type videoRecommendation struct {
	Concept      string   `json:"concept"`
	SearchQueries []string `json:"search_queries"`
	SearchURLs    []string `json:"search_urls"`
}

type semanticExtraction struct {
	VideoType  string   `json:"video_type"`
	Domain     string   `json:"domain"`
	MainTopics []string `json:"main_topics"`
	Keywords   map[string]int
}

func (g *reportGenerator) Generate(ctx context.Context, userID, videoID uuid.UUID, quizID *uuid.UUID) (*types.Report, error) {
	video, err := g.videos.GetByID(ctx, nil, videoID)
	if err != nil {
		return nil, fmt.Errorf("load video: %w", err)
	}

	attempts, err := g.attempts.GetByUserAndVideo(ctx, nil, userID, videoID)
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	questions, err := g.questions.GetByVideoID(ctx, nil, videoID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	var transcript types.Transcript
	if len(video.Transcript) > 0 {
		if err := json.Unmarshal(video.Transcript, &transcript); err != nil {
			g.log.Warn("failed to parse video transcript for report", "error", err, "video_id", videoID)
		}
	}

	questionByID := map[uuid.UUID]*types.Question{}
	for _, q := range questions {
		questionByID[q.ID] = q
	}

	perf := aggregatePerformance(attempts)
	breakdown := aggregateBreakdown(attempts)
	mastery := partitionMastery(perf.PerQuestion)

	incorrectTexts := incorrectQuestionTexts(attempts, questionByID)

	var semantic semanticExtraction
	var growth struct {
		WeakConcepts []weakArea `json:"weak_concepts"`
	}

	var aiTakeaways []string

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		result, err := g.extractSemantics(egCtx, transcript.FullText)
		if err != nil {
			g.log.Warn("semantic extraction failed", "error", err, "video_id", videoID)
			return nil
		}
		semantic = *result
		return nil
	})
	eg.Go(func() error {
		result, err := g.analyzeGrowthAreas(egCtx, incorrectTexts, transcript.FullText)
		if err != nil {
			g.log.Warn("growth area analysis failed", "error", err, "video_id", videoID)
			return nil
		}
		growth.WeakConcepts = result
		return nil
	})
	eg.Go(func() error {
		result, err := g.generateAITakeaways(egCtx, transcript.FullText)
		if err != nil {
			g.log.Warn("ai takeaway generation failed, falling back to deterministic takeaways", "error", err, "video_id", videoID)
			return nil
		}
		aiTakeaways = result
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	path := buildLearningPath(mastery, semantic.MainTopics)
	recommendations := g.buildVideoRecommendations(growth.WeakConcepts)
	takeaways := aiTakeaways
	if len(takeaways) == 0 {
		takeaways = buildKeyTakeaways(semantic.MainTopics, mastery)
	}

	report := &types.Report{
		UserID:  userID,
		VideoID: videoID,
		QuizID:  quizID,
	}
	report.PerformanceStats = mustJSON(perf)
	report.AttemptBreakdown = mustJSON(breakdown)
	report.WeakAreas = mustJSON(growth.WeakConcepts)
	report.MasteryAnalysis = mustJSON(mastery)
	report.LearningPath = mustJSON(path)
	report.VideoRecommendations = mustJSON(recommendations)
	report.KeyTakeaways = mustJSON(takeaways)
	report.VideoType = semantic.VideoType
	report.Domain = semantic.Domain
	report.MainTopics = mustJSON(semantic.MainTopics)
	if len(semantic.Keywords) > 0 {
		report.WordFrequency = mustJSON(semantic.Keywords)
	}

	created, err := g.reports.Create(ctx, nil, []*types.Report{report})
	if err != nil {
		return nil, fmt.Errorf("persist report: %w", err)
	}
	return created[0], nil
}

// aggregatePerformance implements the quiz-average-as-mean-of-per-session
// scores rule (spec.md §4.7, §8): each quiz_id is one session, its score is
// correct/total within that session, and quiz_average_score is the mean
// across sessions, not a flat mean over every quiz attempt.
func aggregatePerformance(attempts []*types.Attempt) performanceStats {
	stats := performanceStats{PerQuestion: map[string]stat{}}

	perQuestionCounts := map[uuid.UUID]*stat{}
	sessionCounts := map[uuid.UUID]struct{ correct, total int }{}

	for _, a := range attempts {
		stats.Total++
		if a.IsCorrect {
			stats.Correct++
		} else {
			stats.Incorrect++
		}

		s, ok := perQuestionCounts[a.QuestionID]
		if !ok {
			s = &stat{}
			perQuestionCounts[a.QuestionID] = s
		}
		s.Total++
		if a.IsCorrect {
			s.Correct++
		}

		if a.QuestionType == types.QuestionTypeQuiz && a.QuizID != nil {
			sc := sessionCounts[*a.QuizID]
			sc.total++
			if a.IsCorrect {
				sc.correct++
			}
			sessionCounts[*a.QuizID] = sc
		}
	}

	for qid, s := range perQuestionCounts {
		if s.Total > 0 {
			s.Accuracy = float64(s.Correct) / float64(s.Total)
		}
		stats.PerQuestion[qid.String()] = *s
	}

	if stats.Total > 0 {
		stats.AccuracyRate = float64(stats.Correct) / float64(stats.Total)
	}

	if len(sessionCounts) > 0 {
		var sum float64
		for _, sc := range sessionCounts {
			if sc.total > 0 {
				sum += float64(sc.correct) / float64(sc.total)
			}
		}
		stats.QuizAverageScore = (sum / float64(len(sessionCounts))) * 100
	}

	return stats
}

func aggregateBreakdown(attempts []*types.Attempt) attemptBreakdown {
	var b attemptBreakdown
	for _, a := range attempts {
		if a.QuestionType == types.QuestionTypeFlashcard {
			b.Flashcards++
		} else {
			b.Quiz++
		}
	}
	return b
}

// partitionMastery buckets per-question ids by accuracy
// (spec.md §3: ≥0.80 mastered, 0.50-0.79 learning, <0.50 needs_review),
// each sorted by question id and capped to its first 10 entries.
func partitionMastery(perQuestion map[string]stat) masteryAnalysis {
	var mastered, learning, needsReview []string
	for id, s := range perQuestion {
		switch {
		case s.Accuracy >= MasteryThresholdMastered:
			mastered = append(mastered, id)
		case s.Accuracy >= MasteryThresholdLearning:
			learning = append(learning, id)
		default:
			needsReview = append(needsReview, id)
		}
	}
	sort.Strings(mastered)
	sort.Strings(learning)
	sort.Strings(needsReview)
	return masteryAnalysis{
		Mastered:    capList(mastered, 10),
		Learning:    capList(learning, 10),
		NeedsReview: capList(needsReview, 10),
	}
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func incorrectQuestionTexts(attempts []*types.Attempt, questionByID map[uuid.UUID]*types.Question) []string {
	seen := map[uuid.UUID]bool{}
	var texts []string
	for _, a := range attempts {
		if a.IsCorrect || seen[a.QuestionID] {
			continue
		}
		seen[a.QuestionID] = true
		if q, ok := questionByID[a.QuestionID]; ok {
			texts = append(texts, q.QuestionText)
		}
	}
	return texts
}

var semanticSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"video_type", "domain", "main_topics", "keywords"},
	"properties": map[string]any{
		"video_type":  map[string]any{"type": "string"},
		"domain":      map[string]any{"type": "string"},
		"main_topics": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"keywords": map[string]any{
			"type":     "array",
			"maxItems": 30,
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"keyword", "importance"},
				"properties": map[string]any{
					"keyword":    map[string]any{"type": "string"},
					"importance": map[string]any{"type": "integer", "minimum": 20, "maximum": 100},
				},
			},
		},
	},
}

type semanticExtractionPayload struct {
	VideoType  string   `json:"video_type"`
	Domain     string   `json:"domain"`
	MainTopics []string `json:"main_topics"`
	Keywords   []struct {
		Keyword    string `json:"keyword"`
		Importance int    `json:"importance"`
	} `json:"keywords"`
}

// extractSemantics asks the LLM for video_type/domain/main_topics and a
// keyword-to-importance map normalized to [20, 100] (spec.md §4.7 step 1).
// On failure it falls back to a local, stop-word-filtered top-30 word
// frequency count instead of the LLM-derived importance scores, grounded on
// report_generator.py's extract_semantic_keywords exception branch calling
// generate_word_frequency.
func (g *reportGenerator) extractSemantics(ctx context.Context, fullText string) (*semanticExtraction, error) {
	if fullText == "" {
		return &semanticExtraction{}, nil
	}
	raw, err := g.llm.GenerateJSON(ctx,
		"Classify a video transcript's type, domain, main topics, and the top 30 semantically important keywords with importance scores from 20 to 100.",
		fullText, "semantic_extraction", semanticSchema)
	if err != nil {
		return &semanticExtraction{Keywords: wordFrequency(fullText)}, nil
	}
	bytes, err := json.Marshal(raw)
	if err != nil {
		return &semanticExtraction{Keywords: wordFrequency(fullText)}, nil
	}
	var payload semanticExtractionPayload
	if err := json.Unmarshal(bytes, &payload); err != nil {
		return &semanticExtraction{Keywords: wordFrequency(fullText)}, nil
	}

	keywords := make(map[string]int, len(payload.Keywords))
	for _, kw := range payload.Keywords {
		keywords[kw.Keyword] = kw.Importance
	}
	if len(keywords) == 0 {
		keywords = wordFrequency(fullText)
	}

	return &semanticExtraction{
		VideoType:  payload.VideoType,
		Domain:     payload.Domain,
		MainTopics: payload.MainTopics,
		Keywords:   keywords,
	}, nil
}

var wordFrequencyStopWords = map[string]bool{
	"the": true, "and": true, "but": true, "for": true, "with": true, "from": true,
	"this": true, "that": true, "these": true, "those": true, "what": true, "which": true,
	"when": true, "where": true, "why": true, "how": true, "all": true, "each": true,
	"every": true, "some": true, "any": true, "few": true, "more": true, "most": true,
	"other": true, "into": true, "through": true, "during": true, "before": true,
	"after": true, "above": true, "below": true, "between": true, "under": true,
	"again": true, "further": true, "then": true, "once": true, "here": true, "there": true,
	"both": true, "such": true, "only": true, "own": true, "same": true, "than": true,
	"too": true, "very": true, "just": true, "now": true, "video": true, "will": true,
	"would": true, "could": true, "should": true, "might": true, "must": true, "have": true,
	"has": true, "had": true, "does": true, "did": true, "are": true, "were": true,
	"been": true, "was": true, "they": true, "them": true, "their": true,
}

// wordFrequency is the deterministic, non-LLM keyword fallback: a
// stop-word-filtered count of words over 3 characters, capped to the top 30
// by frequency, grounded on report_generator.py's generate_word_frequency
// (SUPPLEMENTED FEATURES).
func wordFrequency(text string) map[string]int {
	freq := map[string]int{}
	for _, word := range strings.Fields(strings.ToLower(text)) {
		trimmed := strings.Trim(word, ".,!?;:\"'()")
		if len(trimmed) <= 3 || wordFrequencyStopWords[trimmed] {
			continue
		}
		freq[trimmed]++
	}

	type kv struct {
		word  string
		count int
	}
	ranked := make([]kv, 0, len(freq))
	for word, count := range freq {
		ranked = append(ranked, kv{word, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].word < ranked[j].word
	})
	if len(ranked) > 30 {
		ranked = ranked[:30]
	}

	top := make(map[string]int, len(ranked))
	for _, r := range ranked {
		top[r.word] = r.count
	}
	return top
}

var growthAreaSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"weak_concepts"},
	"properties": map[string]any{
		"weak_concepts": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"concept", "severity", "description"},
				"properties": map[string]any{
					"concept":     map[string]any{"type": "string"},
					"severity":    map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
					"description": map[string]any{"type": "string"},
				},
			},
		},
	},
}

func (g *reportGenerator) analyzeGrowthAreas(ctx context.Context, incorrectTexts []string, fullText string) ([]weakArea, error) {
	if len(incorrectTexts) == 0 {
		return nil, nil
	}

	excerpt := fullText
	if len(excerpt) > GrowthAreaTranscriptChars {
		excerpt = excerpt[:GrowthAreaTranscriptChars]
	}

	user := fmt.Sprintf("Incorrectly answered questions:\n%s\n\nTranscript excerpt:\n%s",
		strings.Join(incorrectTexts, "\n"), excerpt)

	raw, err := g.llm.GenerateJSON(ctx,
		"From incorrectly answered questions and transcript context, identify weak concepts. Frame recommendations positively, as growth opportunities.",
		user, "growth_areas", growthAreaSchema)
	if err != nil {
		return nil, err
	}

	bytes, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var result struct {
		WeakConcepts []weakArea `json:"weak_concepts"`
	}
	if err := json.Unmarshal(bytes, &result); err != nil {
		return nil, err
	}
	return result.WeakConcepts, nil
}

func buildLearningPath(mastery masteryAnalysis, mainTopics []string) learningPath {
	path := learningPath{}
	prev := ""
	for i, topic := range mainTopics {
		id := fmt.Sprintf("topic-%d", i)
		path.Nodes = append(path.Nodes, learningPathNode{ID: id, Label: topic})
		if prev != "" {
			path.Edges = append(path.Edges, learningPathEdge{From: prev, To: id})
		}
		prev = id
	}
	for i, qid := range mastery.NeedsReview {
		id := fmt.Sprintf("review-%d", i)
		path.Nodes = append(path.Nodes, learningPathNode{ID: id, Label: "Review: " + qid})
		if prev != "" {
			path.Edges = append(path.Edges, learningPathEdge{From: prev, To: id})
		}
		prev = id
	}
	return path
}

// buildVideoRecommendations emits up to 5 high-severity weak concepts with
// a deterministic search-URL encoding (spec.md §4.7).
func (g *reportGenerator) buildVideoRecommendations(weakConcepts []weakArea) []videoRecommendation {
	var highSeverity []weakArea
	for _, w := range weakConcepts {
		if w.Severity == "high" {
			highSeverity = append(highSeverity, w)
		}
	}
	if len(highSeverity) > 5 {
		highSeverity = highSeverity[:5]
	}

	recs := make([]videoRecommendation, 0, len(highSeverity))
	for _, w := range highSeverity {
		queries := []string{w.Concept + " explained", w.Concept + " tutorial"}
		urls := make([]string, 0, len(queries))
		for _, q := range queries {
			urls = append(urls, "https://www.youtube.com/results?search_query="+url.QueryEscape(q))
		}
		recs = append(recs, videoRecommendation{Concept: w.Concept, SearchQueries: queries, SearchURLs: urls})
	}
	return recs
}

var takeawaysSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"takeaways"},
	"properties": map[string]any{
		"takeaways": map[string]any{
			"type":     "array",
			"minItems": 1,
			"maxItems": 5,
			"items":    map[string]any{"type": "string"},
		},
	},
}

// generateAITakeaways is the LLM-first path for key takeaways; its caller
// falls back to buildKeyTakeaways on error or an empty result.
func (g *reportGenerator) generateAITakeaways(ctx context.Context, fullText string) ([]string, error) {
	if fullText == "" {
		return nil, fmt.Errorf("empty transcript")
	}
	raw, err := g.llm.GenerateJSON(ctx,
		"Summarize a video transcript into 3 to 5 short, learner-facing key takeaways.",
		fullText, "key_takeaways", takeawaysSchema)
	if err != nil {
		return nil, err
	}
	var result struct {
		Takeaways []string `json:"takeaways"`
	}
	bytes, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(bytes, &result); err != nil {
		return nil, err
	}
	return result.Takeaways, nil
}

// buildKeyTakeaways is the deterministic fallback used when the LLM
// takeaway call fails or returns nothing usable (spec.md's distillation
// dropped this fallback; reinstated from the reference implementation).
func buildKeyTakeaways(mainTopics []string, mastery masteryAnalysis) []string {
	takeaways := make([]string, 0, len(mainTopics)+1)
	for _, topic := range mainTopics {
		takeaways = append(takeaways, "You covered: "+topic)
	}
	if len(mastery.Mastered) > 0 {
		takeaways = append(takeaways, fmt.Sprintf("You've mastered %d concept(s) from this video.", len(mastery.Mastered)))
	}
	return takeaways
}

func mustJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}
	return b
}
