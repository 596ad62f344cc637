// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package recommend

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Score is a similarity value in [0, 1] that may be absent.
//
// Absent means the similarity could not be evaluated, for example because
// one product has no usable text or no image features. It is distinct from
// a present score of 0, which means the products were compared and share
// nothing.
type Score struct {
	Value   float64
	Present bool
}

// Absent returns a score that could not be evaluated.
func Absent() Score {
	return Score{}
}

// Present returns an evaluated score clipped to [0, 1].
func Present(v float64) Score {
	return Score{Value: clip01(v), Present: true}
}

// Or returns the value when present and fallback otherwise.
func (s Score) Or(fallback float64) float64 {
	if s.Present {
		return s.Value
	}
	return fallback
}

// String renders the score with three decimals, or "n/a" when absent.
func (s Score) String() string {
	if !s.Present {
		return "n/a"
	}
	return strconv.FormatFloat(s.Value, 'f', 3, 64)
}

// MarshalJSON encodes an absent score as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Present {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, s.Value, 'g', -1, 64), nil
}

// UnmarshalJSON accepts a number or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	str := strings.TrimSpace(string(data))
	if str == "null" {
		*s = Absent()
		return nil
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}
	*s = Present(v)
	return nil
}

// Weights are the relative contributions of the text and image modalities.
// They need not sum to 1.
type Weights struct {
	Text  float64 `json:"text" koanf:"text_weight"`
	Image float64 `json:"image" koanf:"image_weight"`
}

// Validate reports ErrContractViolation for negative, non-finite or
// all-zero weights.
func (w Weights) Validate() error {
	if err := checkWeight("text", w.Text); err != nil {
		return err
	}
	if err := checkWeight("image", w.Image); err != nil {
		return err
	}
	if w.Text == 0 && w.Image == 0 {
		return fmt.Errorf("%w: at least one weight must be positive", ErrContractViolation)
	}
	return nil
}

func checkWeight(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s weight must be finite, got %v", ErrContractViolation, name, v)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s weight must be non-negative, got %v", ErrContractViolation, name, v)
	}
	return nil
}

// Mode selects which modalities contribute to the combined score.
type Mode string

const (
	// ModeText ranks by text similarity only.
	ModeText Mode = "text"
	// ModeImage ranks by image similarity only.
	ModeImage Mode = "image"
	// ModeCombined ranks by the configured weighted average.
	ModeCombined Mode = "combined"
)

// ParseMode parses a mode name. The empty string selects ModeCombined.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeText:
		return ModeText, nil
	case ModeImage:
		return ModeImage, nil
	case ModeCombined, "":
		return ModeCombined, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q (want text, image or combined)", ErrContractViolation, s)
	}
}

// Weights returns the weights the mode implies. Combined mode returns base.
func (m Mode) Weights(base Weights) Weights {
	switch m {
	case ModeText:
		return Weights{Text: 1}
	case ModeImage:
		return Weights{Image: 1}
	default:
		return base
	}
}

// ModeOf names the mode a set of weights corresponds to.
func ModeOf(w Weights) Mode {
	switch {
	case w.Image == 0:
		return ModeText
	case w.Text == 0:
		return ModeImage
	default:
		return ModeCombined
	}
}

// SimilarityResult is the comparison of one candidate against the target.
type SimilarityResult struct {
	CandidateID     string       `json:"candidate_id"`
	Name            string       `json:"name,omitempty"`
	Category        string       `json:"category,omitempty"`
	TextSimilarity  Score        `json:"text_similarity"`
	ImageSimilarity Score        `json:"image_similarity"`
	CombinedScore   float64      `json:"combined_score"`
	Explanation     *Explanation `json:"explanation,omitempty"`
}

// Explanation lists human-readable reasons a candidate was recommended.
type Explanation struct {
	SharedTerms      []string            `json:"shared_terms,omitempty"`
	ColorSimilarity  string              `json:"color_similarity,omitempty"`
	SameCategory     bool                `json:"same_category"`
	SharedAttributes map[string][]string `json:"shared_attributes,omitempty"`
}

// Reasons renders the explanation as short phrases.
func (e *Explanation) Reasons() []string {
	if e == nil {
		return nil
	}
	var reasons []string
	if len(e.SharedTerms) > 0 {
		reasons = append(reasons, "shared terms: "+strings.Join(e.SharedTerms, ", "))
	}
	if e.ColorSimilarity != "" {
		reasons = append(reasons, e.ColorSimilarity)
	}
	if e.SameCategory {
		reasons = append(reasons, "same category")
	}
	for _, group := range sortedKeys(e.SharedAttributes) {
		reasons = append(reasons, group+": "+strings.Join(e.SharedAttributes[group], ", "))
	}
	return reasons
}

// RecommendationList is the ranked answer for one target product.
type RecommendationList struct {
	TargetID string             `json:"target_id"`
	Mode     Mode               `json:"mode"`
	Weights  Weights            `json:"weights"`
	K        int                `json:"k"`
	Results  []SimilarityResult `json:"results"`
	Metadata ListMetadata       `json:"metadata"`
}

// ListMetadata describes how a RecommendationList was produced.
type ListMetadata struct {
	Candidates     int       `json:"candidates"`
	TextAbsent     int       `json:"text_absent"`
	ImageAbsent    int       `json:"image_absent"`
	TargetHasImage bool      `json:"target_has_image"`
	LatencyMS      int64     `json:"latency_ms"`
	CacheHit       bool      `json:"cache_hit"`
	Timestamp      time.Time `json:"timestamp"`
}

// IDs returns the candidate ids in rank order.
func (l *RecommendationList) IDs() []string {
	ids := make([]string, len(l.Results))
	for i := range l.Results {
		ids[i] = l.Results[i].CandidateID
	}
	return ids
}

// clone returns a copy safe to hand out from the result cache.
func (l *RecommendationList) clone() *RecommendationList {
	c := *l
	c.Results = make([]SimilarityResult, len(l.Results))
	copy(c.Results, l.Results)
	for i := range c.Results {
		c.Results[i].Explanation = c.Results[i].Explanation.clone()
	}
	return &c
}

func (e *Explanation) clone() *Explanation {
	if e == nil {
		return nil
	}
	c := *e
	c.SharedTerms = slices.Clone(e.SharedTerms)
	if e.SharedAttributes != nil {
		c.SharedAttributes = make(map[string][]string, len(e.SharedAttributes))
		for k, v := range e.SharedAttributes {
			c.SharedAttributes[k] = slices.Clone(v)
		}
	}
	return &c
}

// Pair is two products and their combined similarity.
type Pair struct {
	A               string  `json:"a"`
	B               string  `json:"b"`
	TextSimilarity  Score   `json:"text_similarity"`
	ImageSimilarity Score   `json:"image_similarity"`
	CombinedScore   float64 `json:"combined_score"`
}

func clip01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
