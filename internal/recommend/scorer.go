package recommend

import (
	"strings"

	"github.com/qs3c/demostar_server/internal/pkg/similarity"
)

// Weights 各项得分的权重
type Weights struct {
	Category   float64
	Title      float64
	Popularity float64
}

// DefaultWeights 类别 1、标题 1、热度 2
var DefaultWeights = Weights{Category: 1.0, Title: 1.0, Popularity: 2.0}

// Scorer 计算候选条目相对参考条目的相关度
type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score = 类别一致加分 + 标题相似度 + 浏览量占比加分。
// maxViews 为候选集中最大浏览量，为 0 时不计热度。
func (s *Scorer) Score(candidate, reference *Item, maxViews int64) float64 {
	var score float64

	if candidate.Category == reference.Category {
		score += s.weights.Category
	}

	score += s.weights.Title * similarity.Similarity(
		strings.ToLower(candidate.Title),
		strings.ToLower(reference.Title),
	)

	if maxViews > 0 {
		score += s.weights.Popularity * float64(candidate.ViewCount) / float64(maxViews)
	}

	return score
}
