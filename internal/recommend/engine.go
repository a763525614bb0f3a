package recommend

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/qs3c/demostar_server/internal/pkg/log"
)

// Engine 推荐引擎。每次请求全量扫描候选集，适用于千级以内的条目规模。
type Engine struct {
	source ItemSource
	scorer *Scorer
	limit  int
}

func NewEngine(source ItemSource, scorer *Scorer, limit int) *Engine {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Engine{
		source: source,
		scorer: scorer,
		limit:  limit,
	}
}

type scored struct {
	item  *Item
	score float64
}

// Recommend 返回与 referenceID 最相关的条目，不包含其本身。
// 参考条目不存在时返回空结果而非错误。
func (e *Engine) Recommend(ctx context.Context, referenceID int64) ([]*Result, error) {
	reference, err := e.source.GetItem(ctx, referenceID)
	if err != nil {
		return nil, fmt.Errorf("get reference item %d: %w", referenceID, err)
	}
	if reference == nil {
		return []*Result{}, nil
	}
	if err := validate(reference); err != nil {
		return nil, err
	}

	candidates, err := e.source.ListItemsExcept(ctx, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list candidates for %d: %w", referenceID, err)
	}

	var maxViews int64
	for _, c := range candidates {
		if c.ViewCount > maxViews {
			maxViews = c.ViewCount
		}
	}

	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == referenceID {
			continue
		}
		if err := validate(c); err != nil {
			return nil, err
		}
		ranked = append(ranked, scored{item: c, score: e.scorer.Score(c, reference, maxViews)})
	}

	// 分数相同时新发布的排前面
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].item.CreatedAt.After(ranked[j].item.CreatedAt)
	})

	if len(ranked) > e.limit {
		ranked = ranked[:e.limit]
	}

	results := make([]*Result, len(ranked))
	for i, r := range ranked {
		results[i] = &Result{
			ItemID:        r.item.ID,
			Title:         r.item.Title,
			URL:           r.item.URL,
			ActorID:       r.item.ActorID,
			ActorImageURL: r.item.ActorImageURL,
		}
	}

	return results, nil
}

func validate(item *Item) error {
	if item.Title == "" {
		log.L.Error("item without title cannot be scored", zap.Int64("item_id", item.ID))
		return fmt.Errorf("%w: item %d has empty title", ErrMalformedItem, item.ID)
	}
	return nil
}
