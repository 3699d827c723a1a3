package checklist

import "math"

// View tree: Step → Category → Item, each item annotated with its check
// record. Built per request from freshly fetched rows; nothing here is
// shared between page instances.
type (
	ItemView struct {
		CheckItem
		Record    *CheckRecord
		ActorName string
	}

	CategoryView struct {
		Category
		Items    []ItemView
		Progress int // percent cleared, [0, 100]
	}

	StepView struct {
		Step
		Categories []CategoryView
	}
)

func (iv ItemView) Cleared() bool {
	return iv.Record != nil && iv.Record.IsCleared
}

// Progress computes the cleared percentage, rounded and clamped to [0, 100].
// A category with no items reports 0.
func Progress(cleared, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(cleared) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// BuildBoard joins the four flat collections into the nested view tree.
// Pure and total: input ordering is preserved at every level and no I/O
// happens. Rows referencing a missing parent are dropped.
func BuildBoard(steps []Step, categories []Category, items []CheckItem, checks []CheckRecord) []StepView {
	checkByItem := make(map[string]CheckRecord, len(checks))
	for _, c := range checks {
		checkByItem[c.ItemID] = c
	}

	itemsByCategory := make(map[string][]ItemView, len(categories))
	for _, it := range items {
		iv := ItemView{CheckItem: it}
		if rec, ok := checkByItem[it.ID]; ok {
			rec := rec
			iv.Record = &rec
		}
		itemsByCategory[it.CategoryID] = append(itemsByCategory[it.CategoryID], iv)
	}

	categoriesByStep := make(map[string][]CategoryView, len(steps))
	for _, cat := range categories {
		its := itemsByCategory[cat.ID]
		var cleared int
		for _, iv := range its {
			if iv.Cleared() {
				cleared++
			}
		}
		cv := CategoryView{Category: cat, Items: its, Progress: Progress(cleared, len(its))}
		categoriesByStep[cat.StepID] = append(categoriesByStep[cat.StepID], cv)
	}

	board := make([]StepView, 0, len(steps))
	for _, st := range steps {
		board = append(board, StepView{Step: st, Categories: categoriesByStep[st.ID]})
	}
	return board
}

// ActorIDs collects the distinct cleared_by ids present on the board, in
// first-seen order.
func ActorIDs(board []StepView) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, st := range board {
		for _, cat := range st.Categories {
			for _, it := range cat.Items {
				if it.Record == nil || !it.Record.ClearedBy.Valid {
					continue
				}
				id := it.Record.ClearedBy.String
				if id == "" || seen[id] {
					continue
				}
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// AttachActors annotates the board's records with display names for their
// cleared_by actors. Unknown actors render as "Unknown".
func AttachActors(board []StepView, names map[string]string) {
	for si := range board {
		for ci := range board[si].Categories {
			items := board[si].Categories[ci].Items
			for ii := range items {
				rec := items[ii].Record
				if rec == nil || !rec.ClearedBy.Valid || rec.ClearedBy.String == "" {
					continue
				}
				if name, ok := names[rec.ClearedBy.String]; ok {
					items[ii].ActorName = name
				} else {
					items[ii].ActorName = "Unknown"
				}
			}
		}
	}
}
