package maintenance

import (
	"context"
	"errors"
	"slices"

	"github.com/cognicore/knex/pkg/knex/keywords"
	"github.com/cognicore/knex/pkg/knex/store"
)

// Rescorer recomputes keywords and confidence of stored analyses, for
// instance after the tagger lexicon changed.
type Rescorer struct {
	Store  store.Store
	Engine *keywords.Engine
}

// Result summarizes the rescoring run.
type Result struct {
	Processed int
	Updated   int
	Errors    int
}

// Rescore replays every stored record through the engine and updates the
// ones whose keywords or confidence changed. Update failures are counted,
// not fatal; a failing List or a cancelled context stops the run.
func (r *Rescorer) Rescore(ctx context.Context) (Result, error) {
	var res Result
	if r.Store == nil || r.Engine == nil {
		return res, errors.New("rescorer: invalid configuration")
	}

	records, err := r.Store.List(ctx)
	if err != nil {
		return res, err
	}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Processed++

		scored := r.Engine.Score(rec.RawText)
		if slices.Equal(scored.Keywords, rec.Keywords) && scored.Confidence == rec.Confidence {
			continue
		}

		rec.Keywords = scored.Keywords
		rec.Confidence = scored.Confidence
		if err := r.Store.Update(ctx, rec); err != nil {
			res.Errors++
			continue
		}
		res.Updated++
	}
	return res, nil
}
