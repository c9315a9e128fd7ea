package database

import (
	"context"
	"fmt"
	"time"

	"github.com/siherrmann/metonym/helper"
)

// ChangeWordIndexType changes the trigram index on lemmas used for word suggestions.
// indexType: "gin" or "gist"
// params: optional parameters for index creation
//   - For GiST: "siglen" (int, default 12), the signature length in bytes
func (h *SensesDBHandler) ChangeWordIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	var createIndexSQL string

	switch indexType {
	case "gin":
		createIndexSQL = `CREATE INDEX idx_senses_lemma_trgm ON senses USING gin (lower(lemma) gin_trgm_ops);`

	case "gist":
		siglen := 12
		if siglenVal, ok := params["siglen"].(int); ok {
			siglen = siglenVal
		}
		if siglen < 1 || siglen > 2024 {
			return helper.NewError("change index type", fmt.Errorf("siglen must be between 1 and 2024, got %d", siglen))
		}

		createIndexSQL = fmt.Sprintf(
			`CREATE INDEX idx_senses_lemma_trgm ON senses USING gist (lower(lemma) gist_trgm_ops(siglen = %d));`,
			siglen,
		)

	default:
		return helper.NewError("change index type", fmt.Errorf("unsupported index type: %s (use 'gin' or 'gist')", indexType))
	}

	_, err := h.db.Instance.ExecContext(ctx, `DROP INDEX IF EXISTS idx_senses_lemma_trgm;`)
	if err != nil {
		return helper.NewError("drop index", err)
	}

	h.db.Logger.Info("Dropped existing word index")

	_, err = h.db.Instance.ExecContext(ctx, createIndexSQL)
	if err != nil {
		return helper.NewError("create index", err)
	}

	h.db.Logger.Info(fmt.Sprintf("Created %s word index with params: %v", indexType, params))

	return nil
}
