package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"pttech-backend/pkg/logger"
)

// Lifecycle is the publication state shared by every admin-managed record:
// soft delete, visibility, and optional delayed publish. Entities embed it
// instead of repeating the three columns.
type Lifecycle struct {
	IsActive      bool       `json:"is_active"`
	IsDeleted     bool       `json:"is_deleted"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
}

// Visible reports whether a record should appear in default (public) queries.
func (l Lifecycle) Visible() bool {
	return l.IsActive && !l.IsDeleted
}

// DueForPublish reports whether the sweep should flip this record active.
func (l Lifecycle) DueForPublish(now time.Time) bool {
	return !l.IsActive && !l.IsDeleted &&
		l.ScheduledDate != nil && !l.ScheduledDate.After(now)
}

// SweptTables lists every table carrying the lifecycle columns. Table names
// are compile-time constants; they are interpolated into SQL below.
var SweptTables = []string{
	"products",
	"brands",
	"categories",
	"discount_codes",
	"policies",
	"ad_banners",
	"contacts",
}

// Sweeper flips scheduled records active once their publish date passes.
type Sweeper struct {
	pool *pgxpool.Pool
}

func NewSweeper(pool *pgxpool.Pool) *Sweeper {
	return &Sweeper{pool: pool}
}

// Sweep runs one idempotent pass over every registered table. Each table is
// a single UPDATE, so concurrent or repeated sweeps cannot double-publish.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	var total int64
	now := time.Now()

	for _, table := range SweptTables {
		query := fmt.Sprintf(`
			UPDATE %s
			SET is_active = TRUE, scheduled_date = NULL, updated_at = $1
			WHERE scheduled_date <= $1
			  AND is_active = FALSE
			  AND is_deleted = FALSE
		`, table)

		tag, err := s.pool.Exec(ctx, query, now)
		if err != nil {
			return total, fmt.Errorf("publish sweep on %s: %w", table, err)
		}
		if n := tag.RowsAffected(); n > 0 {
			total += n
			logger.Info("published scheduled records", map[string]interface{}{
				"table": table,
				"count": n,
			})
		}
	}

	return total, nil
}
