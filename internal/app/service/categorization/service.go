package categorization

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	models "github.com/fitdesk/gymcrm/internal/models"
	"github.com/fitdesk/gymcrm/pkg/config"
	"github.com/fitdesk/gymcrm/pkg/logctx"
)

// Service loads the member+transaction snapshot and recomputes the buckets on
// every call. Categorization state is never persisted; the engine is cheap and
// fresh data beats cache invalidation here.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, db: db, log: log}
}

func (s *Service) options() Options {
	opts := DefaultOptions()
	if s.cfg != nil {
		if d := s.cfg.Categorization.DueSoonDays; d > 0 {
			opts.DueSoonDays = d
		}
		if d := s.cfg.Categorization.LongTermDays; d > 0 {
			opts.LongTermDays = d
		}
	}
	return opts
}

// LoadSnapshot fetches all members and their transactions and joins them in
// memory by member id.
func (s *Service) LoadSnapshot(ctx context.Context) ([]MemberWithTransactions, error) {
	var members []*models.Member
	if err := s.db.WithContext(ctx).Order("join_date").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	var txs []*models.Transaction
	if err := s.db.WithContext(ctx).Order("start_date").Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	byMember := lo.GroupBy(txs, func(t *models.Transaction) string { return t.MemberID })

	snapshot := make([]MemberWithTransactions, 0, len(members))
	for _, m := range members {
		snapshot = append(snapshot, MemberWithTransactions{Member: m, Transactions: byMember[m.ID]})
	}
	return snapshot, nil
}

// CategorizeAt recomputes the four buckets against the supplied reference time.
func (s *Service) CategorizeAt(ctx context.Context, now time.Time) (*Result, error) {
	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	result := Categorize(snapshot, now, s.options())
	logctx.FromCtx(ctx, s.log).Infow("categorized members",
		"total", len(snapshot),
		"active", len(result.Active),
		"due_soon", len(result.DueSoon),
		"overdue", len(result.Overdue),
		"inactive", len(result.Inactive),
	)
	return result, nil
}
