package member

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	models "github.com/fitdesk/gymcrm/internal/models"
	"github.com/fitdesk/gymcrm/pkg/config"
	"github.com/fitdesk/gymcrm/pkg/logctx"
	"github.com/fitdesk/gymcrm/pkg/tool"
	types "github.com/fitdesk/gymcrm/pkg/types"
)

// Service owns member records, check-ins and transaction ingestion. It writes
// the schema the categorization engine reads; the engine itself stays pure.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, db: db, log: log}
}

type RegisterMemberRequest struct {
	Name           string  `json:"name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	MembershipType *string `json:"membership_type"`
	// JoinDate defaults to now when omitted.
	JoinDate   *time.Time `json:"join_date"`
	OperatorId string     `json:"operator_id"`
	// InitialPayment records the membership payment taken at the front desk
	// during sign-up.
	InitialPayment *PaymentRecord `json:"initial_payment"`
}

// PaymentRecord is a payment entered by staff rather than reported by the
// payment processor.
type PaymentRecord struct {
	Amount             int64      `json:"amount"`
	Currency           string     `json:"currency"`
	SubscriptionPeriod string     `json:"subscription_period"`
	StartDate          time.Time  `json:"start_date"`
	EndingDate         *time.Time `json:"ending_date"`
	Status             string     `json:"status"`
}

func (p *PaymentRecord) transaction(memberID string) *models.Transaction {
	currency := p.Currency
	if currency == "" {
		currency = "KES"
	}
	startDate := p.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}
	return &models.Transaction{
		MemberID:           memberID,
		Amount:             p.Amount,
		Currency:           currency,
		SubscriptionPeriod: p.SubscriptionPeriod,
		StartDate:          startDate,
		EndingDate:         p.EndingDate,
		Status:             p.Status,
		Extra:              datatypes.NewJSONType(&models.TransactionExtra{}),
	}
}

// Register creates a new member in active status.
func (s *Service) Register(ctx context.Context, req *RegisterMemberRequest) (*models.Member, error) {
	if req == nil || req.Name == "" {
		return nil, fmt.Errorf("member name is required")
	}

	joinDate := time.Now()
	if req.JoinDate != nil && !req.JoinDate.IsZero() {
		joinDate = *req.JoinDate
	}

	m := &models.Member{
		ID:             tool.GenerateUUIDV7(),
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		MembershipType: req.MembershipType,
		Status:         string(types.MemberStatusActive),
		JoinDate:       joinDate,
		Extra:          datatypes.NewJSONType(&models.MemberExtra{OperatorId: req.OperatorId}),
	}

	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	if req.InitialPayment != nil {
		item := req.InitialPayment.transaction(m.ID)
		if err := s.IngestTransaction(ctx, item, types.TransactionChangeReasonRegistered); err != nil {
			return nil, fmt.Errorf("failed to record initial payment: %w", err)
		}
	}

	logctx.FromCtx(ctx, s.log).Infow("member registered", "member_id", m.ID)
	return m, nil
}

// RecordPayment stores a staff-entered payment for an existing member.
func (s *Service) RecordPayment(ctx context.Context, memberID string, record *PaymentRecord) (*models.Transaction, error) {
	if memberID == "" {
		return nil, fmt.Errorf("member id is required")
	}
	if record == nil {
		return nil, fmt.Errorf("payment record is required")
	}

	var m models.Member
	if err := s.db.WithContext(ctx).Where("id = ?", memberID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("member not found: %s", memberID)
		}
		return nil, fmt.Errorf("failed to load member: %w", err)
	}

	item := record.transaction(memberID)
	if err := s.IngestTransaction(ctx, item, types.TransactionChangeReasonManual); err != nil {
		return nil, err
	}
	return item, nil
}

// CheckIn records a gym visit for a member. Unknown member ids are rejected so
// the visit history stays joinable.
func (s *Service) CheckIn(ctx context.Context, memberID string, at time.Time) (*models.CheckIn, error) {
	if memberID == "" {
		return nil, fmt.Errorf("member id is required")
	}
	if at.IsZero() {
		at = time.Now()
	}

	var m models.Member
	if err := s.db.WithContext(ctx).Where("id = ?", memberID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("member not found: %s", memberID)
		}
		return nil, fmt.Errorf("failed to load member: %w", err)
	}

	ci := &models.CheckIn{
		ID:          tool.GenerateUUIDV7(),
		MemberID:    memberID,
		CheckInTime: at,
	}
	if err := s.db.WithContext(ctx).Create(ci).Error; err != nil {
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}
	return ci, nil
}

// IngestTransaction upserts a payment record coming from the external payment
// processor and keeps an audit log of the change.
func (s *Service) IngestTransaction(ctx context.Context, item *models.Transaction, reason types.TransactionChangeReason) error {
	if item == nil || item.MemberID == "" {
		return fmt.Errorf("transaction requires a member id")
	}

	// Normalize free-form fields up front so the stored row is already in
	// the closed vocabulary.
	item.Status = string(types.ParseTransactionStatus(item.Status))
	item.SubscriptionPeriod = string(types.ParseSubscriptionPeriod(item.SubscriptionPeriod))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var original models.Transaction
		var before *models.Transaction

		providerRef := ""
		if e := item.Extra.Data(); e != nil {
			providerRef = e.ProviderReference
		}

		if providerRef != "" {
			err := tx.WithContext(ctx).
				Where("extra->>'provider_reference' = ?", providerRef).
				First(&original).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to load original transaction: %w", err)
			}
		}

		if original.ID != "" {
			item.ID = original.ID
			item.CreatedAt = original.CreatedAt
			cp := original
			before = &cp
			if err := tx.WithContext(ctx).Save(item).Error; err != nil {
				return fmt.Errorf("failed to update transaction: %w", err)
			}
		} else {
			if item.ID == "" {
				item.ID = tool.GenerateUUIDV7()
			}
			if err := tx.WithContext(ctx).Create(item).Error; err != nil {
				return fmt.Errorf("failed to create transaction: %w", err)
			}
		}

		// Audit log is written asynchronously; failures are logged, not returned.
		// The goroutine outlives the request, so it gets its own copy of the
		// row and no request-scoped context.
		after := *item
		go func(before *models.Transaction, after models.Transaction) {
			log := &models.TransactionLog{
				ID:            tool.GenerateUUIDV7(),
				MemberID:      after.MemberID,
				TransactionID: after.ID,
				Reason:        reason,
				Before:        datatypes.NewJSONType(before),
				After:         datatypes.NewJSONType(&after),
				Extra:         datatypes.JSONMap{},
			}
			if err := s.db.Save(log).Error; err != nil {
				s.log.Errorf("failed to save transaction log: %v", err)
			}
		}(before, after)

		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to ingest transaction: %w", err)
	}

	logctx.FromCtx(ctx, s.log).Infow("transaction ingested",
		"member_id", item.MemberID, "transaction_id", item.ID, "reason", reason)
	return nil
}

// Scan request/response shared by the admin list endpoints.
type ScanRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanMembersResponse struct {
	Items []*models.Member `json:"items"`
	Total int64            `json:"total"`
}

type ScanTransactionsResponse struct {
	Items []*models.Transaction `json:"items"`
	Total int64                 `json:"total"`
}

// filtersAnd combines multiple CommonFilter into a single clause.Expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

// ScanMembers implements paginated admin listing with filters.
func (s *Service) ScanMembers(ctx context.Context, req *ScanRequest) (*ScanMembersResponse, error) {
	var rows []*models.Member
	total, err := s.scan(ctx, req, &models.Member{}, "join_date", &rows)
	if err != nil {
		return nil, err
	}
	return &ScanMembersResponse{Items: rows, Total: total}, nil
}

// ScanTransactions implements paginated admin listing with filters.
func (s *Service) ScanTransactions(ctx context.Context, req *ScanRequest) (*ScanTransactionsResponse, error) {
	var rows []*models.Transaction
	total, err := s.scan(ctx, req, &models.Transaction{}, "start_date", &rows)
	if err != nil {
		return nil, err
	}
	return &ScanTransactionsResponse{Items: rows, Total: total}, nil
}

func (s *Service) scan(ctx context.Context, req *ScanRequest, model any, defaultSort string, dest any) (int64, error) {
	if req == nil {
		return 0, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 100
	}

	tx := s.db.WithContext(ctx).Model(model)
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}

	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}

	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = defaultSort
	}
	q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: sortBy}, Desc: req.SortOrder != "asc"}}})

	if err := q.Find(dest).Error; err != nil {
		return 0, fmt.Errorf("failed to list rows: %w", err)
	}
	return total, nil
}
