package statistics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitdesk/gymcrm/internal/app/service/categorization"
	"github.com/fitdesk/gymcrm/internal/models"
	"github.com/fitdesk/gymcrm/pkg/tool"
	"github.com/fitdesk/gymcrm/pkg/types"
)

// Statistic types exposed to the dashboard charts.
type StatisticType string

const (
	// Revenue
	StatisticTypeDailyRevenue StatisticType = "daily_revenue"
	StatisticTypeTotalRevenue StatisticType = "total_revenue"

	// Visits
	StatisticTypeDailyCheckInCount StatisticType = "daily_check_in_count"

	// Member growth
	StatisticTypeDailyNewMemberCount         StatisticType = "daily_new_member_count"
	StatisticTypeDailyAccumulatedMemberCount StatisticType = "daily_accumulated_member_count"

	// Lifecycle buckets (from daily snapshots)
	StatisticTypeDailyBucketCounts StatisticType = "daily_bucket_counts"
)

type DashboardStatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type DashboardStatisticRequest struct {
	Filters   []*types.CommonFilter         `json:"filters"`
	DataItems []*DashboardStatisticDataItem `json:"data_items"`
}

// Build composes a WHERE clause from the request filters.
func (f *DashboardStatisticRequest) Build(builder clause.Builder) {
	if len(f.Filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, filter := range f.Filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		filter.Build(builder)
	}
}

type DashboardStatisticResponseDataItem struct {
	Date   string `json:"date"`
	Label  string `json:"label,omitempty"`
	Value  int64  `json:"value"`
	Value2 int64  `json:"value2,omitempty"`
	Value3 int64  `json:"value3,omitempty"`
	Value4 int64  `json:"value4,omitempty"`
}

type DashboardStatisticResponse struct {
	DataItems map[StatisticType][]DashboardStatisticResponseDataItem `json:"data_items"`
}

// Service provides dashboard statistics.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

// SaveMemberDailySnapshot freezes the categorization counts for one day.
// Deduplicated counts are stored so the buckets partition the member set.
func (s *Service) SaveMemberDailySnapshot(ctx context.Context, result *categorization.Result, snapshotDate time.Time) error {
	if result == nil {
		return fmt.Errorf("nil categorization result")
	}
	dedup := result.Deduplicated()
	snap := &models.MemberDailySnapshot{
		ID:                tool.GenerateUUIDV7(),
		SnapshotDate:      snapshotDate.Format(time.DateOnly),
		TotalCount:        int64(len(dedup.Active) + len(dedup.DueSoon) + len(dedup.Overdue) + len(dedup.Inactive)),
		ActiveCount:       int64(len(dedup.Active)),
		DueSoonCount:      int64(len(dedup.DueSoon)),
		OverdueCount:      int64(len(dedup.Overdue)),
		InactiveCount:     int64(len(dedup.Inactive)),
		SnapshotCreatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Create(snap).Error
}

func (s *Service) getDailyRevenue(ctx context.Context, request *DashboardStatisticRequest) ([]DashboardStatisticResponseDataItem, error) {
	var results []DashboardStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.Transaction{}).TableName()).
		Select("TO_CHAR(start_date, 'YYYY-MM-DD') as date, currency AS label, sum(amount) as value").
		Where("status = ?", types.TransactionStatusComplete).
		Where(clause.Where{Exprs: []clause.Expression{request}}).
		Group("TO_CHAR(start_date, 'YYYY-MM-DD')").
		Group("currency").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getTotalRevenue(ctx context.Context, _ *DashboardStatisticRequest) ([]DashboardStatisticResponseDataItem, error) {
	var results []DashboardStatisticResponseDataItem
	err := s.db.WithContext(ctx).Raw(`
SELECT currency AS label, COALESCE(SUM(amount), 0) AS value
FROM transaction
WHERE status = 'complete'
GROUP BY currency
ORDER BY label
`).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyCheckInCount(ctx context.Context, request *DashboardStatisticRequest) ([]DashboardStatisticResponseDataItem, error) {
	var results []DashboardStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.CheckIn{}).TableName()).
		Select("TO_CHAR(check_in_time, 'YYYY-MM-DD') as date, count(*) as value").
		Where(clause.Where{Exprs: []clause.Expression{request}}).
		Group("TO_CHAR(check_in_time, 'YYYY-MM-DD')").
		Order("date")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyNewMemberCount(ctx context.Context, _ *DashboardStatisticRequest) ([]DashboardStatisticResponseDataItem, error) {
	var results []DashboardStatisticResponseDataItem
	err := s.db.WithContext(ctx).Raw(`
SELECT TO_CHAR(DATE(join_date), 'YYYY-MM-DD') as date, COUNT(*) as value
FROM member
GROUP BY DATE(join_date)
ORDER BY date DESC
`).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyAccumulatedMemberCount(ctx context.Context, _ *DashboardStatisticRequest) ([]DashboardStatisticResponseDataItem, error) {
	var results []DashboardStatisticResponseDataItem
	err := s.db.WithContext(ctx).Raw(`
WITH min_max_dates AS (
    SELECT MIN(DATE(join_date)) as min_date, MAX(DATE(join_date)) as max_date FROM member
),
distinct_dates AS (
    SELECT generate_series(min_date, max_date, '1 day'::interval) as date FROM min_max_dates
),
member_date AS (
    SELECT id, DATE(join_date) as date FROM member
)
SELECT TO_CHAR(d.date, 'YYYY-MM-DD') as date, COUNT(DISTINCT m.id) as value
FROM distinct_dates d
LEFT JOIN member_date m ON m.date <= d.date
GROUP BY d.date
ORDER BY d.date DESC
`).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyBucketCounts(ctx context.Context, request *DashboardStatisticRequest) ([]DashboardStatisticResponseDataItem, error) {
	var results []DashboardStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.MemberDailySnapshot{}).TableName()).
		Select("snapshot_date as date, active_count as value, due_soon_count as value2, overdue_count as value3, inactive_count as value4").
		Where(clause.Where{Exprs: []clause.Expression{request}}).
		Order("snapshot_date")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDashboardStatistic(ctx context.Context, request *DashboardStatisticRequest, dataItem *DashboardStatisticDataItem) ([]DashboardStatisticResponseDataItem, error) {
	switch dataItem.ID {
	case StatisticTypeDailyRevenue:
		return s.getDailyRevenue(ctx, request)
	case StatisticTypeTotalRevenue:
		return s.getTotalRevenue(ctx, request)
	case StatisticTypeDailyCheckInCount:
		return s.getDailyCheckInCount(ctx, request)
	case StatisticTypeDailyNewMemberCount:
		return s.getDailyNewMemberCount(ctx, request)
	case StatisticTypeDailyAccumulatedMemberCount:
		return s.getDailyAccumulatedMemberCount(ctx, request)
	case StatisticTypeDailyBucketCounts:
		return s.getDailyBucketCounts(ctx, request)
	default:
		return nil, fmt.Errorf("invalid data item id: %s", dataItem.ID)
	}
}

// GetDashboardStatistic fans out over the requested data items concurrently.
func (s *Service) GetDashboardStatistic(ctx context.Context, request *DashboardStatisticRequest) (*DashboardStatisticResponse, error) {
	if request == nil || len(request.DataItems) == 0 {
		return &DashboardStatisticResponse{DataItems: map[StatisticType][]DashboardStatisticResponseDataItem{}}, nil
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(request.DataItems))
	resChan := make(chan *lo.Entry[StatisticType, []DashboardStatisticResponseDataItem], len(request.DataItems))

	for _, item := range request.DataItems {
		wg.Add(1)
		go func(di *DashboardStatisticDataItem) {
			defer wg.Done()
			res, err := s.getDashboardStatistic(ctx, request, di)
			if err != nil {
				errChan <- err
				return
			}
			resChan <- &lo.Entry[StatisticType, []DashboardStatisticResponseDataItem]{Key: di.ID, Value: res}
		}(item)
	}

	go func() { wg.Wait(); close(errChan); close(resChan) }()

	results := make(map[StatisticType][]DashboardStatisticResponseDataItem)
	for i := 0; i < len(request.DataItems); i++ {
		select {
		case err := <-errChan:
			if err != nil {
				return nil, err
			}
		case entry := <-resChan:
			results[entry.Key] = entry.Value
		}
	}
	return &DashboardStatisticResponse{DataItems: results}, nil
}
