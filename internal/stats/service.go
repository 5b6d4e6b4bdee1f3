package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 60 * time.Second

// Repository descreve as agregações exigidas pelo serviço.
type Repository interface {
	CountWorkers(ctx context.Context, orgID int64) (total, active int64, err error)
	FeedbackTotals(ctx context.Context, orgID int64) (likes, dislikes int64, err error)
	TopWorker(ctx context.Context, orgID int64, byDislikes bool) (*WorkerRef, error)
	MonthCounts(ctx context.Context, orgID int64, since time.Time) (feedback, newWorkers int64, err error)
	ByDepartment(ctx context.Context, orgID int64) ([]DepartmentCount, error)
}

// Service monta o resumo de estatísticas com cache curto por organização.
type Service struct {
	repo  Repository
	cache *redis.Client
	now   func() time.Time
}

// NewService cria novo serviço de estatísticas. cache pode ser nil.
func NewService(repo Repository, cache *redis.Client) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// Summary devolve o resumo da organização, aproveitando cache quando possível.
func (s *Service) Summary(ctx context.Context, orgID int64) (*Summary, error) {
	key := fmt.Sprintf("stats:org:%d", orgID)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var cached Summary
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		}
	}

	summary, err := s.build(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(summary); err == nil {
			_ = s.cache.Set(ctx, key, payload, cacheTTL).Err()
		}
	}

	return summary, nil
}

func (s *Service) build(ctx context.Context, orgID int64) (*Summary, error) {
	total, active, err := s.repo.CountWorkers(ctx, orgID)
	if err != nil {
		return nil, err
	}

	likes, dislikes, err := s.repo.FeedbackTotals(ctx, orgID)
	if err != nil {
		return nil, err
	}

	topLiked, err := s.repo.TopWorker(ctx, orgID, false)
	if err != nil {
		return nil, err
	}
	mostDisliked, err := s.repo.TopWorker(ctx, orgID, true)
	if err != nil {
		return nil, err
	}

	now := s.now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	feedbackMonth, newWorkersMonth, err := s.repo.MonthCounts(ctx, orgID, startOfMonth)
	if err != nil {
		return nil, err
	}

	byDepartment, err := s.repo.ByDepartment(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if byDepartment == nil {
		byDepartment = []DepartmentCount{}
	}

	totalFeedback := likes + dislikes
	var engagement float64
	if total > 0 {
		engagement = float64(totalFeedback) / float64(total)
	}

	return &Summary{
		TotalWorkers:        total,
		ActiveWorkers:       active,
		InactiveWorkers:     total - active,
		TotalLikes:          likes,
		TotalDislikes:       dislikes,
		TotalFeedback:       totalFeedback,
		EngagementRate:      engagement,
		TopLiked:            topLiked,
		MostDisliked:        mostDisliked,
		FeedbackThisMonth:   feedbackMonth,
		NewWorkersThisMonth: newWorkersMonth,
		ByDepartment:        byDepartment,
	}, nil
}
