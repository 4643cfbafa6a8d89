package service

import (
	"context"
	"errors"
	"time"

	"anonworld/internal/model"
	"anonworld/internal/pkg"
	"anonworld/internal/repository/mysql"

	"go.uber.org/zap"
)

var (
	ErrCommunityNotFound = errors.New("community not found")
	ErrInvalidFields     = errors.New("invalid update fields")
)

type CommunityStore interface {
	Get(ctx context.Context, id string) (*model.CommunityView, error)
	GetForAccounts(ctx context.Context, fids []int64, usernames []string) ([]model.Community, error)
	List(ctx context.Context) ([]model.CommunityView, error)
	ListPage(ctx context.Context, cursor string, limit int) ([]model.CommunityView, string, error)
	Update(ctx context.Context, communityID string, fields map[string]any) error
}

// EventPublisher 社区变更事件的发送端，nil 表示不发送
type EventPublisher interface {
	Send(ctx context.Context, key string, value []byte) error
}

type CommunityService struct {
	repo   CommunityStore
	events EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

func NewCommunityService(repo CommunityStore, events EventPublisher, log *zap.Logger) *CommunityService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommunityService{
		repo:   repo,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

func (s *CommunityService) GetCommunity(ctx context.Context, id string) (*model.CommunityView, error) {
	c, err := s.repo.Get(ctx, id)
	if errors.Is(err, mysql.ErrCommunityNotFound) {
		return nil, ErrCommunityNotFound
	}
	return c, err
}

func (s *CommunityService) CommunitiesForAccounts(ctx context.Context, fids []int64, usernames []string) ([]model.Community, error) {
	return s.repo.GetForAccounts(ctx, fids, usernames)
}

func (s *CommunityService) ListCommunities(ctx context.Context) ([]model.CommunityView, error) {
	return s.repo.List(ctx)
}

// ListCommunitiesPage 游标分页，首次 cursor 传空
func (s *CommunityService) ListCommunitiesPage(ctx context.Context, cursor string, size int) ([]model.CommunityView, string, error) {
	return s.repo.ListPage(ctx, cursor, size)
}

// UpdateCommunity 更新成功后发送变更事件；事件发送失败只记日志，不影响更新结果。
// fields 为空时什么都不做，也不发送事件
func (s *CommunityService) UpdateCommunity(ctx context.Context, operatorID uint64, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, mysql.ErrDerivedField) {
			return errors.Join(ErrInvalidFields, err)
		}
		return err
	}

	s.log.Info("community updated",
		zap.String("community_id", id),
		zap.Uint64("operator_id", operatorID),
		zap.Int("fields", len(fields)),
	)
	s.publish(ctx, id, operatorID, fields)
	return nil
}

func (s *CommunityService) publish(ctx context.Context, id string, operatorID uint64, fields map[string]any) {
	if s.events == nil {
		return
	}
	payload, err := pkg.NewCommunityUpdatedEvent(id, operatorID, fields, s.now()).Marshal()
	if err != nil {
		s.log.Warn("marshal community event failed", zap.String("community_id", id), zap.Error(err))
		return
	}
	if err := s.events.Send(ctx, id, payload); err != nil {
		s.log.Warn("send community event failed", zap.String("community_id", id), zap.Error(err))
	}
}
