package mysql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"anonworld/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrCommunityNotFound = errors.New("community not found")
	ErrDerivedField      = errors.New("derived field is not writable")
	ErrMalformedMetadata = errors.New("malformed account metadata")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// 只能通过关联表维护的字段，不允许经 Update 写入
var derivedFields = map[string]struct{}{
	"token":     {},
	"farcaster": {},
	"twitter":   {},
}

const joinedColumns = `communities.*,
	tokens.id AS t_id, tokens.chain_id AS t_chain_id, tokens.address AS t_address,
	tokens.type AS t_type, tokens.symbol AS t_symbol, tokens.name AS t_name,
	tokens.decimals AS t_decimals, tokens.image_url AS t_image_url, tokens.price_usd AS t_price_usd,
	farcaster_accounts.fid AS fa_fid, farcaster_accounts.metadata AS fa_metadata,
	twitter_accounts.username AS tw_username, twitter_accounts.metadata AS tw_metadata`

type CommunityRepository struct {
	DB *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) *CommunityRepository {
	return &CommunityRepository{DB: db}
}

// joinedToken left join 后 tokens 的列，未关联时全部为 NULL
type joinedToken struct {
	ID       *string
	ChainID  *int64
	Address  *string
	Type     *string
	Symbol   *string
	Name     *string
	Decimals *int
	ImageURL *string
	PriceUSD *string
}

// communityRow 一次 join 查询返回的扁平行
type communityRow struct {
	model.Community
	Token      joinedToken `gorm:"embedded;embeddedPrefix:t_"`
	FaFid      *int64      `gorm:"column:fa_fid"`
	FaMetadata *string     `gorm:"column:fa_metadata"`
	TwUsername *string     `gorm:"column:tw_username"`
	TwMetadata *string     `gorm:"column:tw_metadata"`
}

func (r *CommunityRepository) joined(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table("communities").
		Select(joinedColumns).
		Joins("LEFT JOIN tokens ON communities.token_id = tokens.id").
		Joins("LEFT JOIN farcaster_accounts ON communities.fid = farcaster_accounts.fid").
		Joins("LEFT JOIN twitter_accounts ON communities.twitter_username = twitter_accounts.username")
}

// Get 按 id 查询社区及其关联信息
func (r *CommunityRepository) Get(ctx context.Context, id string) (*model.CommunityView, error) {
	var rows []communityRow
	if err := r.joined(ctx).
		Where("communities.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrCommunityNotFound
	}
	return rows[0].toView()
}

// GetForAccounts 查询 fid 在 fids 中或 twitter_username 在 usernames 中的社区，不做关联
func (r *CommunityRepository) GetForAccounts(ctx context.Context, fids []int64, usernames []string) ([]model.Community, error) {
	list := []model.Community{}
	// 两个集合都为空时不匹配任何行
	if len(fids) == 0 && len(usernames) == 0 {
		return list, nil
	}

	q := r.DB.WithContext(ctx).Model(&model.Community{})
	switch {
	case len(fids) > 0 && len(usernames) > 0:
		q = q.Where("fid IN ?", fids).Or("twitter_username IN ?", usernames)
	case len(fids) > 0:
		q = q.Where("fid IN ?", fids)
	default:
		q = q.Where("twitter_username IN ?", usernames)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// List 全表 join 查询，无分页；数据量大时使用 ListPage
func (r *CommunityRepository) List(ctx context.Context) ([]model.CommunityView, error) {
	var rows []communityRow
	if err := r.joined(ctx).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toViews(rows)
}

// ListPage 按 id 升序的游标分页，cursor 为空表示第一页，返回的 next 为空表示没有下一页
func (r *CommunityRepository) ListPage(ctx context.Context, cursor string, limit int) ([]model.CommunityView, string, error) {
	switch {
	case limit <= 0:
		limit = defaultPageSize
	case limit > maxPageSize:
		limit = maxPageSize
	}
	q := r.joined(ctx)
	if cursor != "" {
		q = q.Where("communities.id > ?", cursor)
	}
	var rows []communityRow
	// 多取一条用于判断是否还有下一页
	if err := q.Order("communities.id ASC").Limit(limit + 1).Scan(&rows).Error; err != nil {
		return nil, "", err
	}
	var next string
	if len(rows) > limit {
		rows = rows[:limit]
		next = rows[limit-1].ID
	}
	views, err := toViews(rows)
	if err != nil {
		return nil, "", err
	}
	return views, next, nil
}

// Update 只写入 fields 中的列（不自动更新 updated_at）；fields 为空或 id 不存在时静默成功
func (r *CommunityRepository) Update(ctx context.Context, communityID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	for k := range fields {
		if _, ok := derivedFields[k]; ok {
			return fmt.Errorf("%w: %s", ErrDerivedField, k)
		}
	}
	return r.DB.WithContext(ctx).
		Model(&model.Community{}).
		Where("id = ?", communityID).
		UpdateColumns(fields).Error
}

func toViews(rows []communityRow) ([]model.CommunityView, error) {
	views := make([]model.CommunityView, 0, len(rows))
	for i := range rows {
		v, err := rows[i].toView()
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

func (row *communityRow) toView() (*model.CommunityView, error) {
	view := &model.CommunityView{Community: row.Community}
	view.Token = row.Token.toToken()

	if row.FaFid != nil && row.FaMetadata != nil {
		raw, err := checkMetadata(*row.FaMetadata, &model.FarcasterUser{})
		if err != nil {
			return nil, fmt.Errorf("community %s farcaster %d: %w", row.ID, *row.FaFid, err)
		}
		view.Farcaster = raw
	}
	if row.TwUsername != nil && row.TwMetadata != nil {
		raw, err := checkMetadata(*row.TwMetadata, &model.TwitterUser{})
		if err != nil {
			return nil, fmt.Errorf("community %s twitter %s: %w", row.ID, *row.TwUsername, err)
		}
		view.Twitter = raw
	}
	return view, nil
}

func (t joinedToken) toToken() *model.Token {
	if t.ID == nil {
		return nil
	}
	return &model.Token{
		ID:       *t.ID,
		ChainID:  deref(t.ChainID),
		Address:  deref(t.Address),
		Type:     deref(t.Type),
		Symbol:   deref(t.Symbol),
		Name:     deref(t.Name),
		Decimals: deref(t.Decimals),
		ImageURL: deref(t.ImageURL),
		PriceUSD: deref(t.PriceUSD),
	}
}

// checkMetadata 校验 metadata 能按 shape 解析，返回原始 payload；JSON null 视为未关联
func checkMetadata(raw string, shape any) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if err := json.Unmarshal(trimmed, shape); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
	}
	return datatypes.JSON(trimmed), nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
