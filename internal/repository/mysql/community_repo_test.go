package mysql

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"anonworld/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ptr[T any](v T) *T { return &v }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库每个连接独立，固定为单连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

// seed c1: token t1 + fid 100（存在）
// c2: fid 200（farcaster 不存在）+ twitter bob（存在）
// c3: 无任何关联
func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&model.Token{
		ID:       "t1",
		ChainID:  8453,
		Address:  "0x0000000000000000000000000000000000000001",
		Type:     model.TokenTypeERC20,
		Symbol:   "ANON",
		Name:     "Anon",
		Decimals: 18,
	}).Error)
	require.NoError(t, db.Create(&model.FarcasterAccount{
		Fid:      100,
		Metadata: datatypes.JSON(`{"username":"alice"}`),
	}).Error)
	require.NoError(t, db.Create(&model.TwitterAccount{
		Username: "bob",
		Metadata: datatypes.JSON(`{"screen_name":"bob","followers_count":12}`),
	}).Error)

	communities := []model.Community{
		{ID: "c1", Name: "Community One", TokenID: ptr("t1"), Fid: ptr[int64](100)},
		{ID: "c2", Name: "Community Two", Fid: ptr[int64](200), TwitterUsername: ptr("bob")},
		{ID: "c3", Name: "Community Three"},
	}
	require.NoError(t, db.Create(&communities).Error)
}

func TestCommunityRepository_Get(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	repo := NewCommunityRepository(db)
	ctx := context.Background()

	t.Run("token and farcaster resolved", func(t *testing.T) {
		c, err := repo.Get(ctx, "c1")
		require.NoError(t, err)

		assert.Equal(t, "c1", c.ID)
		assert.Equal(t, "Community One", c.Name)
		require.NotNil(t, c.Token)
		assert.Equal(t, "t1", c.Token.ID)
		assert.Equal(t, int64(8453), c.Token.ChainID)
		assert.Equal(t, "ANON", c.Token.Symbol)
		assert.Equal(t, 18, c.Token.Decimals)
		assert.JSONEq(t, `{"username":"alice"}`, string(c.Farcaster))
		fc, err := c.FarcasterUser()
		require.NoError(t, err)
		assert.Equal(t, "alice", fc.Username)
		assert.Nil(t, c.Twitter)
	})

	t.Run("missing farcaster row is nil", func(t *testing.T) {
		c, err := repo.Get(ctx, "c2")
		require.NoError(t, err)

		assert.Nil(t, c.Token)
		assert.Nil(t, c.Farcaster)
		tw, err := c.TwitterUser()
		require.NoError(t, err)
		assert.Equal(t, &model.TwitterUser{ScreenName: "bob", FollowersCount: 12}, tw)
	})

	t.Run("no relations", func(t *testing.T) {
		c, err := repo.Get(ctx, "c3")
		require.NoError(t, err)

		assert.Nil(t, c.Token)
		assert.Nil(t, c.Farcaster)
		assert.Nil(t, c.Twitter)
	})

	t.Run("not found", func(t *testing.T) {
		c, err := repo.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrCommunityNotFound)
		assert.Nil(t, c)
	})
}

func TestCommunityRepository_GetMalformedMetadata(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&model.FarcasterAccount{
		Fid:      7,
		Metadata: datatypes.JSON(`["not","an","object"]`),
	}).Error)
	require.NoError(t, db.Create(&model.Community{ID: "bad", Name: "Bad", Fid: ptr[int64](7)}).Error)

	_, err := NewCommunityRepository(db).Get(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrMalformedMetadata)
}

func TestCommunityRepository_GetKeepsMetadataPayload(t *testing.T) {
	db := setupTestDB(t)
	payload := `{"fid":100,"username":"alice","follower_count":0,"power_badge":true,"profile":{"bio":{"text":"hi"}}}`
	require.NoError(t, db.Create(&model.FarcasterAccount{Fid: 100, Metadata: datatypes.JSON(payload)}).Error)
	require.NoError(t, db.Create(&model.FarcasterAccount{Fid: 200, Metadata: datatypes.JSON(`null`)}).Error)
	require.NoError(t, db.Create(&model.TwitterAccount{Username: "bob", Metadata: datatypes.JSON(`null`)}).Error)
	require.NoError(t, db.Create(&model.Community{ID: "c1", Name: "One", Fid: ptr[int64](100)}).Error)
	require.NoError(t, db.Create(&model.Community{ID: "c2", Name: "Two", Fid: ptr[int64](200), TwitterUsername: ptr("bob")}).Error)
	repo := NewCommunityRepository(db)
	ctx := context.Background()

	c1, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(c1.Farcaster))

	out, err := json.Marshal(c1)
	require.NoError(t, err)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.JSONEq(t, payload, string(decoded["farcaster"]))
	assert.Equal(t, "null", string(decoded["twitter"]))

	c2, err := repo.Get(ctx, "c2")
	require.NoError(t, err)
	assert.Nil(t, c2.Farcaster)
	assert.Nil(t, c2.Twitter)
	fc, err := c2.FarcasterUser()
	require.NoError(t, err)
	assert.Nil(t, fc)
}

func TestCommunityRepository_List(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	repo := NewCommunityRepository(db)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)

	byID := map[string]model.CommunityView{}
	for _, c := range list {
		byID[c.ID] = c
	}
	require.NotNil(t, byID["c1"].Token)
	assert.Equal(t, "t1", byID["c1"].Token.ID)
	assert.JSONEq(t, `{"username":"alice"}`, string(byID["c1"].Farcaster))
	assert.Nil(t, byID["c2"].Token)
	assert.Nil(t, byID["c2"].Farcaster)
	assert.JSONEq(t, `{"screen_name":"bob","followers_count":12}`, string(byID["c2"].Twitter))
	assert.Nil(t, byID["c3"].Token)
	assert.Nil(t, byID["c3"].Farcaster)
	assert.Nil(t, byID["c3"].Twitter)
}

func TestCommunityRepository_ListEmpty(t *testing.T) {
	db := setupTestDB(t)

	list, err := NewCommunityRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCommunityRepository_ListPage(t *testing.T) {
	db := setupTestDB(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&model.Community{ID: fmt.Sprintf("c%02d", i), Name: "n"}).Error)
	}
	repo := NewCommunityRepository(db)
	ctx := context.Background()

	var seen []string
	cursor := ""
	for pages := 0; ; pages++ {
		require.Less(t, pages, 5)
		list, next, err := repo.ListPage(ctx, cursor, 2)
		require.NoError(t, err)
		for _, c := range list {
			seen = append(seen, c.ID)
		}
		if next == "" {
			break
		}
		cursor = next
	}
	assert.Equal(t, []string{"c00", "c01", "c02", "c03", "c04"}, seen)
}

func TestCommunityRepository_ListPageClampsLimit(t *testing.T) {
	db := setupTestDB(t)
	rows := make([]model.Community, 0, maxPageSize+5)
	for i := 0; i < maxPageSize+5; i++ {
		rows = append(rows, model.Community{ID: fmt.Sprintf("c%03d", i), Name: "n"})
	}
	require.NoError(t, db.CreateInBatches(&rows, 50).Error)
	repo := NewCommunityRepository(db)
	ctx := context.Background()

	list, next, err := repo.ListPage(ctx, "", 500)
	require.NoError(t, err)
	assert.Len(t, list, maxPageSize)
	assert.Equal(t, fmt.Sprintf("c%03d", maxPageSize-1), next)

	list, _, err = repo.ListPage(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, list, defaultPageSize)
}

func TestCommunityRepository_GetForAccounts(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	require.NoError(t, db.Create(&model.Community{ID: "c4", Name: "Four", Fid: ptr[int64](42), TwitterUsername: ptr("carol")}).Error)
	require.NoError(t, db.Create(&model.Community{ID: "c5", Name: "Five", Fid: ptr[int64](42)}).Error)
	repo := NewCommunityRepository(db)
	ctx := context.Background()

	ids := func(list []model.Community) []string {
		out := make([]string, 0, len(list))
		for _, c := range list {
			out = append(out, c.ID)
		}
		return out
	}

	t.Run("both empty matches nothing", func(t *testing.T) {
		list, err := repo.GetForAccounts(ctx, nil, []string{})
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("fids only", func(t *testing.T) {
		list, err := repo.GetForAccounts(ctx, []int64{42}, nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"c4", "c5"}, ids(list))
	})

	t.Run("usernames only", func(t *testing.T) {
		list, err := repo.GetForAccounts(ctx, nil, []string{"bob"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"c2"}, ids(list))
	})

	t.Run("either matches", func(t *testing.T) {
		list, err := repo.GetForAccounts(ctx, []int64{100}, []string{"carol"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"c1", "c4"}, ids(list))
	})
}

func TestCommunityRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db)
	repo := NewCommunityRepository(db)
	ctx := context.Background()

	before, err := repo.Get(ctx, "c1")
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, "c1", map[string]any{"name": "X", "description": "renamed"}))

	after, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "X", after.Name)
	assert.Equal(t, "renamed", after.Description)
	assert.Equal(t, before.Token, after.Token)
	assert.Equal(t, before.Farcaster, after.Farcaster)
	assert.Equal(t, before.Twitter, after.Twitter)

	t.Run("only given columns are written", func(t *testing.T) {
		assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
	})

	t.Run("missing id is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.Update(ctx, "missing", map[string]any{"name": "ghost"}))
		_, err := repo.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrCommunityNotFound)
	})

	t.Run("derived fields rejected", func(t *testing.T) {
		err := repo.Update(ctx, "c1", map[string]any{"farcaster": map[string]any{"username": "eve"}})
		assert.ErrorIs(t, err, ErrDerivedField)
	})

	t.Run("foreign key column is writable", func(t *testing.T) {
		require.NoError(t, repo.Update(ctx, "c3", map[string]any{"token_id": "t1"}))
		c, err := repo.Get(ctx, "c3")
		require.NoError(t, err)
		require.NotNil(t, c.Token)
		assert.Equal(t, "t1", c.Token.ID)
	})

	t.Run("empty fields", func(t *testing.T) {
		assert.NoError(t, repo.Update(ctx, "c1", nil))
	})
}
