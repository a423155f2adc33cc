package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"civic-feedback-server/database"
	"civic-feedback-server/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestGormFeedbackStoreRoundTrip(t *testing.T) {
	store := NewGormFeedbackStore(openTestDB(t))
	ctx := context.Background()

	withLocation := newFeedback("f-loc", models.ServiceDrainage, 2, time.Hour)
	withLocation.Location = &models.GeoPoint{Latitude: 12.3, Longitude: 77.1}
	url := "https://res.cloudinary.com/demo/image/upload/x.jpg"
	withLocation.ImageURL = &url

	for _, f := range append(sevenRecords(), withLocation) {
		require.NoError(t, store.Create(ctx, f))
	}

	got, err := store.GetAllFeedback(ctx)
	require.NoError(t, err)
	require.Len(t, got, 8)

	// oldest first
	assert.Equal(t, "f5", got[0].ID)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Timestamp, got[i].Timestamp)
	}

	var loaded models.Feedback
	for _, f := range got {
		if f.ID == "f-loc" {
			loaded = f
		}
	}
	assert.Equal(t, withLocation, loaded)
}

func TestGormFeedbackStoreRejectsInvalidFeedback(t *testing.T) {
	store := NewGormFeedbackStore(openTestDB(t))

	err := store.Create(context.Background(), newFeedback("bad", models.ServiceWater, 6, time.Hour))
	assert.ErrorIs(t, err, models.ErrInvalidRating)

	got, err := store.GetAllFeedback(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGormFeedbackStoreSkipsMalformedRows(t *testing.T) {
	db := openTestDB(t)
	store := NewGormFeedbackStore(db)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newFeedback("good", models.ServiceWater, 4, time.Hour)))
	require.NoError(t, db.Create(&models.FeedbackRecord{
		ID:          "legacy",
		ServiceType: "internet",
		Rating:      3,
		SubmittedAt: testNow.UnixMilli(),
	}).Error)

	got, err := store.GetAllFeedback(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, ids(got))
}

func TestCachedFeedbackStoreWithoutRedis(t *testing.T) {
	next := &memoryStore{records: sevenRecords()}
	store := NewCachedFeedbackStore(next, nil, 0)

	got, err := store.GetAllFeedback(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 7)

	require.NoError(t, store.Create(context.Background(), newFeedback("f8", models.ServiceWater, 3, time.Minute)))
	got, err = store.GetAllFeedback(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 8)
	assert.Equal(t, 2, next.reads)
}

func TestCachedFeedbackStoreFallsBackWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:         "127.0.0.1:1",
		DialTimeout:  50 * time.Millisecond,
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 50 * time.Millisecond,
		MaxRetries:   -1,
	})
	t.Cleanup(func() { client.Close() })

	next := &memoryStore{records: sevenRecords()}
	store := NewCachedFeedbackStore(next, client, time.Second)

	got, err := store.GetAllFeedback(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ids(sevenRecords()), ids(got))

	require.NoError(t, store.Create(context.Background(), newFeedback("f8", models.ServiceWater, 3, time.Minute)))
	assert.Len(t, next.records, 8)
}

func TestCachedFeedbackStorePropagatesCreateErrors(t *testing.T) {
	store := NewCachedFeedbackStore(&memoryStore{}, nil, time.Second)
	err := store.Create(context.Background(), newFeedback("", models.ServiceWater, 3, time.Minute))
	assert.ErrorIs(t, err, models.ErrInvalidFeedback)
}
