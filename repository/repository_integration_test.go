package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/annazecevic/music-service/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// testDB connects to MONGO_TEST_URI and returns a throwaway database. Tests
// are skipped when the variable is unset.
func testDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database(fmt.Sprintf("music_test_%s", uuid.New().String()[:8]))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestSubscriptionRepositoryGuards(t *testing.T) {
	db := testDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	first := &domain.UserSubscription{ID: "s1", UserID: "u1", StartDate: now, EndDate: now.AddDate(0, 0, 30), IsActive: true, PaymentIDs: []string{"Mock_a"}}
	require.NoError(t, repo.Create(ctx, first))

	second := &domain.UserSubscription{ID: "s2", UserID: "u1", StartDate: now, EndDate: now.AddDate(0, 0, 30), IsActive: true}
	assert.True(t, domain.IsConflict(repo.Create(ctx, second)), "second active record rejected by the partial index")

	active, err := repo.FindActiveByUserID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, active)

	active.EndDate = active.EndDate.AddDate(0, 0, 10)
	active.PaymentIDs = append(active.PaymentIDs, "Mock_b")
	active.Version = 1
	require.NoError(t, repo.Extend(ctx, active, 0))

	stale := *active
	stale.Version = 1
	assert.True(t, domain.IsConflict(repo.Extend(ctx, &stale, 0)), "stale version rejected")

	n, err := repo.DeactivateExpired(ctx, now.AddDate(0, 0, 41))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	none, err := repo.FindActiveByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, repo.Create(ctx, second), "inactive records do not block a new one")
}

func TestFollowRepository(t *testing.T) {
	repo := NewFollowRepository(testDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "a", "b"))
	require.NoError(t, repo.Add(ctx, "a", "b"))
	require.NoError(t, repo.Add(ctx, "c", "b"))

	following, err := repo.FollowingIDs(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, following)

	followers, err := repo.FollowerIDs(ctx, "b")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "c"}, followers)

	require.NoError(t, repo.Remove(ctx, "a", "b"))
	exists, err := repo.Exists(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReviewRatingStats(t *testing.T) {
	repo := NewReviewRepository(testDB(t))
	ctx := context.Background()

	stats, err := repo.RatingStats(ctx, "t1")
	require.NoError(t, err)
	assert.Zero(t, stats.Count)

	five, four := 5, 4
	comment := "no score"
	for _, r := range []*domain.TrackReview{
		{ID: "r1", TrackID: "t1", UserID: "u1", Rating: &five, CreatedAt: time.Now()},
		{ID: "r2", TrackID: "t1", UserID: "u2", Rating: &four, CreatedAt: time.Now()},
		{ID: "r3", TrackID: "t1", UserID: "u3", Comment: &comment, CreatedAt: time.Now()},
		{ID: "r4", TrackID: "t2", UserID: "u1", Rating: &four, CreatedAt: time.Now()},
	} {
		require.NoError(t, repo.Create(ctx, r))
	}

	stats, err = repo.RatingStats(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Count)
	assert.InDelta(t, 4.5, stats.Average, 1e-9)

	reviews, err := repo.FindByTrackID(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, reviews, 3)
}

func TestTrackSearchAndFileURL(t *testing.T) {
	repo := NewTrackRepository(testDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Track{ID: "t1", Title: "Thunder (live)", Artist: "Storm", Genres: "Rock", FileURL: "hdfs:///a.mp3"}))
	require.NoError(t, repo.Create(ctx, &domain.Track{ID: "t2", Title: "Calm", Artist: "Quiet", Genres: "Ambient"}))
	require.NoError(t, repo.Create(ctx, &domain.Track{ID: "t3", Title: "Draft", Artist: "Quiet"}), "tracks without a file do not collide")
	assert.True(t, domain.IsConflict(repo.Create(ctx, &domain.Track{ID: "t4", Title: "Dup", FileURL: "hdfs:///a.mp3"})))

	found, err := repo.Search(ctx, "ROCK")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "t1", found[0].ID)

	found, err = repo.Search(ctx, "(live)")
	require.NoError(t, err)
	assert.Len(t, found, 1, "query is matched literally")

	byURL, err := repo.FindByFileURL(ctx, "hdfs:///a.mp3")
	require.NoError(t, err)
	assert.Equal(t, "t1", byURL.ID)
}
