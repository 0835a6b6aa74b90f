package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/annazecevic/music-service/domain"
	"github.com/annazecevic/music-service/repository"
)

type fakeUsers struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	lookups int
}

func newFakeUsers(users ...domain.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*domain.User{}}
	for i := range users {
		u := users[i]
		f.byID[u.ID] = &u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == user.Username {
			return domain.NewConflict("user", "username already taken")
		}
	}
	cp := *user
	f.byID[user.ID] = &cp
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.NewNotFound("user", id)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	for _, u := range f.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.NewNotFound("user", username)
}

func (f *fakeUsers) List(context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, id string, role domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return domain.NewNotFound("user", id)
	}
	u.Role = role
	return nil
}

type fakeFollows struct {
	mu     sync.Mutex
	edges  map[[2]string]bool
	order  [][2]string
	writes int
}

func newFakeFollows() *fakeFollows {
	return &fakeFollows{edges: map[[2]string]bool{}}
}

func (f *fakeFollows) Add(_ context.Context, followerID, followedID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	k := [2]string{followerID, followedID}
	if !f.edges[k] {
		f.edges[k] = true
		f.order = append(f.order, k)
	}
	return nil
}

func (f *fakeFollows) Remove(_ context.Context, followerID, followedID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	k := [2]string{followerID, followedID}
	delete(f.edges, k)
	for i, existing := range f.order {
		if existing == k {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeFollows) Exists(_ context.Context, followerID, followedID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.edges[[2]string{followerID, followedID}], nil
}

func (f *fakeFollows) FollowingIDs(_ context.Context, followerID string) ([]string, error) {
	return f.collect(func(k [2]string) (string, bool) { return k[1], k[0] == followerID }), nil
}

func (f *fakeFollows) FollowerIDs(_ context.Context, followedID string) ([]string, error) {
	return f.collect(func(k [2]string) (string, bool) { return k[0], k[1] == followedID }), nil
}

func (f *fakeFollows) collect(match func([2]string) (string, bool)) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []string{}
	for _, k := range f.order {
		if !f.edges[k] {
			continue
		}
		if id, ok := match(k); ok {
			out = append(out, id)
		}
	}
	return out
}

type fakeTracks struct {
	mu     sync.Mutex
	tracks []domain.Track
}

func (f *fakeTracks) Create(_ context.Context, t *domain.Track) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.tracks {
		if t.FileURL != "" && existing.FileURL == t.FileURL {
			return domain.NewConflict("track", "file url already assigned")
		}
	}
	f.tracks = append(f.tracks, *t)
	return nil
}

func (f *fakeTracks) FindByID(_ context.Context, id string) (*domain.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tracks {
		if t.ID == id {
			cp := t
			return &cp, nil
		}
	}
	return nil, domain.NewNotFound("track", id)
}

func (f *fakeTracks) FindByFileURL(_ context.Context, fileURL string) (*domain.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tracks {
		if t.FileURL == fileURL {
			cp := t
			return &cp, nil
		}
	}
	return nil, domain.NewNotFound("track", fileURL)
}

// FindByIDs returns matches in storage order, like an $in query.
func (f *fakeTracks) FindByIDs(_ context.Context, ids []string) ([]domain.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := []domain.Track{}
	for _, t := range f.tracks {
		if want[t.ID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTracks) List(context.Context) ([]domain.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Track{}, f.tracks...), nil
}

func (f *fakeTracks) Search(_ context.Context, query string) ([]domain.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := strings.ToLower(query)
	out := []domain.Track{}
	for _, t := range f.tracks {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Artist), q) ||
			strings.Contains(strings.ToLower(t.Genres), q) {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakePlaylists struct {
	mu           sync.Mutex
	playlists    []domain.Playlist
	ownerQueries int
}

func (f *fakePlaylists) Create(_ context.Context, p *domain.Playlist) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playlists = append(f.playlists, *p)
	return nil
}

func (f *fakePlaylists) find(id string) int {
	for i, p := range f.playlists {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (f *fakePlaylists) FindByID(_ context.Context, id string) (*domain.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(id)
	if i < 0 {
		return nil, domain.NewNotFound("playlist", id)
	}
	cp := f.playlists[i]
	cp.TrackIDs = append([]string{}, cp.TrackIDs...)
	return &cp, nil
}

func (f *fakePlaylists) FindByOwner(_ context.Context, ownerID string) ([]domain.Playlist, error) {
	return f.FindByOwnerIDs(context.Background(), []string{ownerID})
}

func (f *fakePlaylists) FindByOwnerIDs(_ context.Context, ownerIDs []string) ([]domain.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ownerQueries++
	if len(ownerIDs) == 0 {
		return nil, domain.NewValidation("owner_ids", "must not be empty")
	}
	out := []domain.Playlist{}
	for _, p := range f.playlists {
		for _, id := range ownerIDs {
			if p.OwnerID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakePlaylists) AddTrack(_ context.Context, playlistID, trackID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(playlistID)
	if i < 0 {
		return domain.NewNotFound("playlist", playlistID)
	}
	if !f.playlists[i].HasTrack(trackID) {
		f.playlists[i].TrackIDs = append(f.playlists[i].TrackIDs, trackID)
	}
	return nil
}

func (f *fakePlaylists) RemoveTrack(_ context.Context, playlistID, trackID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(playlistID)
	if i < 0 {
		return domain.NewNotFound("playlist", playlistID)
	}
	kept := []string{}
	for _, id := range f.playlists[i].TrackIDs {
		if id != trackID {
			kept = append(kept, id)
		}
	}
	f.playlists[i].TrackIDs = kept
	return nil
}

func (f *fakePlaylists) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(id)
	if i < 0 {
		return domain.NewNotFound("playlist", id)
	}
	f.playlists = append(f.playlists[:i], f.playlists[i+1:]...)
	return nil
}

type fakeReviews struct {
	mu      sync.Mutex
	reviews []domain.TrackReview
}

func (f *fakeReviews) Create(_ context.Context, r *domain.TrackReview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviews = append(f.reviews, *r)
	return nil
}

func (f *fakeReviews) FindByTrackID(_ context.Context, trackID string) ([]domain.TrackReview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.TrackReview{}
	for i := len(f.reviews) - 1; i >= 0; i-- {
		if f.reviews[i].TrackID == trackID {
			out = append(out, f.reviews[i])
		}
	}
	return out, nil
}

func (f *fakeReviews) RatingStats(_ context.Context, trackID string) (repository.RatingStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum, n int
	for _, r := range f.reviews {
		if r.TrackID == trackID && r.Rating != nil {
			sum += *r.Rating
			n++
		}
	}
	if n == 0 {
		return repository.RatingStats{}, nil
	}
	return repository.RatingStats{Average: float64(sum) / float64(n), Count: int64(n)}, nil
}

// fakeSubscriptions mirrors the partial unique index and the versioned update.
type fakeSubscriptions struct {
	mu   sync.Mutex
	subs []domain.UserSubscription
}

func (f *fakeSubscriptions) FindActiveByUserID(_ context.Context, userID string) (*domain.UserSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if s.UserID == userID && s.IsActive {
			cp := s
			cp.PaymentIDs = append([]string{}, s.PaymentIDs...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSubscriptions) Create(_ context.Context, sub *domain.UserSubscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if s.UserID == sub.UserID && s.IsActive {
			return domain.NewConflict("subscription", "user already has an active subscription")
		}
	}
	cp := *sub
	cp.PaymentIDs = append([]string{}, sub.PaymentIDs...)
	f.subs = append(f.subs, cp)
	return nil
}

func (f *fakeSubscriptions) Extend(_ context.Context, sub *domain.UserSubscription, expectedVersion int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.subs {
		if s.ID == sub.ID && s.IsActive && s.Version == expectedVersion {
			f.subs[i].EndDate = sub.EndDate
			f.subs[i].PaymentIDs = append([]string{}, sub.PaymentIDs...)
			f.subs[i].Version = sub.Version
			return nil
		}
	}
	return domain.NewConflict("subscription", "modified concurrently")
}

func (f *fakeSubscriptions) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i, s := range f.subs {
		if s.IsActive && !s.EndDate.After(now) {
			f.subs[i].IsActive = false
			f.subs[i].Version++
			n++
		}
	}
	return n, nil
}

func (f *fakeSubscriptions) activeCount(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.subs {
		if s.UserID == userID && s.IsActive {
			n++
		}
	}
	return n
}

type fakePlans struct {
	plans []domain.SubscriptionPlan
}

func (f *fakePlans) List(context.Context) ([]domain.SubscriptionPlan, error) {
	return append([]domain.SubscriptionPlan{}, f.plans...), nil
}

func (f *fakePlans) FindByID(_ context.Context, id string) (*domain.SubscriptionPlan, error) {
	for _, p := range f.plans {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.NewNotFound("subscription plan", id)
}

func (f *fakePlans) EnsureByName(_ context.Context, plan *domain.SubscriptionPlan) (bool, error) {
	for _, p := range f.plans {
		if p.Name == plan.Name {
			return false, nil
		}
	}
	f.plans = append(f.plans, *plan)
	return true, nil
}

type fakeStore struct {
	files   map[string]string
	putErr  error
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: map[string]string{}}
}

func (f *fakeStore) Put(_ context.Context, name string, r io.Reader, _ int64) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	locator := "mem://" + name
	f.files[locator] = string(b)
	return locator, nil
}

func (f *fakeStore) Delete(_ context.Context, locator string) error {
	delete(f.files, locator)
	f.deleted = append(f.deleted, locator)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
