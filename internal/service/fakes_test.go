package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

type fakeCredentialStore struct {
	mu      sync.Mutex
	secrets map[int64]string
	err     error
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{secrets: map[int64]string{}}
}

func (f *fakeCredentialStore) SetRotationSecret(ctx context.Context, userID int64, secretHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.secrets[userID] = secretHash
	return nil
}

func (f *fakeCredentialStore) SwapRotationSecret(ctx context.Context, userID int64, expected, next string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	current, ok := f.secrets[userID]
	if !ok || current != expected {
		return false, nil
	}
	f.secrets[userID] = next
	return true, nil
}

func (f *fakeCredentialStore) ClearRotationSecret(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.secrets, userID)
	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	nextID int64
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[int64]*model.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
		if u.ID > repo.nextID {
			repo.nextID = u.ID
		}
	}
	return repo
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user model.User) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, apperr.Conflict("user with email or username already exists")
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = &user
	copied := user
	return &copied, nil
}

func (f *fakeUserRepo) GetUserByLogin(ctx context.Context, username, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (f *fakeUserRepo) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUserRepo) UpdateAccount(ctx context.Context, userID int64, fullName, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	if fullName != "" {
		u.FullName = fullName
	}
	if email != "" {
		u.Email = email
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) UpdateImage(ctx context.Context, userID int64, column, url string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	if column == "avatar" {
		u.Avatar = url
	} else {
		u.CoverImage = url
	}
	copied := *u
	return &copied, nil
}

type assocKey struct {
	subject int64
	kind    model.AssociationKind
	object  int64
}

// fakeAssociationStore enforces the (subject, kind, object) uniqueness the
// way the database index does. afterFind runs between the read and the write
// of a toggle so tests can line up concurrent callers.
type fakeAssociationStore struct {
	mu          sync.Mutex
	rows        map[assocKey]time.Time
	clock       time.Time
	objects     map[model.AssociationKind]map[int64]bool
	unpublished map[int64]int64
	afterFind   func()
	insertCalls int
	deleteCalls int
	findErr     error
	deleteErr   error
	insertErr   error
	countErr    error
}

func newFakeAssociationStore() *fakeAssociationStore {
	return &fakeAssociationStore{
		rows:    map[assocKey]time.Time{},
		clock:   time.Unix(1_700_000_000, 0),
		objects:     map[model.AssociationKind]map[int64]bool{},
		unpublished: map[int64]int64{},
	}
}

func (f *fakeAssociationStore) addObject(kind model.AssociationKind, id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects[kind] == nil {
		f.objects[kind] = map[int64]bool{}
	}
	f.objects[kind][id] = true
}

// addUnpublishedVideo registers a video only its owner can see.
func (f *fakeAssociationStore) addUnpublishedVideo(id, ownerID int64) {
	f.addObject(model.KindVideoLike, id)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unpublished[id] = ownerID
}

func (f *fakeAssociationStore) hiddenFrom(kind model.AssociationKind, objectID, viewerID int64) bool {
	owner, unpublished := f.unpublished[objectID]
	return kind == model.KindVideoLike && unpublished && owner != viewerID
}

func (f *fakeAssociationStore) ObjectExists(ctx context.Context, kind model.AssociationKind, objectID, viewerID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[kind][objectID] && !f.hiddenFrom(kind, objectID, viewerID), nil
}

func (f *fakeAssociationStore) FindAssociation(ctx context.Context, subjectID int64, kind model.AssociationKind, objectID int64) (*model.Association, error) {
	a, err := f.find(subjectID, kind, objectID)
	if f.afterFind != nil {
		f.afterFind()
	}
	return a, err
}

func (f *fakeAssociationStore) find(subjectID int64, kind model.AssociationKind, objectID int64) (*model.Association, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	created, ok := f.rows[assocKey{subjectID, kind, objectID}]
	if !ok {
		return nil, apperr.NotFound("association not found")
	}
	return &model.Association{SubjectID: subjectID, Kind: kind, ObjectID: objectID, CreatedAt: created}, nil
}

func (f *fakeAssociationStore) InsertAssociation(ctx context.Context, a model.Association) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	key := assocKey{a.SubjectID, a.Kind, a.ObjectID}
	if _, ok := f.rows[key]; ok {
		return apperr.Conflict("association already exists")
	}
	f.clock = f.clock.Add(time.Second)
	f.rows[key] = f.clock
	return nil
}

func (f *fakeAssociationStore) DeleteAssociation(ctx context.Context, subjectID int64, kind model.AssociationKind, objectID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	key := assocKey{subjectID, kind, objectID}
	if _, ok := f.rows[key]; !ok {
		return false, nil
	}
	delete(f.rows, key)
	return true, nil
}

func (f *fakeAssociationStore) CountAssociations(ctx context.Context, kind model.AssociationKind, objectID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	var n int64
	for key := range f.rows {
		if key.kind == kind && key.object == objectID {
			n++
		}
	}
	return n, nil
}

func (f *fakeAssociationStore) CountSubjectAssociations(ctx context.Context, subjectID int64, kind model.AssociationKind) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	var n int64
	for key := range f.rows {
		if key.kind == kind && key.subject == subjectID {
			n++
		}
	}
	return n, nil
}

// sorted returns matching rows ordered newest first, then by related id.
func (f *fakeAssociationStore) sorted(match func(assocKey) bool, related func(assocKey) int64) []assocKey {
	keys := make([]assocKey, 0)
	for key := range f.rows {
		if match(key) {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		ti, tj := f.rows[keys[i]], f.rows[keys[j]]
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return related(keys[i]) < related(keys[j])
	})
	return keys
}

func paginate(keys []assocKey, page model.Page) []assocKey {
	start := page.Offset()
	if start >= len(keys) {
		return nil
	}
	end := start + page.Limit()
	if end > len(keys) {
		end = len(keys)
	}
	return keys[start:end]
}

func (f *fakeAssociationStore) ListLikedVideos(ctx context.Context, subjectID int64, page model.Page) ([]model.LikedVideo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := f.sorted(func(k assocKey) bool {
		return k.subject == subjectID && k.kind == model.KindVideoLike && !f.hiddenFrom(k.kind, k.object, subjectID)
	}, func(k assocKey) int64 { return k.object })
	out := make([]model.LikedVideo, 0)
	for _, key := range paginate(keys, page) {
		out = append(out, model.LikedVideo{Video: model.VideoSummary{ID: key.object}, LikedAt: f.rows[key]})
	}
	return out, nil
}

func (f *fakeAssociationStore) ListSubscribedChannels(ctx context.Context, subscriberID int64, page model.Page) ([]model.ChannelSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := f.sorted(func(k assocKey) bool {
		return k.subject == subscriberID && k.kind == model.KindSubscription
	}, func(k assocKey) int64 { return k.object })
	out := make([]model.ChannelSubscription, 0)
	for _, key := range paginate(keys, page) {
		out = append(out, model.ChannelSubscription{Channel: model.ProfileFragment{ID: key.object}, SubscribedAt: f.rows[key]})
	}
	return out, nil
}

func (f *fakeAssociationStore) ListSubscribers(ctx context.Context, channelID int64, page model.Page) ([]model.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := f.sorted(func(k assocKey) bool {
		return k.object == channelID && k.kind == model.KindSubscription
	}, func(k assocKey) int64 { return k.subject })
	out := make([]model.Subscriber, 0)
	for _, key := range paginate(keys, page) {
		out = append(out, model.Subscriber{Subscriber: model.ProfileFragment{ID: key.subject}, SubscribedAt: f.rows[key]})
	}
	return out, nil
}

func (f *fakeAssociationStore) GetChannelProfile(ctx context.Context, username string, viewerID int64) (*model.ChannelProfile, error) {
	return nil, apperr.NotFound("channel does not exist")
}

func (f *fakeAssociationStore) ChannelVideoTotals(ctx context.Context, ownerID int64) (int64, int64, error) {
	return 3, 120, nil
}

func (f *fakeAssociationStore) CountLikesOnChannel(ctx context.Context, ownerID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	var n int64
	for key := range f.rows {
		if key.kind == model.KindVideoLike {
			n++
		}
	}
	return n, nil
}
