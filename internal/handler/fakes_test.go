package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/model"
)

type stubVerifier map[string]int64

func (v stubVerifier) VerifyAccess(token string) (int64, error) {
	if id, ok := v[token]; ok {
		return id, nil
	}
	return 0, apperr.Unauthenticated("invalid access token")
}

type memAssociations struct {
	mu      sync.Mutex
	rows    map[model.Association]struct{}
	objects map[model.AssociationKind]map[int64]bool
}

func newMemAssociations() *memAssociations {
	return &memAssociations{
		rows:    map[model.Association]struct{}{},
		objects: map[model.AssociationKind]map[int64]bool{},
	}
}

func (m *memAssociations) addObject(kind model.AssociationKind, id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects[kind] == nil {
		m.objects[kind] = map[int64]bool{}
	}
	m.objects[kind][id] = true
}

func (m *memAssociations) FindAssociation(ctx context.Context, subjectID int64, kind model.AssociationKind, objectID int64) (*model.Association, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := model.Association{SubjectID: subjectID, Kind: kind, ObjectID: objectID}
	if _, ok := m.rows[key]; !ok {
		return nil, apperr.NotFound("association not found")
	}
	return &key, nil
}

func (m *memAssociations) InsertAssociation(ctx context.Context, a model.Association) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := model.Association{SubjectID: a.SubjectID, Kind: a.Kind, ObjectID: a.ObjectID}
	if _, ok := m.rows[key]; ok {
		return apperr.Conflict("association exists")
	}
	m.rows[key] = struct{}{}
	return nil
}

func (m *memAssociations) DeleteAssociation(ctx context.Context, subjectID int64, kind model.AssociationKind, objectID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := model.Association{SubjectID: subjectID, Kind: kind, ObjectID: objectID}
	if _, ok := m.rows[key]; !ok {
		return false, nil
	}
	delete(m.rows, key)
	return true, nil
}

func (m *memAssociations) CountAssociations(ctx context.Context, kind model.AssociationKind, objectID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for row := range m.rows {
		if row.Kind == kind && row.ObjectID == objectID {
			n++
		}
	}
	return n, nil
}

func (m *memAssociations) ObjectExists(ctx context.Context, kind model.AssociationKind, objectID, viewerID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[kind][objectID], nil
}

type memUsers struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	nextID int64
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[int64]*model.User{}}
}

func (m *memUsers) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperr.NotFound("user not found")
}

func (m *memUsers) CreateUser(ctx context.Context, user model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, apperr.Conflict("user already exists")
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = &user
	copied := user
	return &copied, nil
}

func (m *memUsers) GetUserByLogin(ctx context.Context, username, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (m *memUsers) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.PasswordHash = hash
	return nil
}

func (m *memUsers) UpdateAccount(ctx context.Context, userID int64, fullName, email string) (*model.User, error) {
	m.mu.Lock()
	u, ok := m.users[userID]
	if ok {
		if fullName != "" {
			u.FullName = fullName
		}
		if email != "" {
			u.Email = email
		}
	}
	m.mu.Unlock()
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return m.GetUserByID(ctx, userID)
}

func (m *memUsers) UpdateImage(ctx context.Context, userID int64, column, url string) (*model.User, error) {
	m.mu.Lock()
	u, ok := m.users[userID]
	if ok {
		if column == "avatar" {
			u.Avatar = url
		} else {
			u.CoverImage = url
		}
	}
	m.mu.Unlock()
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return m.GetUserByID(ctx, userID)
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func perform(t *testing.T, r http.Handler, method, path, body string, mutate ...func(*http.Request)) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, m := range mutate {
		m(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}
