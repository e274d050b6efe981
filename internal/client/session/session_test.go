package session

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tugas-app/internal/client/api"
	"tugas-app/internal/client/model"
)

// fakeAuthAPI mengembalikan body auth yang sudah ditentukan.
type fakeAuthAPI struct {
	body json.RawMessage
	err  error
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (json.RawMessage, error) {
	return f.body, f.err
}

func (f *fakeAuthAPI) Register(ctx context.Context, data api.RegisterData) (json.RawMessage, error) {
	return f.body, f.err
}

const flatBody = `{"user": {"id": 1, "name": "Budi", "email": "budi@mail.com", "role": "admin"}, "token": "jwt-abc"}`
const nestedBody = `{"message": "ok", "data": {"user": {"id": 2, "name": "Sari", "email": "sari@mail.com"}, "token": "jwt-def"}}`

func openTestSession(t *testing.T, body string) *Session {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	s, err := Open(path, &fakeAuthAPI{body: json.RawMessage(body)})
	require.NoError(t, err)
	return s
}

func TestDecodeAuthResponseFlat(t *testing.T) {
	user, token, err := decodeAuthResponse([]byte(flatBody))
	require.NoError(t, err)
	require.Equal(t, "1", user.ID)
	require.Equal(t, model.RoleAdmin, user.Role)
	require.Equal(t, "jwt-abc", token)
}

func TestDecodeAuthResponseNested(t *testing.T) {
	user, token, err := decodeAuthResponse([]byte(nestedBody))
	require.NoError(t, err)
	require.Equal(t, "2", user.ID)
	require.Equal(t, model.RoleEmployee, user.Role) // default role
	require.Equal(t, "jwt-def", token)
}

func TestDecodeAuthResponseInvalid(t *testing.T) {
	bodies := []string{
		`{"message": "ok"}`,
		`{"user": {"id": 1}}`,
		`{"token": "jwt-abc"}`,
		`{"data": {"user": {"id": 1}}}`,
		`[]`,
		`not json`,
	}
	for _, body := range bodies {
		_, _, err := decodeAuthResponse([]byte(body))
		require.ErrorIs(t, err, ErrInvalidResponseFormat, "body: %s", body)
	}
}

func TestLoginStoresSession(t *testing.T) {
	s := openTestSession(t, flatBody)

	user, err := s.Login(context.Background(), "budi@mail.com", "rahasia")
	require.NoError(t, err)
	require.Equal(t, "Budi", user.Name)

	require.True(t, s.IsAuthenticated())
	require.True(t, s.IsAdmin())
	require.False(t, s.IsEmployee())
	require.Equal(t, "jwt-abc", s.Token())

	current, ok := s.CurrentUser()
	require.True(t, ok)
	require.Equal(t, "1", current.ID)
}

func TestLoginInvalidFormat(t *testing.T) {
	s := openTestSession(t, `{"message": "ok"}`)

	_, err := s.Login(context.Background(), "x@mail.com", "pw")
	require.ErrorIs(t, err, ErrInvalidResponseFormat)
	require.False(t, s.IsAuthenticated())
}

// Sesi harus bertahan melewati restart proses: buka ulang file yang
// sama dan user masih login dengan token yang sama.
func TestSessionPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	first, err := Open(path, &fakeAuthAPI{body: json.RawMessage(nestedBody)})
	require.NoError(t, err)
	_, err = first.Login(context.Background(), "sari@mail.com", "pw")
	require.NoError(t, err)

	second, err := Open(path, &fakeAuthAPI{})
	require.NoError(t, err)
	require.True(t, second.IsAuthenticated())
	require.Equal(t, "jwt-def", second.Token())

	user, ok := second.CurrentUser()
	require.True(t, ok)
	require.Equal(t, "Sari", user.Name)
}

func TestLogoutClearsEverything(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	s, err := Open(path, &fakeAuthAPI{body: json.RawMessage(flatBody)})
	require.NoError(t, err)

	_, err = s.Login(context.Background(), "budi@mail.com", "pw")
	require.NoError(t, err)
	require.NoError(t, s.Logout())

	require.False(t, s.IsAuthenticated())
	require.Empty(t, s.Token())

	// Reopen: tidak ada sesi tersimpan
	reopened, err := Open(path, &fakeAuthAPI{})
	require.NoError(t, err)
	require.False(t, reopened.IsAuthenticated())
}

// Subscriber menerima salinan; memutasinya tidak boleh mengubah state
// session.
func TestSubscriberCannotMutateSessionState(t *testing.T) {
	s := openTestSession(t, flatBody)

	cancel := s.Subscribe(func(user *model.User) {
		if user != nil {
			user.Name = "dimutasi"
			user.Role = model.RoleEmployee
		}
	})
	defer cancel()

	_, err := s.Login(context.Background(), "budi@mail.com", "pw")
	require.NoError(t, err)

	current, ok := s.CurrentUser()
	require.True(t, ok)
	require.Equal(t, "Budi", current.Name)
	require.True(t, s.IsAdmin())
}

func TestSubscribeNotifiesLoginAndLogout(t *testing.T) {
	s := openTestSession(t, flatBody)

	var events []*model.User
	cancel := s.Subscribe(func(user *model.User) {
		events = append(events, user)
	})
	defer cancel()

	// Replay keadaan awal: belum login
	require.Len(t, events, 1)
	require.Nil(t, events[0])

	_, err := s.Login(context.Background(), "budi@mail.com", "pw")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.NotNil(t, events[1])
	require.Equal(t, "Budi", events[1].Name)

	require.NoError(t, s.Logout())
	require.Len(t, events, 3)
	require.Nil(t, events[2])
}
