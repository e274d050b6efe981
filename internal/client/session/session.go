// Package session memegang identitas user yang sedang login: membongkar
// respons auth (flat maupun nested), menyimpan token terenkripsi di
// SQLite lokal, dan menyiarkan perubahan user ke subscriber.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tugas-app/internal/client/api"
	"tugas-app/internal/client/model"
	"tugas-app/pkg/crypto"
)

// ErrInvalidResponseFormat menandakan respons auth server tidak
// memuat pasangan user+token dalam bentuk yang dikenal.
var ErrInvalidResponseFormat = errors.New("invalid response format")

// ErrNotAuthenticated dikembalikan operasi yang butuh sesi aktif.
var ErrNotAuthenticated = errors.New("not authenticated")

// Token disimpan terenkripsi supaya file sesi tidak memuat JWT polos.
var sessionKey = crypto.FixEncryptionKey("tugas-app-session-key")

// AuthAPI adalah bagian klien HTTP yang dibutuhkan session.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (json.RawMessage, error)
	Register(ctx context.Context, data api.RegisterData) (json.RawMessage, error)
}

// authState adalah satu-satunya baris di tabel sesi.
type authState struct {
	ID             int    `gorm:"primaryKey"`
	EncryptedToken string `gorm:"column:encrypted_token"`
	UserJSON       string `gorm:"column:user_json"`
}

func (authState) TableName() string { return "auth_state" }

// Listener menerima user saat ini; nil berarti logout.
type Listener func(user *model.User)

type Session struct {
	api AuthAPI
	db  *gorm.DB

	mu        sync.Mutex
	user      *model.User
	token     string
	nextID    int
	listeners map[int]Listener
}

// DefaultPath mengembalikan lokasi file sesi di home user.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "session.db"
	}
	return filepath.Join(home, ".tugas", "session.db")
}

// Open membuka (atau membuat) file sesi dan memuat sesi tersimpan.
func Open(path string, authAPI AuthAPI) (*Session, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&authState{}); err != nil {
		return nil, err
	}

	s := &Session{
		api:       authAPI,
		db:        db,
		listeners: map[int]Listener{},
	}
	s.loadSaved()
	return s, nil
}

// loadSaved memuat baris sesi tersimpan; baris yang rusak diabaikan
// (pengguna tinggal login ulang).
func (s *Session) loadSaved() {
	var state authState
	if err := s.db.First(&state, 1).Error; err != nil {
		return
	}

	token, err := crypto.Decrypt(state.EncryptedToken, sessionKey)
	if err != nil {
		return
	}
	var user model.User
	if err := json.Unmarshal([]byte(state.UserJSON), &user); err != nil {
		return
	}

	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()
}

// decodeAuthResponse menerima dua bentuk respons auth: flat
// {user, token} atau nested {data: {user, token}}. Bentuk lain
// menghasilkan ErrInvalidResponseFormat.
func decodeAuthResponse(body []byte) (model.User, string, error) {
	var flat struct {
		User  json.RawMessage `json:"user"`
		Token string          `json:"token"`
	}
	if err := json.Unmarshal(body, &flat); err == nil &&
		len(flat.User) > 0 && flat.Token != "" {
		user, err := api.NormalizeUser(flat.User)
		if err != nil {
			return model.User{}, "", ErrInvalidResponseFormat
		}
		return user, flat.Token, nil
	}

	var nested struct {
		Data struct {
			User  json.RawMessage `json:"user"`
			Token string          `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &nested); err == nil &&
		len(nested.Data.User) > 0 && nested.Data.Token != "" {
		user, err := api.NormalizeUser(nested.Data.User)
		if err != nil {
			return model.User{}, "", ErrInvalidResponseFormat
		}
		return user, nested.Data.Token, nil
	}

	return model.User{}, "", ErrInvalidResponseFormat
}

// Login mengautentikasi lalu menyimpan sesi ke disk.
func (s *Session) Login(ctx context.Context, email, password string) (model.User, error) {
	body, err := s.api.Login(ctx, email, password)
	if err != nil {
		return model.User{}, err
	}
	return s.adopt(body)
}

// Register mendaftar lalu langsung login dengan token yang dikembalikan.
func (s *Session) Register(ctx context.Context, data api.RegisterData) (model.User, error) {
	body, err := s.api.Register(ctx, data)
	if err != nil {
		return model.User{}, err
	}
	return s.adopt(body)
}

// adopt membongkar respons auth, menyimpan sesi, dan menyiarkan user.
func (s *Session) adopt(body []byte) (model.User, error) {
	user, token, err := decodeAuthResponse(body)
	if err != nil {
		return model.User{}, err
	}

	if err := s.persist(user, token); err != nil {
		return model.User{}, err
	}

	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()

	s.notify(&user)
	return user, nil
}

func (s *Session) persist(user model.User, token string) error {
	encrypted, err := crypto.Encrypt(token, sessionKey)
	if err != nil {
		return err
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}

	state := authState{ID: 1, EncryptedToken: encrypted, UserJSON: string(userJSON)}
	return s.db.Save(&state).Error
}

// Logout menghapus sesi dari memori dan disk.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	s.notify(nil)
	return s.db.Delete(&authState{}, 1).Error
}

// CurrentUser mengembalikan user aktif, atau false jika belum login.
func (s *Session) CurrentUser() (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// Token mengembalikan bearer token saat ini (kosong jika belum login).
// Dipakai sebagai api.TokenFunc.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.Role == model.RoleAdmin
}

func (s *Session) IsEmployee() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.Role == model.RoleEmployee
}

// Subscribe mendaftarkan listener perubahan user; dipanggil langsung
// dengan keadaan saat ini.
func (s *Session) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	current := copyUser(s.user)
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// notify memanggil listener di luar lock; tiap listener menerima
// salinan user sendiri supaya tidak bisa memutasi state session.
func (s *Session) notify(user *model.User) {
	s.mu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(copyUser(user))
	}
}

func copyUser(user *model.User) *model.User {
	if user == nil {
		return nil
	}
	out := *user
	return &out
}
