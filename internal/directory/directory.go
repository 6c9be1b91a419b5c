// Package directory gerencia usuários registrados localmente e a troca do usuário ativo.
package directory

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/radieske/betting-companion/internal/kvstore"
	"github.com/radieske/betting-companion/internal/session"
	"github.com/radieske/betting-companion/internal/shared/models"
	"github.com/radieske/betting-companion/pkg/contracts/collections"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidName        = errors.New("name is required")
	ErrEmailTaken         = errors.New("email already in use")
	ErrNoActiveUser       = errors.New("no active user")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthMode string

const (
	// AuthLenient aceita qualquer senha e cria usuário no login de e-mail desconhecido
	AuthLenient AuthMode = "lenient"
	// AuthStrict guarda hash bcrypt no registro e confere no login
	AuthStrict AuthMode = "strict"
)

type Options struct {
	AuthMode       AuthMode
	DefaultBalance decimal.Decimal
	DefaultAvatar  string
	HashCost       int // 0 = bcrypt.DefaultCost
}

// Mirror recebe cada escrita local já confirmada; nunca devolve erro
type Mirror interface {
	Upsert(ctx context.Context, collection, id string, doc any)
	Delete(ctx context.Context, collection, id string)
}

type Directory struct {
	log     *zap.Logger
	store   kvstore.Store
	session *session.Session
	mirror  Mirror
	opts    Options

	// protege o read-modify-write de registered_users e do usuário ativo
	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

func New(log *zap.Logger, store kvstore.Store, sess *session.Session, mirror Mirror, opts Options) *Directory {
	if opts.AuthMode != AuthStrict {
		opts.AuthMode = AuthLenient
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	return &Directory{
		log:     log,
		store:   store,
		session: sess,
		mirror:  mirror,
		opts:    opts,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return "user-" + uuid.NewString() },
	}
}

// RegisterUser cria e ativa um usuário novo. E-mail já registrado vira login.
func (d *Directory) RegisterUser(ctx context.Context, name, email, password string) (models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return models.User{}, ErrInvalidName
	}
	if !emailRe.MatchString(email) {
		return models.User{}, ErrInvalidEmail
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.loadRegistered(ctx)
	if err != nil {
		return models.User{}, err
	}
	if i := indexByEmail(users, email); i >= 0 {
		if err := d.verify(users[i], password); err != nil {
			return models.User{}, err
		}
		if err := d.session.Set(ctx, users[i].User); err != nil {
			return models.User{}, err
		}
		d.log.Info("register as login", zap.String("userId", users[i].ID))
		return users[i].User, nil
	}

	ru, err := d.synthesize(name, email, password)
	if err != nil {
		return models.User{}, err
	}
	users = append(users, ru)
	if err := d.saveRegistered(ctx, users); err != nil {
		return models.User{}, err
	}
	if err := d.session.Set(ctx, ru.User); err != nil {
		return models.User{}, err
	}
	d.mirror.Upsert(ctx, collections.Users, ru.ID, ru.User)
	d.log.Info("user registered", zap.String("userId", ru.ID))
	return ru.User, nil
}

// LoginUser ativa o usuário do e-mail informado.
// No modo lenient um e-mail desconhecido gera um usuário novo na hora.
func (d *Directory) LoginUser(ctx context.Context, email, password string) (models.User, error) {
	email = normalizeEmail(email)
	if !emailRe.MatchString(email) {
		return models.User{}, ErrInvalidEmail
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.loadRegistered(ctx)
	if err != nil {
		return models.User{}, err
	}
	if i := indexByEmail(users, email); i >= 0 {
		if err := d.verify(users[i], password); err != nil {
			return models.User{}, err
		}
		if err := d.session.Set(ctx, users[i].User); err != nil {
			return models.User{}, err
		}
		return users[i].User, nil
	}

	if d.opts.AuthMode == AuthStrict {
		return models.User{}, ErrUserNotFound
	}

	name := email[:strings.Index(email, "@")]
	ru, err := d.synthesize(name, email, password)
	if err != nil {
		return models.User{}, err
	}
	users = append(users, ru)
	if err := d.saveRegistered(ctx, users); err != nil {
		return models.User{}, err
	}
	if err := d.session.Set(ctx, ru.User); err != nil {
		return models.User{}, err
	}
	d.mirror.Upsert(ctx, collections.Users, ru.ID, ru.User)
	d.log.Warn("login created unknown user", zap.String("userId", ru.ID))
	return ru.User, nil
}

// SetUser troca o usuário ativo e atualiza a entrada no diretório
func (d *Directory) SetUser(ctx context.Context, u models.User) error {
	if u.ID == "" {
		return ErrUserNotFound
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.loadRegistered(ctx)
	if err != nil {
		return err
	}
	users = upsertUser(users, u)
	if err := d.saveRegistered(ctx, users); err != nil {
		return err
	}
	if err := d.session.Set(ctx, u); err != nil {
		return err
	}
	d.mirror.Upsert(ctx, collections.Users, u.ID, u)
	return nil
}

func (d *Directory) GetCurrentUser() *models.User {
	return d.session.Current()
}

func (d *Directory) ClearUser(ctx context.Context) error {
	return d.session.Clear(ctx)
}

func (d *Directory) Logout(ctx context.Context) error {
	id := d.session.CurrentID()
	if err := d.ClearUser(ctx); err != nil {
		return err
	}
	d.log.Info("user logged out", zap.String("userId", id))
	return nil
}

// EnsureDefaultUser cria o usuário padrão no primeiro uso do app
func (d *Directory) EnsureDefaultUser(ctx context.Context) (models.User, error) {
	if cur := d.session.Current(); cur != nil {
		return *cur, nil
	}
	u := models.User{
		ID:       d.newID(),
		Name:     "Usuario",
		Email:    "usuario@example.com",
		Avatar:   d.opts.DefaultAvatar,
		Balance:  d.opts.DefaultBalance,
		JoinDate: d.now(),
	}
	if err := d.SetUser(ctx, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (d *Directory) ListRegistered(ctx context.Context) ([]models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.loadRegistered(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(users))
	for _, ru := range users {
		out = append(out, ru.User)
	}
	return out, nil
}

// ClearAll apaga o diretório local e encerra a sessão
func (d *Directory) ClearAll(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.Delete(ctx, kvstore.KeyRegisteredUsers); err != nil {
		return fmt.Errorf("clear registered users: %w", err)
	}
	return d.session.Clear(ctx)
}

func (d *Directory) synthesize(name, email, password string) (models.RegisteredUser, error) {
	ru := models.RegisteredUser{User: models.User{
		ID:       d.newID(),
		Name:     name,
		Email:    email,
		Avatar:   d.opts.DefaultAvatar,
		Balance:  d.opts.DefaultBalance,
		JoinDate: d.now(),
	}}
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), d.opts.HashCost)
		if err != nil {
			return models.RegisteredUser{}, fmt.Errorf("hash password: %w", err)
		}
		ru.PasswordHash = string(h)
	}
	return ru, nil
}

func (d *Directory) verify(ru models.RegisteredUser, password string) error {
	if d.opts.AuthMode != AuthStrict {
		return nil
	}
	if ru.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(ru.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func (d *Directory) loadRegistered(ctx context.Context) ([]models.RegisteredUser, error) {
	users, err := kvstore.LoadList[models.RegisteredUser](ctx, d.store, kvstore.KeyRegisteredUsers)
	if err != nil {
		return nil, fmt.Errorf("load registered users: %w", err)
	}
	return users, nil
}

func (d *Directory) saveRegistered(ctx context.Context, users []models.RegisteredUser) error {
	if err := kvstore.SaveList(ctx, d.store, kvstore.KeyRegisteredUsers, users); err != nil {
		return fmt.Errorf("save registered users: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func indexByEmail(users []models.RegisteredUser, email string) int {
	for i, u := range users {
		if strings.EqualFold(u.Email, email) {
			return i
		}
	}
	return -1
}

func indexByID(users []models.RegisteredUser, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// upsertUser preserva o hash da entrada existente
func upsertUser(users []models.RegisteredUser, u models.User) []models.RegisteredUser {
	if i := indexByID(users, u.ID); i >= 0 {
		users[i].User = u
		return users
	}
	return append(users, models.RegisteredUser{User: u})
}
