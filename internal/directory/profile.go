package directory

import (
	"context"
	"strings"

	"github.com/radieske/betting-companion/internal/shared/models"
	"github.com/radieske/betting-companion/pkg/contracts/collections"
)

// ProfileUpdate carrega só os campos que o usuário pode editar; nil = manter
type ProfileUpdate struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
	Phone  *string `json:"phone,omitempty"`
}

// Update aplica fn sobre o usuário de forma atômica: lê, altera, persiste, publica, espelha.
// Se fn devolver erro nada é gravado. O ID não pode ser alterado por fn.
func (d *Directory) Update(ctx context.Context, userID string, fn func(u *models.User) error) (models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.loadRegistered(ctx)
	if err != nil {
		return models.User{}, err
	}

	var working models.User
	active := false
	if cur := d.session.Current(); cur != nil && cur.ID == userID {
		working, active = *cur, true
	} else if i := indexByID(users, userID); i >= 0 {
		working = users[i].User
	} else {
		return models.User{}, ErrUserNotFound
	}

	if err := fn(&working); err != nil {
		return models.User{}, err
	}
	working.ID = userID

	users = upsertUser(users, working)
	if err := d.saveRegistered(ctx, users); err != nil {
		return models.User{}, err
	}
	if active {
		if err := d.session.Set(ctx, working); err != nil {
			return models.User{}, err
		}
	}
	d.mirror.Upsert(ctx, collections.Users, working.ID, working)
	return working, nil
}

// UpdateCurrent é Update sobre o usuário ativo
func (d *Directory) UpdateCurrent(ctx context.Context, fn func(u *models.User) error) (models.User, error) {
	id := d.session.CurrentID()
	if id == "" {
		return models.User{}, ErrNoActiveUser
	}
	return d.Update(ctx, id, fn)
}

// UpdateProfile aplica uma edição parcial do perfil do usuário ativo
func (d *Directory) UpdateProfile(ctx context.Context, p ProfileUpdate) (models.User, error) {
	var email string
	if p.Email != nil {
		email = normalizeEmail(*p.Email)
		if !emailRe.MatchString(email) {
			return models.User{}, ErrInvalidEmail
		}
		// checagem de e-mail duplicado fora do Update para não reentrar no lock
		others, err := d.ListRegistered(ctx)
		if err != nil {
			return models.User{}, err
		}
		cur := d.session.CurrentID()
		for _, o := range others {
			if o.ID != cur && strings.EqualFold(o.Email, email) {
				return models.User{}, ErrEmailTaken
			}
		}
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return models.User{}, ErrInvalidName
	}

	return d.UpdateCurrent(ctx, func(u *models.User) error {
		if p.Name != nil {
			u.Name = strings.TrimSpace(*p.Name)
		}
		if p.Email != nil {
			u.Email = email
		}
		if p.Avatar != nil {
			u.Avatar = *p.Avatar
		}
		if p.Phone != nil {
			u.Phone = *p.Phone
		}
		return nil
	})
}
