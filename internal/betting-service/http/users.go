package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/betting-service/dto"
	"github.com/radieske/betting-companion/internal/directory"
	"github.com/radieske/betting-companion/internal/remote"
	"github.com/radieske/betting-companion/internal/shared/models"
)

const maxAvatarBytes = 5 << 20

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := a.Directory.RegisterUser(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.remoteAuth(r.Context(), req.Email, req.Password, true)
	writeJSON(w, http.StatusCreated, u)
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := a.Directory.LoginUser(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.remoteAuth(r.Context(), req.Email, req.Password, false)
	writeJSON(w, http.StatusOK, u)
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	if err := a.Directory.Logout(r.Context()); err != nil {
		a.writeError(w, err)
		return
	}
	if auth, ok := a.authenticator(); ok {
		auth.SignOut()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) currentUser(w http.ResponseWriter, _ *http.Request) {
	u := a.Directory.GetCurrentUser()
	if u == nil {
		a.writeError(w, directory.ErrNoActiveUser)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.Directory.ListRegistered(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (a *API) clearUsers(w http.ResponseWriter, r *http.Request) {
	if err := a.Directory.ClearAll(r.Context()); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req directory.ProfileUpdate
	if !decode(w, r, &req) {
		return
	}
	u, err := a.Directory.UpdateProfile(r.Context(), req)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// uploadAvatar grava o corpo da requisição no FileStore remoto e aponta o avatar para a URL pública
func (a *API) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	files, ok := a.fileStore()
	if !ok {
		writeJSON(w, http.StatusNotImplemented, dto.ErrorResponse{Error: "remote backend has no file storage"})
		return
	}
	cur := a.Directory.GetCurrentUser()
	if cur == nil {
		a.writeError(w, directory.ErrNoActiveUser)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxAvatarBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if len(data) == 0 || len(data) > maxAvatarBytes {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "avatar must be between 1 byte and 5MB"})
		return
	}
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	name := path.Join("avatars", cur.ID, fmt.Sprintf("%d", time.Now().UnixMilli()))
	url, err := files.Upload(r.Context(), name, contentType, data)
	if err != nil {
		a.Log.Warn("avatar upload failed", zap.String("userId", cur.ID), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		return
	}
	u, err := a.Directory.UpdateCurrent(r.Context(), func(u *models.User) error {
		u.Avatar = url
		return nil
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// remoteAuth cria/abre a identidade no backend remoto quando ele tem autenticação própria.
// Falhas não afetam o login local.
func (a *API) remoteAuth(ctx context.Context, email, password string, signUp bool) {
	auth, ok := a.authenticator()
	if !ok || password == "" {
		return
	}
	var err error
	if signUp {
		_, err = auth.SignUp(ctx, email, password)
	}
	if !signUp || err != nil {
		_, err = auth.SignIn(ctx, email, password)
	}
	if err != nil {
		a.Log.Warn("remote auth failed", zap.String("email", email), zap.Error(err))
	}
}

func (a *API) authenticator() (remote.Authenticator, bool) {
	if a.Remote == nil {
		return nil, false
	}
	auth, ok := a.Remote.Store().(remote.Authenticator)
	return auth, ok
}

func (a *API) fileStore() (remote.FileStore, bool) {
	if a.Remote == nil {
		return nil, false
	}
	fs, ok := a.Remote.Store().(remote.FileStore)
	return fs, ok
}
