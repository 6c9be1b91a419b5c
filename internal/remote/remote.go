// Package remote define o contrato do backend remoto espelhado.
// Há um adaptador por backend; a escolha acontece uma vez, no main.
package remote

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrNotFound = errors.New("remote: document not found")

// Document é o JSON já codificado de um registro
type Document = json.RawMessage

type Store interface {
	Name() string
	// Get devolve ErrNotFound quando o id não existe na coleção
	Get(ctx context.Context, collection, id string) (Document, error)
	Create(ctx context.Context, collection, id string, doc Document) error
	Update(ctx context.Context, collection, id string, doc Document) error
	Delete(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
}

// AuthSession é a identidade devolvida por um backend com autenticação própria
type AuthSession struct {
	UID   string `json:"uid"`
	Token string `json:"token"`
}

// Authenticator é implementado por backends que têm cadastro/login próprios
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (AuthSession, error)
	SignIn(ctx context.Context, email, password string) (AuthSession, error)
	SignOut()
}

// FileStore é implementado por backends que guardam arquivos (ex.: avatar)
type FileStore interface {
	Upload(ctx context.Context, path, contentType string, data []byte) (string, error)
	DeleteFile(ctx context.Context, path string) error
}
