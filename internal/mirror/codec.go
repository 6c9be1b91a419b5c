package mirror

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/radieske/betting-companion/internal/shared/models"
	"github.com/radieske/betting-companion/pkg/contracts/collections"
)

var (
	ErrUnknownCollection = errors.New("mirror: unknown collection")
	ErrUnmappable        = errors.New("mirror: payload does not map to the collection type")
)

// Encode serializa o documento local; datas saem em RFC 3339
func Encode(doc any) (json.RawMessage, error) {
	if ru, ok := doc.(models.RegisteredUser); ok {
		doc = ru.User
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode mirror payload: %w", err)
	}
	return b, nil
}

// Canonicalize converte o JSON no tipo canônico da coleção e o serializa de novo.
// Campos desconhecidos são descartados e devolvidos para log; tipos incompatíveis viram ErrUnmappable.
func Canonicalize(collection string, raw json.RawMessage) (json.RawMessage, []string, error) {
	switch collection {
	case collections.Users:
		return canonical[models.User](raw)
	case collections.Bets:
		return canonical[models.Bet](raw)
	case collections.Leagues:
		return canonical[models.League](raw)
	case collections.Teams:
		return canonical[models.Team](raw)
	case collections.Notifications:
		return canonical[models.Notification](raw)
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
}

// DecodeInto é o caminho de leitura: JSON remoto → tipo canônico
func DecodeInto[T any](raw json.RawMessage) (T, []string, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, nil, fmt.Errorf("%w: %v", ErrUnmappable, err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return out, nil, fmt.Errorf("%w: %v", ErrUnmappable, err)
	}
	return out, unknownFields[T](fields), nil
}

func canonical[T any](raw json.RawMessage) (json.RawMessage, []string, error) {
	v, unknown, err := DecodeInto[T](raw)
	if err != nil {
		return nil, nil, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return b, unknown, nil
}

var knownCache sync.Map // reflect.Type -> map[string]struct{}

func unknownFields[T any](fields map[string]json.RawMessage) []string {
	known := knownFields(reflect.TypeOf((*T)(nil)).Elem())
	var out []string
	for k, v := range fields {
		if _, ok := known[k]; ok {
			continue
		}
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// knownFields lista as chaves JSON de um struct, incluindo structs embutidos
func knownFields(t reflect.Type) map[string]struct{} {
	if v, ok := knownCache.Load(t); ok {
		return v.(map[string]struct{})
	}
	out := make(map[string]struct{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if f.Anonymous && tag == "" && f.Type.Kind() == reflect.Struct {
			for k := range knownFields(f.Type) {
				out[k] = struct{}{}
			}
			continue
		}
		if !f.IsExported() || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name == "" {
			name = f.Name
		}
		out[name] = struct{}{}
	}
	knownCache.Store(t, out)
	return out
}
