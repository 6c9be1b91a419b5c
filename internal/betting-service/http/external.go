package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/radieske/betting-companion/internal/betting-service/dto"
)

func (a *API) listTransfers(w http.ResponseWriter, r *http.Request) {
	if a.Transfers == nil {
		writeJSON(w, http.StatusNotImplemented, dto.ErrorResponse{Error: "transfers not configured"})
		return
	}
	q := r.URL.Query()
	season, err := strconv.Atoi(q.Get("season"))
	if err != nil || season <= 0 {
		season = time.Now().Year()
	}
	team, _ := strconv.Atoi(q.Get("team"))
	force, _ := strconv.ParseBool(q.Get("force"))

	list, err := a.Transfers.List(r.Context(), season, team, force)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) reverseGeocode(w http.ResponseWriter, r *http.Request) {
	if a.Geocode == nil {
		writeJSON(w, http.StatusNotImplemented, dto.ErrorResponse{Error: "geocoding not configured"})
		return
	}
	lat, err1 := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err1 != nil || err2 != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "lat and lon are required"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"address": a.Geocode.Reverse(r.Context(), lat, lon)})
}

func (a *API) searchPlaces(w http.ResponseWriter, r *http.Request) {
	if a.Geocode == nil {
		writeJSON(w, http.StatusNotImplemented, dto.ErrorResponse{Error: "geocoding not configured"})
		return
	}
	places := a.Geocode.Search(r.Context(), r.URL.Query().Get("q"))
	if places == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, places)
}

// remoteStatus informa o backend ativo e, no backend REST, o detalhe dos health checks
func (a *API) remoteStatus(w http.ResponseWriter, r *http.Request) {
	if a.Remote == nil {
		writeJSON(w, http.StatusOK, dto.RemoteStatusResponse{Backend: "local", Up: true})
		return
	}
	resp := dto.RemoteStatusResponse{Backend: a.Remote.Backend()}
	if a.Health != nil {
		resp.Up = a.Health.Check(r.Context())
	} else {
		resp.Up = a.Remote.Store().Ping(r.Context()) == nil
	}
	if s, ok := a.Remote.Store().(interface {
		Status(ctx context.Context) map[string]any
	}); ok {
		resp.Details = s.Status(r.Context())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) news(w http.ResponseWriter, r *http.Request) {
	src, ok := a.newsSource()
	if !ok {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	items, err := src.News(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type newsSource interface {
	News(ctx context.Context) ([]json.RawMessage, error)
}

func (a *API) newsSource() (newsSource, bool) {
	if a.Remote == nil {
		return nil, false
	}
	src, ok := a.Remote.Store().(newsSource)
	return src, ok
}
