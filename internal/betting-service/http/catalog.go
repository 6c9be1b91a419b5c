package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/betting-companion/internal/shared/models"
)

func (a *API) listLeagues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		out []models.League
		err error
	)
	switch {
	case q.Get("q") != "":
		out, err = a.Catalog.SearchLeagues(r.Context(), q.Get("q"))
	case q.Get("country") != "":
		out, err = a.Catalog.LeaguesByCountry(r.Context(), q.Get("country"))
	case q.Get("type") != "":
		out, err = a.Catalog.LeaguesByType(r.Context(), models.LeagueType(q.Get("type")))
	case q.Get("status") != "":
		out, err = a.Catalog.LeaguesByStatus(r.Context(), models.LeagueStatus(q.Get("status")))
	default:
		out, err = a.Catalog.ListLeagues(r.Context())
	}
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) createLeague(w http.ResponseWriter, r *http.Request) {
	var in models.League
	if !decode(w, r, &in) {
		return
	}
	l, err := a.Catalog.CreateLeague(r.Context(), in)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (a *API) getLeague(w http.ResponseWriter, r *http.Request) {
	l, err := a.Catalog.GetLeague(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (a *API) updateLeague(w http.ResponseWriter, r *http.Request) {
	var in models.League
	if !decode(w, r, &in) {
		return
	}
	l, err := a.Catalog.UpdateLeague(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (a *API) deleteLeague(w http.ResponseWriter, r *http.Request) {
	if err := a.Catalog.DeleteLeague(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) clearLeagues(w http.ResponseWriter, r *http.Request) {
	if err := a.Catalog.ClearLeagues(r.Context()); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) sampleLeagues(w http.ResponseWriter, r *http.Request) {
	out, err := a.Catalog.GenerateSampleLeagues(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (a *API) listTeams(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		out []models.Team
		err error
	)
	switch {
	case q.Get("q") != "":
		out, err = a.Catalog.SearchTeams(r.Context(), q.Get("q"))
	case q.Get("league") != "":
		out, err = a.Catalog.TeamsByLeague(r.Context(), q.Get("league"))
	default:
		out, err = a.Catalog.ListTeams(r.Context())
	}
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) createTeam(w http.ResponseWriter, r *http.Request) {
	var in models.Team
	if !decode(w, r, &in) {
		return
	}
	t, err := a.Catalog.CreateTeam(r.Context(), in)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (a *API) getTeam(w http.ResponseWriter, r *http.Request) {
	t, err := a.Catalog.GetTeam(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) updateTeam(w http.ResponseWriter, r *http.Request) {
	var in models.Team
	if !decode(w, r, &in) {
		return
	}
	t, err := a.Catalog.UpdateTeam(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) updateTeamStats(w http.ResponseWriter, r *http.Request) {
	var stats models.TeamStats
	if !decode(w, r, &stats) {
		return
	}
	t, err := a.Catalog.UpdateTeamStats(r.Context(), chi.URLParam(r, "id"), stats)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) deleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := a.Catalog.DeleteTeam(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) clearTeams(w http.ResponseWriter, r *http.Request) {
	if err := a.Catalog.ClearTeams(r.Context()); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) sampleTeams(w http.ResponseWriter, r *http.Request) {
	out, err := a.Catalog.GenerateSampleTeams(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}
