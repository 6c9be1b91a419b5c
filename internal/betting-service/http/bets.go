package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/betting-companion/internal/betting-service/dto"
	"github.com/radieske/betting-companion/internal/ledger"
	"github.com/radieske/betting-companion/internal/shared/models"
)

// listBets aceita ?userId=, ?status=, ?type= e ?q=; a resposta sai na ordem de exibição
func (a *API) listBets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("userId")

	var (
		bets []models.Bet
		err  error
	)
	switch {
	case q.Get("q") != "":
		bets, err = a.Bets.Search(r.Context(), q.Get("q"), userID)
	case q.Get("status") != "":
		bets, err = a.Bets.ByStatus(r.Context(), models.BetStatus(q.Get("status")), userID)
	case q.Get("type") != "":
		bets, err = a.Bets.ByType(r.Context(), models.BetType(q.Get("type")), userID)
	default:
		bets, err = a.Bets.ListByUser(r.Context(), userID)
	}
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ledger.SortForDisplay(bets))
}

func (a *API) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if !decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		id, err := a.userID(r)
		if err != nil {
			a.writeError(w, err)
			return
		}
		req.UserID = id
	}
	bet, err := a.Betting.PlaceBet(r.Context(), ledger.NewBet{
		UserID:     req.UserID,
		MatchID:    req.MatchID,
		MatchName:  req.MatchName,
		League:     req.League,
		BetType:    req.BetType,
		Prediction: req.Prediction,
		Odds:       req.Odds,
		Stake:      req.Stake,
		MatchDate:  req.MatchDate,
		Notes:      req.Notes,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bet)
}

func (a *API) getBet(w http.ResponseWriter, r *http.Request) {
	bet, err := a.Bets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bet)
}

// updateBet aceita só campos descritivos; stake, odds e status respondem 400
func (a *API) updateBet(w http.ResponseWriter, r *http.Request) {
	var upd ledger.BetUpdate
	if !decode(w, r, &upd) {
		return
	}
	bet, err := a.Betting.UpdateDetails(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bet)
}

func (a *API) deleteBet(w http.ResponseWriter, r *http.Request) {
	if err := a.Bets.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// clearBets apaga só as apostas de ?userId= quando informado, senão a coleção inteira
func (a *API) clearBets(w http.ResponseWriter, r *http.Request) {
	if userID := r.URL.Query().Get("userId"); userID != "" {
		n, err := a.Bets.ClearUser(r.Context(), userID)
		if err != nil {
			a.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dto.CountResponse{Count: n})
		return
	}
	if err := a.Bets.ClearAll(r.Context()); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) sampleBets(w http.ResponseWriter, r *http.Request) {
	userID, err := a.userID(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	bets, err := a.Bets.GenerateSampleBets(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bets)
}

func (a *API) settleWon(w http.ResponseWriter, r *http.Request) {
	a.settle(w, r, a.Betting.SettleWon)
}

func (a *API) settleLost(w http.ResponseWriter, r *http.Request) {
	a.settle(w, r, a.Betting.SettleLost)
}

func (a *API) cancelBet(w http.ResponseWriter, r *http.Request) {
	a.settle(w, r, a.Betting.Cancel)
}

func (a *API) settle(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id string) (models.Bet, error)) {
	bet, err := fn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bet)
}

func (a *API) stats(w http.ResponseWriter, r *http.Request) {
	userID, err := a.userID(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	st, err := a.Bets.UserStats(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
