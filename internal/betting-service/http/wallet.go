package httpapi

import (
	"net/http"

	"github.com/radieske/betting-companion/internal/betting-service/dto"
	"github.com/radieske/betting-companion/internal/wallet"
)

func (a *API) getBalance(w http.ResponseWriter, _ *http.Request) {
	bal, err := a.Wallet.Balance()
	if err != nil {
		a.writeError(w, err)
		return
	}
	resp := dto.BalanceResponse{Balance: bal}
	if u := a.Directory.GetCurrentUser(); u != nil {
		resp.UserID = u.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.AmountRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := a.Wallet.Credit(r.Context(), req.Amount)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.BalanceResponse{UserID: u.ID, Balance: u.Balance})
}

func (a *API) withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.AmountRequest
	if !decode(w, r, &req) {
		return
	}
	ok, err := a.Wallet.Debit(r.Context(), req.Amount)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if !ok {
		a.writeError(w, wallet.ErrInsufficientFunds)
		return
	}
	a.getBalance(w, r)
}

func (a *API) setBalance(w http.ResponseWriter, r *http.Request) {
	var req dto.BalanceRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := a.Wallet.SetBalance(r.Context(), req.Balance)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.BalanceResponse{UserID: u.ID, Balance: u.Balance})
}
