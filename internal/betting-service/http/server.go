package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/radieske/betting-companion/internal/betting"
	"github.com/radieske/betting-companion/internal/betting-service/dto"
	"github.com/radieske/betting-companion/internal/betting-service/ws"
	"github.com/radieske/betting-companion/internal/catalog"
	"github.com/radieske/betting-companion/internal/directory"
	"github.com/radieske/betting-companion/internal/external/geocode"
	"github.com/radieske/betting-companion/internal/external/transfers"
	"github.com/radieske/betting-companion/internal/ledger"
	"github.com/radieske/betting-companion/internal/mirror"
	"github.com/radieske/betting-companion/internal/notifications"
	"github.com/radieske/betting-companion/internal/remote"
	"github.com/radieske/betting-companion/internal/wallet"
)

// API expõe as operações do app para a interface do dispositivo.
// Remote, Health, Transfers, Geocode e Hub são opcionais.
type API struct {
	Log           *zap.Logger
	Directory     *directory.Directory
	Wallet        *wallet.Wallet
	Bets          *ledger.Ledger
	Betting       *betting.Coordinator
	Catalog       *catalog.Catalog
	Notifications *notifications.Ledger
	Transfers     *transfers.Client
	Geocode       *geocode.Client
	Remote        *mirror.Gateway
	Health        *mirror.HealthMonitor
	Hub           *ws.Hub

	// AllowedOrigins vazio libera qualquer origem http(s)
	AllowedOrigins []string
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	origins := a.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"https://*", "http://*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Route("/v1", func(r chi.Router) {
		// usuário e sessão
		r.Post("/users/register", a.register)
		r.Get("/users", a.listUsers)
		r.Delete("/users", a.clearUsers)
		r.Get("/session", a.currentUser)
		r.Post("/session/login", a.login)
		r.Post("/session/logout", a.logout)
		r.Patch("/profile", a.updateProfile)
		r.Post("/profile/avatar", a.uploadAvatar)

		// carteira
		r.Get("/wallet", a.getBalance)
		r.Post("/wallet/deposit", a.deposit)
		r.Post("/wallet/withdraw", a.withdraw)
		r.Put("/wallet/balance", a.setBalance)

		// apostas
		r.Get("/bets", a.listBets)
		r.Post("/bets", a.placeBet)
		r.Delete("/bets", a.clearBets)
		r.Post("/bets/samples", a.sampleBets)
		r.Get("/bets/{id}", a.getBet)
		r.Patch("/bets/{id}", a.updateBet)
		r.Delete("/bets/{id}", a.deleteBet)
		r.Post("/bets/{id}/won", a.settleWon)
		r.Post("/bets/{id}/lost", a.settleLost)
		r.Post("/bets/{id}/cancel", a.cancelBet)
		r.Get("/stats", a.stats)

		// catálogo
		r.Get("/leagues", a.listLeagues)
		r.Post("/leagues", a.createLeague)
		r.Delete("/leagues", a.clearLeagues)
		r.Post("/leagues/samples", a.sampleLeagues)
		r.Get("/leagues/{id}", a.getLeague)
		r.Put("/leagues/{id}", a.updateLeague)
		r.Delete("/leagues/{id}", a.deleteLeague)
		r.Get("/teams", a.listTeams)
		r.Post("/teams", a.createTeam)
		r.Delete("/teams", a.clearTeams)
		r.Post("/teams/samples", a.sampleTeams)
		r.Get("/teams/{id}", a.getTeam)
		r.Put("/teams/{id}", a.updateTeam)
		r.Put("/teams/{id}/stats", a.updateTeamStats)
		r.Delete("/teams/{id}", a.deleteTeam)

		// notificações
		r.Get("/notifications", a.listNotifications)
		r.Post("/notifications", a.addNotification)
		r.Delete("/notifications", a.clearNotifications)
		r.Get("/notifications/unread", a.unreadCount)
		r.Post("/notifications/read-all", a.markAllRead)
		r.Post("/notifications/samples", a.sampleNotifications)
		r.Post("/notifications/{id}/read", a.markRead)
		r.Delete("/notifications/{id}", a.deleteNotification)

		// colaboradores externos
		r.Get("/transfers", a.listTransfers)
		r.Get("/geocode/reverse", a.reverseGeocode)
		r.Get("/geocode/search", a.searchPlaces)
		r.Get("/remote/status", a.remoteStatus)
		r.Get("/news", a.news)

		if a.Hub != nil {
			r.Get("/ws", a.Hub.HandleWS)
		}
	})
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json: " + err.Error()})
		return false
	}
	return true
}

// writeError traduz os erros de domínio em status HTTP
func (a *API) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		a.Log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, dto.ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrBetNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, notifications.ErrNotFound),
		errors.Is(err, directory.ErrUserNotFound),
		errors.Is(err, remote.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidBet),
		errors.Is(err, catalog.ErrInvalidEntry),
		errors.Is(err, notifications.ErrInvalidType),
		errors.Is(err, directory.ErrInvalidEmail),
		errors.Is(err, directory.ErrInvalidName),
		errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, betting.ErrStakeBelowMinimum),
		errors.Is(err, betting.ErrMoneyFieldUpdate):
		return http.StatusBadRequest
	case errors.Is(err, directory.ErrInvalidCredentials),
		errors.Is(err, directory.ErrNoActiveUser),
		errors.Is(err, wallet.ErrNoActiveUser):
		return http.StatusUnauthorized
	case errors.Is(err, ledger.ErrAlreadySettled),
		errors.Is(err, directory.ErrEmailTaken),
		errors.Is(err, wallet.ErrInsufficientFunds):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// userID usa ?userId= quando informado, senão o usuário ativo
func (a *API) userID(r *http.Request) (string, error) {
	if id := r.URL.Query().Get("userId"); id != "" {
		return id, nil
	}
	u := a.Directory.GetCurrentUser()
	if u == nil {
		return "", directory.ErrNoActiveUser
	}
	return u.ID, nil
}
