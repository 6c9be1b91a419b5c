package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/betting-companion/internal/betting-service/dto"
	"github.com/radieske/betting-companion/internal/notifications"
)

func (a *API) listNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := a.userID(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	list, err := a.Notifications.ForUser(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) addNotification(w http.ResponseWriter, r *http.Request) {
	var req dto.NotificationRequest
	if !decode(w, r, &req) {
		return
	}
	userID := req.UserID
	if userID == "" {
		id, err := a.userID(r)
		if err != nil {
			a.writeError(w, err)
			return
		}
		userID = id
	}
	n, err := a.Notifications.Add(r.Context(), userID, notifications.NewNotification{
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Icon:    req.Icon,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (a *API) unreadCount(w http.ResponseWriter, r *http.Request) {
	userID, err := a.userID(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	n, err := a.Notifications.UnreadCount(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CountResponse{Count: n})
}

func (a *API) markRead(w http.ResponseWriter, r *http.Request) {
	userID, err := a.userID(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if err := a.Notifications.MarkAsRead(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) markAllRead(w http.ResponseWriter, r *http.Request) {
	userID, err := a.userID(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	n, err := a.Notifications.MarkAllAsRead(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CountResponse{Count: n})
}

func (a *API) deleteNotification(w http.ResponseWriter, r *http.Request) {
	userID, err := a.userID(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if err := a.Notifications.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) clearNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := a.userID(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	n, err := a.Notifications.ClearAll(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CountResponse{Count: n})
}

func (a *API) sampleNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := a.userID(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	list, err := a.Notifications.GenerateSamples(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}
