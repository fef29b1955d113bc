package moderation

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/colabhq/colab-server/internal/app"
	svcErr "github.com/colabhq/colab-server/internal/errors"
	"github.com/colabhq/colab-server/internal/server"
	"github.com/colabhq/colab-server/internal/service/account"
)

// Registrar ties the moderation service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the moderation service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the admin endpoints behind the session middleware.
// The ADMIN type check happens in the service, not the router.
func (reg *Registrar) Register(r *mux.Router) {
	svc := NewService(reg.appCtx)

	sub := r.PathPrefix("/api/admin").Subrouter()
	sub.Use(account.Middleware(reg.appCtx))

	sub.HandleFunc("/users", svc.handleListUsers).Methods(http.MethodGet)
	sub.HandleFunc("/users/{userId}/block", svc.handleToggleBlock).Methods(http.MethodPost)
	sub.HandleFunc("/users/{userId}", svc.handleDeleteUser).Methods(http.MethodDelete)
}

func (s *Service) handleListUsers(w http.ResponseWriter, r *http.Request) {
	callerID, ok := account.UserIDFromContext(r.Context())
	if !ok {
		svcErr.Write(w, svcErr.ErrUnauthorized)
		return
	}

	users, err := s.ListUsers(r.Context(), callerID)
	if err != nil {
		svcErr.Write(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, users)
}

func (s *Service) handleToggleBlock(w http.ResponseWriter, r *http.Request) {
	callerID, ok := account.UserIDFromContext(r.Context())
	if !ok {
		svcErr.Write(w, svcErr.ErrUnauthorized)
		return
	}

	targetID, err := strconv.ParseUint(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		svcErr.Write(w, svcErr.InvalidArgument("userId must be a valid uint64"))
		return
	}

	profile, err := s.ToggleBlock(r.Context(), callerID, targetID)
	if err != nil {
		svcErr.Write(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, profile)
}

func (s *Service) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	callerID, ok := account.UserIDFromContext(r.Context())
	if !ok {
		svcErr.Write(w, svcErr.ErrUnauthorized)
		return
	}

	targetID, err := strconv.ParseUint(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		svcErr.Write(w, svcErr.InvalidArgument("userId must be a valid uint64"))
		return
	}

	if err := s.DeleteUser(r.Context(), callerID, targetID); err != nil {
		svcErr.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
