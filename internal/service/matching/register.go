package matching

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/colabhq/colab-server/internal/app"
	"github.com/colabhq/colab-server/internal/db"
	svcErr "github.com/colabhq/colab-server/internal/errors"
	"github.com/colabhq/colab-server/internal/server"
	"github.com/colabhq/colab-server/internal/service/account"
)

// Registrar ties the matching service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the matching service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the matching endpoints behind the session middleware.
func (reg *Registrar) Register(r *mux.Router) {
	svc := NewService(reg.appCtx)

	sub := r.PathPrefix("/api").Subrouter()
	sub.Use(account.Middleware(reg.appCtx))

	sub.HandleFunc("/potentials", svc.handlePotentials).Methods(http.MethodGet)
	sub.HandleFunc("/swipes", svc.handleSwipe).Methods(http.MethodPost)
	sub.HandleFunc("/matches", svc.handleMatches).Methods(http.MethodGet)
	sub.HandleFunc("/matches/count", svc.handleMatchCount).Methods(http.MethodGet)
}

type swipeRequest struct {
	TargetID uint64         `json:"target_id"`
	Action   db.SwipeAction `json:"action"`
}

type swipeResponse struct {
	Match *db.Match `json:"match"`
}

func (s *Service) handlePotentials(w http.ResponseWriter, r *http.Request) {
	userID, ok := account.UserIDFromContext(r.Context())
	if !ok {
		svcErr.Write(w, svcErr.ErrUnauthorized)
		return
	}

	topic := r.URL.Query().Get("topic")
	typePref := db.ProfileType(r.URL.Query().Get("type"))

	profiles, err := s.Potentials(r.Context(), userID, topic, typePref)
	if err != nil {
		svcErr.Write(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, profiles)
}

func (s *Service) handleSwipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := account.UserIDFromContext(r.Context())
	if !ok {
		svcErr.Write(w, svcErr.ErrUnauthorized)
		return
	}

	var in swipeRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		svcErr.Write(w, svcErr.InvalidArgument("malformed request body"))
		return
	}

	match, err := s.Swipe(r.Context(), userID, in.TargetID, in.Action)
	if err != nil {
		svcErr.Write(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, swipeResponse{Match: match})
}

func (s *Service) handleMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := account.UserIDFromContext(r.Context())
	if !ok {
		svcErr.Write(w, svcErr.ErrUnauthorized)
		return
	}

	matches, err := s.Matches(r.Context(), userID)
	if err != nil {
		svcErr.Write(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, matches)
}

func (s *Service) handleMatchCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := account.UserIDFromContext(r.Context())
	if !ok {
		svcErr.Write(w, svcErr.ErrUnauthorized)
		return
	}

	count, err := s.MatchCount(r.Context(), userID)
	if err != nil {
		svcErr.Write(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]int64{"count": count})
}
