package account

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/colabhq/colab-server/internal/app"
	svcErr "github.com/colabhq/colab-server/internal/errors"
	"github.com/colabhq/colab-server/internal/server"
)

// Registrar ties the account service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the account service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the auth endpoints to the router. These are the only
// unauthenticated routes besides /health.
func (reg *Registrar) Register(r *mux.Router) {
	svc := NewService(reg.appCtx)

	r.HandleFunc("/auth/register", svc.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", svc.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", svc.handleLogout).Methods(http.MethodPost)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Profile any    `json:"profile"`
}

func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		svcErr.Write(w, svcErr.InvalidArgument("malformed request body"))
		return
	}

	profile, err := s.Register(r.Context(), in)
	if err != nil {
		svcErr.Write(w, err)
		return
	}
	server.WriteJSON(w, http.StatusCreated, profile)
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		svcErr.Write(w, svcErr.InvalidArgument("malformed request body"))
		return
	}

	profile, token, err := s.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		svcErr.Write(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, loginResponse{Token: token, Profile: profile})
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.Logout(r.Context(), BearerToken(r)); err != nil {
		svcErr.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
