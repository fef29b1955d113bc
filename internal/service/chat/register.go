package chat

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/colabhq/colab-server/internal/app"
	"github.com/colabhq/colab-server/internal/db"
	svcErr "github.com/colabhq/colab-server/internal/errors"
	"github.com/colabhq/colab-server/internal/server"
	"github.com/colabhq/colab-server/internal/service/account"
)

// Registrar ties the chat service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the chat service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the conversation endpoints behind the session middleware.
func (reg *Registrar) Register(r *mux.Router) {
	svc := NewService(reg.appCtx)

	sub := r.PathPrefix("/api").Subrouter()
	sub.Use(account.Middleware(reg.appCtx))

	sub.HandleFunc("/messages", svc.handleSend).Methods(http.MethodPost)
	sub.HandleFunc("/conversations/{partnerId}", svc.handleConversation).Methods(http.MethodGet)
}

type sendRequest struct {
	ReceiverID uint64 `json:"receiver_id"`
	Content    string `json:"content"`
}

type conversationResponse struct {
	Messages            []db.Message `json:"messages"`
	NextPaginationToken *string      `json:"next_pagination_token,omitempty"`
}

func (s *Service) handleSend(w http.ResponseWriter, r *http.Request) {
	userID, ok := account.UserIDFromContext(r.Context())
	if !ok {
		svcErr.Write(w, svcErr.ErrUnauthorized)
		return
	}

	var in sendRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		svcErr.Write(w, svcErr.InvalidArgument("malformed request body"))
		return
	}

	msg, err := s.Send(r.Context(), userID, in.ReceiverID, in.Content)
	if err != nil {
		svcErr.Write(w, err)
		return
	}
	server.WriteJSON(w, http.StatusCreated, msg)
}

func (s *Service) handleConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := account.UserIDFromContext(r.Context())
	if !ok {
		svcErr.Write(w, svcErr.ErrUnauthorized)
		return
	}

	partnerID, err := strconv.ParseUint(mux.Vars(r)["partnerId"], 10, 64)
	if err != nil {
		svcErr.Write(w, svcErr.InvalidArgument("partnerId must be a valid uint64"))
		return
	}

	var token *string
	if v := r.URL.Query().Get("page_token"); v != "" {
		token = &v
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	messages, nextToken, err := s.Conversation(r.Context(), userID, partnerID, token, limit)
	if err != nil {
		svcErr.Write(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, conversationResponse{
		Messages:            messages,
		NextPaginationToken: nextToken,
	})
}
