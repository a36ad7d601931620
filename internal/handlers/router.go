// File: internal/handlers/router.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ampersand-labs/homework/internal/middleware"
	"github.com/ampersand-labs/homework/internal/services"
	"github.com/ampersand-labs/homework/internal/services/account"
)

// Deps bundles everything the router needs.
type Deps struct {
	Auth          *AuthHandler
	Chats         *ChatHandler
	Templates     *TemplateHandler
	Settings      *SettingsHandler
	Export        *ExportHandler
	Transcript    *TranscriptHandler
	Notifications *NotificationBuffer
	Accounts      *account.Service
	Logger        services.Logger
}

// NewRouter wires the full API surface.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.RecoverPanic(d.Logger))
	r.Use(middleware.LoggingMiddleware(d.Logger))
	r.Use(middleware.NewSessionMiddleware(d.Accounts, d.Logger))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Session
	api.HandleFunc("/auth/local", d.Auth.LocalLogin).Methods("POST")
	api.HandleFunc("/auth/register", d.Auth.Register).Methods("POST")
	api.HandleFunc("/auth/signin", d.Auth.SignIn).Methods("POST")
	api.HandleFunc("/auth/logout", d.Auth.Logout).Methods("POST")
	api.HandleFunc("/auth/me", d.Auth.CurrentUser).Methods("GET")

	// Chats and messages
	api.HandleFunc("/chats", d.Chats.ListChats).Methods("GET")
	api.HandleFunc("/chats", d.Chats.CreateChat).Methods("POST")
	api.HandleFunc("/chats/{id}", d.Chats.GetChat).Methods("GET")
	api.HandleFunc("/chats/{id}", d.Chats.DeleteChat).Methods("DELETE")
	api.HandleFunc("/chats/{id}/select", d.Chats.SelectChat).Methods("POST")
	api.HandleFunc("/chats/{id}/messages", d.Chats.SendMessage).Methods("POST")
	api.HandleFunc("/chats/{id}/invoke", d.Chats.InvokeTemplate).Methods("POST")
	api.HandleFunc("/chats/{id}/messages/{messageId}", d.Chats.EditMessage).Methods("PUT")
	api.HandleFunc("/chats/{id}/messages/{messageId}", d.Chats.DeleteMessage).Methods("DELETE")
	api.HandleFunc("/chats/{id}/messages/{messageId}/regenerate", d.Chats.RegenerateMessage).Methods("POST")
	api.HandleFunc("/chats/{id}/export", d.Export.ExportChat).Methods("GET")

	// Templates
	api.HandleFunc("/templates", d.Templates.ListTemplates).Methods("GET")
	api.HandleFunc("/templates", d.Templates.SaveTemplate).Methods("POST")
	api.HandleFunc("/templates/preview", d.Templates.PreviewTemplate).Methods("POST")
	api.HandleFunc("/templates/{id}", d.Templates.GetTemplate).Methods("GET")
	api.HandleFunc("/templates/{id}", d.Templates.SaveTemplate).Methods("PUT")
	api.HandleFunc("/templates/{id}", d.Templates.DeleteTemplate).Methods("DELETE")

	// Settings, transcript, export, notifications
	api.HandleFunc("/settings", d.Settings.GetSettings).Methods("GET")
	api.HandleFunc("/settings", d.Settings.UpdateSettings).Methods("PUT")
	api.HandleFunc("/transcript", d.Transcript.FetchTranscript).Methods("GET")
	api.HandleFunc("/export", d.Export.ExportAll).Methods("GET")
	api.HandleFunc("/notifications", d.Notifications.PollNotifications).Methods("GET")

	return r
}
