package main

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"go.uber.org/zap"

	"formdesk/internal/api"
	"formdesk/internal/apperr"
	"formdesk/internal/config"
	"formdesk/internal/logger"
	"formdesk/internal/model"
	"formdesk/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}

	bootstrapAdmins(st, cfg.AdminEmails, log)

	mux := http.NewServeMux()
	api.NewServer(st, log, cfg.SessionTTL).RegisterRoutes(mux)

	// Everything that is not /api is the single-page client.
	mux.Handle("/", &app.Handler{
		Name:        "FormDesk",
		Title:       "FormDesk",
		Description: "Internal application portal",
		Styles:      []string{"/web/app.css"},
	})

	log.Info("listening", zap.String("addr", cfg.Addr), zap.String("base_url", cfg.BaseURL))
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// bootstrapAdmins makes sure every configured admin email has an admin
// account, so employees always have a counterpart to message. A missing
// account is created with a random password that is logged once; the
// admin is expected to change it.
func bootstrapAdmins(st *store.Store, emails []string, log *zap.Logger) {
	for _, email := range emails {
		if email == "" {
			continue
		}
		_, err := st.GetUserByEmail(email)
		switch {
		case err == nil:
			if err := st.PromoteAdmin(email); err != nil {
				log.Error("promote admin", zap.String("email", email), zap.Error(err))
			}
		case apperr.CodeOf(err) == apperr.CodeNotFound:
			password := randomPassword()
			name := strings.Split(email, "@")[0]
			if _, err := st.CreateUser(name, email, password, model.RoleAdmin); err != nil {
				log.Error("create admin", zap.String("email", email), zap.Error(err))
				continue
			}
			log.Info("created admin account",
				zap.String("email", email),
				zap.String("initial_password", password))
		default:
			log.Error("lookup admin", zap.String("email", email), zap.Error(err))
		}
	}
}

func randomPassword() string {
	b := make([]byte, 12)
	rand.Read(b)
	return hex.EncodeToString(b)
}
