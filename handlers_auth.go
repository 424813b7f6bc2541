package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"media-tracker-go/logcolors"
	"media-tracker-go/middleware"
	"media-tracker-go/store"

	log "github.com/sirupsen/logrus"
)

// requireUser returns the authenticated user ID, writing a 401 when
// the request carries no valid session.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.UserID(r)
	if userID == "" {
		Respond(w, r).Error(http.StatusUnauthorized, "Not authenticated")
		return "", false
	}
	return userID, true
}

func sessionTTL() time.Duration {
	return time.Duration(conf.Configuration.SessionTTLHours) * time.Hour
}

func registerHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, "Invalid JSON body")
		return
	}

	user, err := db.CreateUser(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			Respond(w, r).Error(http.StatusConflict, "Email already registered")
			return
		}
		Respond(w, r).Error(http.StatusUnprocessableEntity, err.Error())
		return
	}

	profile, err := db.EnsureProfile(user.ID, user.Email)
	if err != nil {
		log.Errorf("%s Failed to create profile for %s: %v", logcolors.LogSession, user.ID, err)
		Respond(w, r).Error(http.StatusInternalServerError, "Failed to create profile")
		return
	}

	token, err := db.CreateSession(user.ID, sessionTTL())
	if err != nil {
		Respond(w, r).Error(http.StatusInternalServerError, "Failed to create session")
		return
	}

	Respond(w, r).Status(http.StatusCreated, map[string]interface{}{
		"error":    nil,
		"token":    token,
		"user_id":  user.ID,
		"username": profile.Username,
	})
}

func loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, "Invalid JSON body")
		return
	}

	user, err := db.Authenticate(req.Email, req.Password)
	if err != nil {
		Respond(w, r).Error(http.StatusUnauthorized, "Invalid email or password")
		return
	}

	// Accounts created before profiles existed get one on first login
	profile, err := db.EnsureProfile(user.ID, user.Email)
	if err != nil {
		log.Errorf("%s Failed to ensure profile for %s: %v", logcolors.LogSession, user.ID, err)
		Respond(w, r).Error(http.StatusInternalServerError, "Failed to load profile")
		return
	}

	token, err := db.CreateSession(user.ID, sessionTTL())
	if err != nil {
		Respond(w, r).Error(http.StatusInternalServerError, "Failed to create session")
		return
	}

	Respond(w, r).JSON(map[string]interface{}{
		"error":    nil,
		"token":    token,
		"user_id":  user.ID,
		"username": profile.Username,
	})
}

func logoutHandler(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token != "" {
		if err := db.DeleteSession(token); err != nil {
			log.Warnf("%s Failed to delete session: %v", logcolors.LogSession, err)
		}
	}
	Respond(w, r).JSON(map[string]interface{}{
		"error": nil,
	})
}
