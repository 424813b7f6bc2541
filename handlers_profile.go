package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"media-tracker-go/store"

	"github.com/gorilla/mux"
)

func profilePayload(p store.Profile) map[string]interface{} {
	return map[string]interface{}{
		"id":           p.ID,
		"username":     p.Username,
		"display_name": p.DisplayName,
		"first_name":   p.FirstName,
		"last_name":    p.LastName,
		"is_public":    p.IsPublic,
		"created_at":   p.CreatedAt,
		"updated_at":   p.UpdatedAt,
	}
}

func getProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	profile, err := db.ProfileForUser(userID)
	if err != nil {
		Respond(w, r).Error(http.StatusInternalServerError, "Failed to load profile")
		return
	}

	Respond(w, r).JSON(map[string]interface{}{
		"error":   nil,
		"profile": profilePayload(*profile),
	})
}

func updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var upd store.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, "Invalid JSON body")
		return
	}

	profile, visibilityChanged, err := db.UpdateProfile(userID, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Respond(w, r).Error(http.StatusNotFound, "Profile not found")
			return
		}
		Respond(w, r).Error(http.StatusUnprocessableEntity, err.Error())
		return
	}

	// Library visibility affects what suggestions may reference
	if visibilityChanged {
		suggestionCache.Invalidate(userID)
	}

	Respond(w, r).JSON(map[string]interface{}{
		"error":   nil,
		"profile": profilePayload(*profile),
	})
}

func publicProfileHandler(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	profile, err := db.ProfileByUsername(username)
	if err != nil || !profile.IsPublic {
		// Private profiles are indistinguishable from missing ones
		Respond(w, r).Error(http.StatusNotFound, "Profile not found")
		return
	}

	items, err := db.ListItems(profile.ID, store.Filters{})
	if err != nil {
		Respond(w, r).Error(http.StatusInternalServerError, "Failed to load library")
		return
	}

	Respond(w, r).JSON(map[string]interface{}{
		"error":   nil,
		"profile": profilePayload(*profile),
		"items":   itemPayloads(items),
		"count":   len(items),
	})
}
