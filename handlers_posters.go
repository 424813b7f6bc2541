package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"media-tracker-go/services/storage"

	"github.com/gorilla/mux"
)

const maxPosterUploadBytes = 10 << 20 // 10 MB

func uploadPosterHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if posterStorage == nil {
		Respond(w, r).Error(http.StatusServiceUnavailable, "Poster uploads are not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPosterUploadBytes)
	if err := r.ParseMultipartForm(maxPosterUploadBytes); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, "Invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		Respond(w, r).Error(http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	path, err := posterStorage.SavePoster(userID, header.Filename, file)
	if err != nil {
		Respond(w, r).Error(http.StatusInternalServerError, "Failed to store poster")
		return
	}

	ttl := time.Duration(conf.Configuration.PosterURLTTLInSeconds) * time.Second
	url, expiresAt := posterStorage.SignedURL(path, ttl)
	posterURLCache.Put(path, url, expiresAt)

	Respond(w, r).Status(http.StatusCreated, map[string]interface{}{
		"error":     nil,
		"reference": storage.PathPrefix + path,
		"url":       url,
	})
}

func servePosterHandler(w http.ResponseWriter, r *http.Request) {
	if posterStorage == nil {
		http.Error(w, "Poster storage not configured", http.StatusServiceUnavailable)
		return
	}

	path := mux.Vars(r)["path"]
	exp, err := strconv.ParseInt(r.URL.Query().Get("exp"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid expiry", http.StatusBadRequest)
		return
	}
	sig := r.URL.Query().Get("sig")

	if err := posterStorage.Verify(path, exp, sig); err != nil {
		if errors.Is(err, storage.ErrExpired) {
			http.Error(w, "URL expired", http.StatusGone)
			return
		}
		http.Error(w, "Invalid signature", http.StatusForbidden)
		return
	}

	filePath, err := posterStorage.FilePath(path)
	if err != nil {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	http.ServeFile(w, r, filePath)
}
