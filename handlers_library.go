package main

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"media-tracker-go/store"
	"media-tracker-go/utils"

	"github.com/gorilla/mux"
)

// itemPayload serializes a media item with its resolved poster URL.
func itemPayload(item store.MediaItem) map[string]interface{} {
	return map[string]interface{}{
		"id":           item.ID,
		"user_id":      item.UserID,
		"title":        item.Title,
		"media_type":   item.MediaType,
		"status":       item.Status,
		"rating":       item.Rating,
		"description":  item.Description,
		"review":       item.Review,
		"creator":      item.Creator,
		"genre":        item.Genre,
		"tags":         item.Tags,
		"image_url":    item.ImageURL,
		"poster_url":   posterResolver.Resolve(item.ImageURL, string(item.MediaType)),
		"release_date": item.ReleaseDate,
		"created_at":   item.CreatedAt,
		"updated_at":   item.UpdatedAt,
	}
}

func itemPayloads(items []store.MediaItem) []map[string]interface{} {
	result := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		result = append(result, itemPayload(item))
	}
	return result
}

func listLibraryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	filters := store.Filters{
		Q:         r.URL.Query().Get("q"),
		Status:    r.URL.Query().Get("status"),
		MediaType: r.URL.Query().Get("type"),
	}

	items, err := db.ListItems(userID, filters)
	if err != nil {
		Respond(w, r).Error(http.StatusInternalServerError, "Failed to list library")
		return
	}

	Respond(w, r).JSON(map[string]interface{}{
		"error": nil,
		"items": itemPayloads(items),
		"count": len(items),
	})
}

func createItemHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input store.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, "Invalid JSON body")
		return
	}

	item, err := db.CreateItem(userID, input)
	if err != nil {
		Respond(w, r).Error(http.StatusUnprocessableEntity, err.Error())
		return
	}

	suggestionCache.Invalidate(userID)

	Respond(w, r).Status(http.StatusCreated, map[string]interface{}{
		"error": nil,
		"item":  itemPayload(*item),
	})
}

func getItemHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	item, err := db.GetItem(userID, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Respond(w, r).Error(http.StatusNotFound, "Item not found")
			return
		}
		Respond(w, r).Error(http.StatusInternalServerError, "Failed to load item")
		return
	}

	Respond(w, r).JSON(map[string]interface{}{
		"error": nil,
		"item":  itemPayload(*item),
	})
}

func updateItemHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var upd store.ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, "Invalid JSON body")
		return
	}

	item, err := db.UpdateItem(userID, mux.Vars(r)["id"], upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Respond(w, r).Error(http.StatusNotFound, "Item not found")
			return
		}
		Respond(w, r).Error(http.StatusUnprocessableEntity, err.Error())
		return
	}

	suggestionCache.Invalidate(userID)

	Respond(w, r).JSON(map[string]interface{}{
		"error": nil,
		"item":  itemPayload(*item),
	})
}

func deleteItemHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := db.DeleteItem(userID, mux.Vars(r)["id"]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Respond(w, r).Error(http.StatusNotFound, "Item not found")
			return
		}
		Respond(w, r).Error(http.StatusInternalServerError, "Failed to delete item")
		return
	}

	suggestionCache.Invalidate(userID)

	Respond(w, r).JSON(map[string]interface{}{
		"error": nil,
	})
}

// ratingFromVote maps a 0-10 vote average to a 1-10 integer rating.
func ratingFromVote(voteAverage float64) *int {
	if voteAverage <= 0 {
		return nil
	}
	rating := int(math.Round(voteAverage))
	if rating < 1 {
		rating = 1
	}
	if rating > 10 {
		rating = 10
	}
	return &rating
}

func importTMDBHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req tmdbImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.TMDBID <= 0 || (req.MediaType != "movie" && req.MediaType != "series") {
		Respond(w, r).Error(http.StatusUnprocessableEntity, "tmdb_id and media_type (movie or series) are required")
		return
	}

	details, err := tmdbClient.GetDetails(r.Context(), req.TMDBID, req.MediaType == "series")
	if err != nil {
		Respond(w, r).Error(http.StatusBadGateway, "Catalog lookup failed")
		return
	}

	releaseDate := utils.ParseReleaseDate(details.DisplayDate())

	tags := make([]string, 0, len(details.Genres)+1)
	for _, g := range details.Genres {
		tags = append(tags, g.Name)
	}
	if len(releaseDate) >= 4 {
		tags = append(tags, releaseDate[:4])
	}

	creator, err := tmdbClient.Credits(r.Context(), req.TMDBID, req.MediaType == "series")
	if err != nil {
		creator = ""
	}

	item, err := db.CreateItem(userID, store.ItemInput{
		Title:       details.DisplayTitle(),
		MediaType:   req.MediaType,
		Status:      string(store.StatusWishlist),
		Rating:      ratingFromVote(details.VoteAverage),
		Description: details.Overview,
		Creator:     creator,
		Tags:        tags,
		ImageURL:    details.PosterPath,
		ReleaseDate: releaseDate,
	})
	if err != nil {
		Respond(w, r).Error(http.StatusUnprocessableEntity, err.Error())
		return
	}

	suggestionCache.Invalidate(userID)

	Respond(w, r).Status(http.StatusCreated, map[string]interface{}{
		"error": nil,
		"item":  itemPayload(*item),
	})
}

func importRecommendationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req recommendationImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Respond(w, r).Error(http.StatusBadRequest, "Invalid JSON body")
		return
	}

	description := req.Description
	if description == "" {
		description = req.Reason
	}

	item, err := db.CreateItem(userID, store.ItemInput{
		Title:       req.Title,
		MediaType:   req.MediaType,
		Status:      string(store.StatusWishlist),
		Description: description,
		Creator:     req.Creator,
		ImageURL:    req.PosterPath,
		ReleaseDate: utils.ParseReleaseDate(req.ReleaseDate),
	})
	if err != nil {
		Respond(w, r).Error(http.StatusUnprocessableEntity, err.Error())
		return
	}

	suggestionCache.Invalidate(userID)

	Respond(w, r).Status(http.StatusCreated, map[string]interface{}{
		"error": nil,
		"item":  itemPayload(*item),
	})
}
