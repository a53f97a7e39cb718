package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"pricewatch/internal/providers"
	"pricewatch/internal/refresh"
	"pricewatch/internal/refresh/interfaces"
	"pricewatch/internal/services"
	"pricewatch/internal/storage"
	"pricewatch/internal/structures"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger     providers.Logger
	conf       *structures.Config
	users      storage.UserRepositoryInterface
	watchlists storage.WatchlistRepositoryInterface
	service    services.PriceServiceInterface
	scheduler  interfaces.SchedulerInterface
	cache      providers.CacheProviderInterface
}

func NewApiController(
	logger providers.Logger,
	conf *structures.Config,
	users storage.UserRepositoryInterface,
	watchlists storage.WatchlistRepositoryInterface,
	service services.PriceServiceInterface,
	scheduler interfaces.SchedulerInterface,
	cache providers.CacheProviderInterface,
) *ApiController {
	return &ApiController{
		logger:     logger,
		conf:       conf,
		users:      users,
		watchlists: watchlists,
		service:    service,
		scheduler:  scheduler,
		cache:      cache,
	}
}

func getUsername(r *http.Request) string {
	return r.URL.Query().Get("u")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, ttl time.Duration, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson, ttl)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func userCacheKey(username string) string {
	return "user:" + username
}

func (ac *ApiController) GetUser(w http.ResponseWriter, r *http.Request) {
	username := getUsername(r)
	if username == "" {
		writeError(w, http.StatusBadRequest, "missing username")
		return
	}
	ac.serveFromCacheOrCompute(w, userCacheKey(username), ac.conf.Cache.UserTTL, func() (any, error) {
		return ac.users.GetOrCreate(r.Context(), username)
	})
}

func (ac *ApiController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	username := getUsername(r)
	if username == "" {
		writeError(w, http.StatusBadRequest, "missing username")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload struct {
		PushoverCode              *string   `json:"pushover_code"`
		PriceLimit                *float64  `json:"price_limit"`
		NotificationFrequencyDays *int      `json:"notification_frequency_days"`
		RetailerExclusions        *[]string `json:"retailer_exclusions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := ac.users.GetOrCreate(r.Context(), username)
	if err != nil {
		ac.logger.Errorf(providers.TypeApp, "Cannot load user %s: %s", username, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if payload.PushoverCode != nil {
		user.PushoverCode = *payload.PushoverCode
	}
	if payload.PriceLimit != nil {
		user.PriceLimit = *payload.PriceLimit
	}
	if payload.NotificationFrequencyDays != nil {
		user.NotificationFrequencyDays = *payload.NotificationFrequencyDays
	}
	if payload.RetailerExclusions != nil {
		user.RetailerExclusions = *payload.RetailerExclusions
	}

	if err := ac.users.Update(r.Context(), user); err != nil {
		ac.logger.Errorf(providers.TypeApp, "Cannot update user %s: %s", username, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.cache.Del(userCacheKey(username))

	writeJSON(w, http.StatusOK, user)
}

func (ac *ApiController) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	username := getUsername(r)
	if username == "" {
		writeError(w, http.StatusBadRequest, "missing username")
		return
	}

	urls, err := ac.watchlists.List(r.Context(), username)
	if err != nil {
		ac.logger.Errorf(providers.TypeApp, "Cannot list watchlist for %s: %s", username, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, urls)
}

func (ac *ApiController) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	username := getUsername(r)
	if username == "" {
		writeError(w, http.StatusBadRequest, "missing username")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.URL == "" {
		writeError(w, http.StatusBadRequest, "missing product url")
		return
	}

	if err := ac.watchlists.Add(r.Context(), username, payload.URL); err != nil {
		ac.logger.Errorf(providers.TypeApp, "Cannot add %s to watchlist for %s: %s", payload.URL, username, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (ac *ApiController) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	username := getUsername(r)
	url := r.URL.Query().Get("url")
	if username == "" || url == "" {
		writeError(w, http.StatusBadRequest, "missing username or product url")
		return
	}

	if err := ac.watchlists.Remove(r.Context(), username, url); err != nil {
		ac.logger.Errorf(providers.TypeApp, "Cannot remove %s from watchlist for %s: %s", url, username, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) GetProduct(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "missing product url")
		return
	}

	var excluded []string
	if username := getUsername(r); username != "" {
		user, err := ac.users.GetOrCreate(r.Context(), username)
		if err != nil {
			ac.logger.Errorf(providers.TypeApp, "Cannot load user %s: %s", username, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		excluded = user.RetailerExclusions
	}

	summary, err := ac.service.GetProductSummary(r.Context(), url, excluded)
	if err != nil {
		if errors.Is(err, services.ErrNoUsableData) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		ac.logger.Errorf(providers.TypeApp, "Cannot get summary for %s: %s", url, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (ac *ApiController) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	if ac.scheduler.IsRunning() {
		writeError(w, http.StatusConflict, "refresh already in progress")
		return
	}

	go func() {
		if err := ac.scheduler.RunOnce(context.Background()); err != nil && !errors.Is(err, refresh.ErrRefreshInProgress) {
			ac.logger.Errorf(providers.TypeApp, "On-demand refresh failed: %s", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh started"})
}

func (ac *ApiController) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"running":      ac.scheduler.IsRunning(),
		"next_refresh": ac.scheduler.NextRefresh().Format(time.RFC3339),
	}
	if last := ac.scheduler.LastRefresh(); !last.IsZero() {
		resp["last_refresh"] = last.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}
