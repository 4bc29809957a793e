package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tripmaster/trip-scout/internal/domain"
	"github.com/tripmaster/trip-scout/internal/kvstore"
	"github.com/tripmaster/trip-scout/internal/repository/ports"
	"github.com/tripmaster/trip-scout/internal/util"
)

var (
	ErrInvalidLocation   = errors.New("location cannot be empty")
	ErrInvalidDuration   = errors.New("duration must be between 1 and 14 days")
	ErrNoSectionsEnabled = errors.New("at least one section must be enabled")
	ErrInvalidCategory   = errors.New("invalid item type")
)

const (
	minDuration = 1
	maxDuration = 14
)

type GuideConfig struct {
	CacheTTL   time.Duration
	SessionTTL time.Duration

	// MaxRetries counts attempts after the initial run. Empty results are
	// never cached, so each retry hits the API fresh.
	MaxRetries int
	RetryDelay time.Duration

	PhotosPerDay      int
	RestaurantsPerDay int
	AttractionsPerDay int

	ModelLabel    string
	ArchiveBucket string
}

// GuideService orchestrates the scout pipeline: cache lookup, parallel
// generation, venue verification, distance annotation, review sessions and
// draft persistence.
type GuideService struct {
	scouts   ports.ScoutClient
	verifier ports.PlaceVerifier
	trips    ports.TripRepository
	clients  ports.ClientRepository
	store    kvstore.Store
	storage  ports.ObjectStorage
	cfg      GuideConfig

	sleep        func(time.Duration)
	newSessionID func() string
}

func NewGuideService(
	scouts ports.ScoutClient,
	verifier ports.PlaceVerifier,
	tripRepo ports.TripRepository,
	clientRepo ports.ClientRepository,
	store kvstore.Store,
	storage ports.ObjectStorage,
	cfg GuideConfig,
) *GuideService {
	return &GuideService{
		scouts:       scouts,
		verifier:     verifier,
		trips:        tripRepo,
		clients:      clientRepo,
		store:        store,
		storage:      storage,
		cfg:          cfg,
		sleep:        time.Sleep,
		newSessionID: func() string { return uuid.NewString() },
	}
}

type GenerateRequest struct {
	Location      string
	Duration      int
	Budget        string
	Distance      string
	Accommodation string
	PrePlanned    string

	IncludePhotos      bool
	IncludeDining      bool
	IncludeAttractions bool

	PhotosPerDay      int
	RestaurantsPerDay int
	AttractionsPerDay int

	PhotoInterests string
	Cuisines       string
	AttractionCats string

	ClientID *int64
}

type GenerateResult struct {
	SessionID   string          `json:"session_id"`
	TripID      *int64          `json:"trip_id"`
	Location    string          `json:"location"`
	Duration    int             `json:"duration"`
	Colors      domain.ColorMap `json:"colors"`
	Photos      domain.ItemList `json:"photos"`
	Restaurants domain.ItemList `json:"restaurants"`
	Attractions domain.ItemList `json:"attractions"`
	Warnings    []string        `json:"warnings"`
	Model       string          `json:"model"`
}

// sessionDoc is the review-session payload kept in the kvstore between
// /generate and /finalize.
type sessionDoc struct {
	Location    string          `json:"location"`
	Duration    int             `json:"duration"`
	Colors      domain.ColorMap `json:"colors"`
	Photos      domain.ItemList `json:"photos"`
	Restaurants domain.ItemList `json:"restaurants"`
	Attractions domain.ItemList `json:"attractions"`
}

type scoutTask struct {
	category domain.Category
	query    ports.ScoutQuery
}

// Generate runs every enabled scout in parallel, retries the ones that come
// back empty, and stores the combined result as a review session plus a
// draft trip. Scouts that stay empty after all retries produce warnings, not
// failures; the call errors only when every enabled scout is empty.
func (s *GuideService) Generate(ctx context.Context, userID uuid.UUID, req GenerateRequest) (*GenerateResult, error) {
	location := util.SanitizeLine(req.Location, util.MaxLocationLength)
	if location == "" {
		return nil, ErrInvalidLocation
	}
	if req.Duration < minDuration || req.Duration > maxDuration {
		return nil, ErrInvalidDuration
	}
	if !req.IncludePhotos && !req.IncludeDining && !req.IncludeAttractions {
		return nil, ErrNoSectionsEnabled
	}

	budget := fallback(util.SanitizeLine(req.Budget, util.MaxFieldShort), "Moderate")
	distance := fallback(util.SanitizeLine(req.Distance, util.MaxFieldShort), "Up to 30 minutes")
	accommodation := util.SanitizeLine(req.Accommodation, util.MaxFieldShort)
	prePlanned := util.SanitizeMultiline(req.PrePlanned, util.MaxFieldMedium)
	photoInterests := util.SanitizeLine(req.PhotoInterests, util.MaxFieldShort)
	cuisines := util.SanitizeLine(req.Cuisines, util.MaxFieldShort)
	attractionCats := util.SanitizeLine(req.AttractionCats, util.MaxFieldShort)

	photosPerDay := clamp(req.PhotosPerDay, s.cfg.PhotosPerDay, 1, 10)
	restaurantsPerDay := clamp(req.RestaurantsPerDay, s.cfg.RestaurantsPerDay, 1, 8)
	attractionsPerDay := clamp(req.AttractionsPerDay, s.cfg.AttractionsPerDay, 1, 10)

	// Profile loading is non-fatal; scouts work fine without one.
	var profile *domain.ClientProfile
	if req.ClientID != nil {
		if client, err := s.clients.FindByID(ctx, *req.ClientID); err == nil {
			profile = client.Profile()
		} else {
			log.Printf("generate: could not load client profile (id=%d): %v", *req.ClientID, err)
		}
	}

	baseQuery := ports.ScoutQuery{
		Location:      location,
		Duration:      req.Duration,
		Budget:        &budget,
		Distance:      &distance,
		Accommodation: optStr(accommodation),
		PrePlanned:    optStr(prePlanned),
		Profile:       profile,
	}

	var tasks []scoutTask
	if req.IncludePhotos {
		q := baseQuery
		q.Count = req.Duration * photosPerDay
		q.Preferences = optStr(photoInterests)
		tasks = append(tasks, scoutTask{domain.CategoryPhotos, q})
	}
	if req.IncludeDining {
		q := baseQuery
		q.Count = req.Duration * restaurantsPerDay
		q.Preferences = optStr(cuisines)
		tasks = append(tasks, scoutTask{domain.CategoryRestaurants, q})
	}
	if req.IncludeAttractions {
		q := baseQuery
		q.Count = req.Duration * attractionsPerDay
		q.Preferences = optStr(attractionCats)
		tasks = append(tasks, scoutTask{domain.CategoryAttractions, q})
	}

	// Geocode the accommodation once; every verified item then gets a
	// haversine travel estimate from this point.
	var accLat, accLng float64
	accOK := false
	if accommodation != "" && s.verifier.Enabled() {
		accLat, accLng, accOK = s.verifier.Geocode(ctx, accommodation)
	}

	results := make(map[domain.Category]domain.ItemList, len(tasks))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(task scoutTask) {
			defer wg.Done()
			items, err := s.runScout(ctx, task, location, accLat, accLng, accOK)
			if err != nil {
				log.Printf("generate: %s scout failed: %v", task.category, err)
				items = nil
			}
			mu.Lock()
			results[task.category] = items
			mu.Unlock()
		}(task)
	}
	wg.Wait()

	// Retries run sequentially so a struggling upstream isn't hammered by
	// three parallel calls at once.
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		var empty []scoutTask
		for _, task := range tasks {
			if len(results[task.category]) == 0 {
				empty = append(empty, task)
			}
		}
		if len(empty) == 0 {
			break
		}
		log.Printf("generate: retry %d/%d for %d empty scout(s)", attempt, s.cfg.MaxRetries, len(empty))
		s.sleep(s.cfg.RetryDelay)
		for _, task := range empty {
			items, err := s.runScout(ctx, task, location, accLat, accLng, accOK)
			if err != nil {
				log.Printf("generate: %s scout retry %d failed: %v", task.category, attempt, err)
				continue
			}
			results[task.category] = items
		}
	}

	var warnings []string
	for _, task := range tasks {
		if len(results[task.category]) == 0 {
			warnings = append(warnings, fmt.Sprintf(
				"%s recommendations could not be generated for this destination after %d attempt(s). You can proceed without this section or try again.",
				categoryLabel(task.category), s.cfg.MaxRetries+1))
		}
	}

	allEmpty := true
	for _, task := range tasks {
		if len(results[task.category]) > 0 {
			allEmpty = false
			break
		}
	}
	if allEmpty {
		return &GenerateResult{Warnings: warnings}, ports.ErrUpstreamEmpty
	}

	colors := colorPalette(location)
	sessionID := s.newSessionID()
	s.saveSession(ctx, sessionID, sessionDoc{
		Location:    location,
		Duration:    req.Duration,
		Colors:      colors,
		Photos:      results[domain.CategoryPhotos],
		Restaurants: results[domain.CategoryRestaurants],
		Attractions: results[domain.CategoryAttractions],
	})

	// Draft persistence is non-fatal: the review flow still works from the
	// session alone.
	var tripID *int64
	trip := &domain.Trip{
		ClientID:           req.ClientID,
		CreatedByID:        &userID,
		Title:              tripTitle(location, req.Duration),
		Status:             domain.TripStatusDraft,
		Location:           location,
		Duration:           req.Duration,
		Budget:             &budget,
		Distance:           &distance,
		IncludePhotos:      req.IncludePhotos,
		IncludeDining:      req.IncludeDining,
		IncludeAttractions: req.IncludeAttractions,
		PhotosPerDay:       photosPerDay,
		RestaurantsPerDay:  restaurantsPerDay,
		AttractionsPerDay:  attractionsPerDay,
		PhotoInterests:     optStr(photoInterests),
		Cuisines:           optStr(cuisines),
		AttractionCats:     optStr(attractionCats),
		Accommodation:      optStr(accommodation),
		RawPhotos:          results[domain.CategoryPhotos],
		RawRestaurants:     results[domain.CategoryRestaurants],
		RawAttractions:     results[domain.CategoryAttractions],
		Colors:             colors,
		SessionID:          &sessionID,
	}
	if created, err := s.trips.Create(ctx, trip); err == nil {
		tripID = &created.ID
	} else {
		log.Printf("generate: could not save draft trip: %v", err)
	}

	return &GenerateResult{
		SessionID:   sessionID,
		TripID:      tripID,
		Location:    location,
		Duration:    req.Duration,
		Colors:      colors,
		Photos:      emptyIfNil(results[domain.CategoryPhotos]),
		Restaurants: emptyIfNil(results[domain.CategoryRestaurants]),
		Attractions: emptyIfNil(results[domain.CategoryAttractions]),
		Warnings:    warnings,
		Model:       s.cfg.ModelLabel,
	}, nil
}

// runScout runs one scout with its response cache, then verification and
// distance annotation. The cache holds the raw parse result, so verification
// always runs fresh and a place that closes mid-TTL still gets dropped.
func (s *GuideService) runScout(ctx context.Context, task scoutTask, location string, accLat, accLng float64, accOK bool) (domain.ItemList, error) {
	key := scoutCacheKey(task.category, task.query)

	var items []domain.ScoutItem
	if raw, ok := s.store.Get(ctx, key); ok {
		var cached domain.ItemList
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			log.Printf("generate: %s cache hit for %s", task.category, task.query.Location)
			items = cached
		}
	}

	if items == nil {
		fetched, err := s.scouts.Recommend(ctx, task.category, task.query)
		if err != nil {
			return nil, err
		}
		items = fetched
		// Never cache empty: a failed parse should retry next time.
		if len(items) > 0 {
			if buf, err := json.Marshal(domain.ItemList(items)); err == nil {
				s.store.Set(ctx, key, string(buf), s.cfg.CacheTTL)
			}
		}
	}

	if len(items) > 0 && s.verifier.Enabled() {
		items = s.verifier.VerifyBatch(ctx, location, items)
	}
	if len(items) > 0 && accOK {
		applyDistances(items, accLat, accLng)
	}
	return items, nil
}

func (s *GuideService) saveSession(ctx context.Context, sessionID string, doc sessionDoc) {
	buf, err := json.Marshal(doc)
	if err != nil {
		log.Printf("session: could not marshal session %s: %v", shortID(sessionID), err)
		return
	}
	s.store.Set(ctx, sessionKey(sessionID), string(buf), s.cfg.SessionTTL)
}

func (s *GuideService) loadSession(ctx context.Context, sessionID string) (sessionDoc, bool) {
	raw, ok := s.store.Get(ctx, sessionKey(sessionID))
	if !ok {
		return sessionDoc{}, false
	}
	var doc sessionDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		log.Printf("session: could not decode session %s: %v", shortID(sessionID), err)
		return sessionDoc{}, false
	}
	return doc, true
}

func scoutCacheKey(category domain.Category, q ports.ScoutQuery) string {
	raw, _ := json.Marshal([]any{
		string(category), q.Location, q.Duration, q.Count,
		q.Preferences, q.Budget, q.Distance, q.Accommodation, q.PrePlanned, q.Profile,
	})
	sum := md5.Sum(raw)
	return "scout:" + hex.EncodeToString(sum[:])
}

func sessionKey(sessionID string) string { return "session:" + sessionID }

func shortID(sessionID string) string {
	if len(sessionID) > 8 {
		return sessionID[:8]
	}
	return sessionID
}

func categoryLabel(category domain.Category) string {
	switch category {
	case domain.CategoryPhotos:
		return "Photography"
	case domain.CategoryRestaurants:
		return "Dining"
	default:
		return "Attractions"
	}
}

func tripTitle(location string, duration int) string {
	if duration == 1 {
		return fmt.Sprintf("%s — 1 day", location)
	}
	return fmt.Sprintf("%s — %d days", location, duration)
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func clamp(v, def, min, max int) int {
	if v == 0 {
		v = def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func emptyIfNil(items domain.ItemList) domain.ItemList {
	if items == nil {
		return domain.ItemList{}
	}
	return items
}
