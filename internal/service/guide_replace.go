package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/tripmaster/trip-scout/internal/domain"
	"github.com/tripmaster/trip-scout/internal/repository/ports"
	"github.com/tripmaster/trip-scout/internal/util"
)

// ErrNoAlternativeFound is returned when the scout responds but the reply
// cannot be parsed into a single item.
var ErrNoAlternativeFound = errors.New("could not generate a usable alternative")

type ReplaceRequest struct {
	SessionID    string
	TripID       *int64
	Category     domain.Category
	Index        int
	Day          int
	MealType     *string
	ExcludeNames []string
}

// Replace asks the matching scout for one alternative item. Context comes
// from the trip record when one can be resolved, falling back to the live
// review session. With a trip record the exclusion list is rebuilt entirely
// from the stored guide and the caller's exclude_names hint is discarded;
// only the session fallback, which has no durable list to trust, honours the
// hint. Either way repeated swaps never resurface an earlier suggestion.
func (s *GuideService) Replace(ctx context.Context, req ReplaceRequest) (domain.ScoutItem, error) {
	if !req.Category.Valid() {
		return nil, ErrInvalidCategory
	}

	var trip *domain.Trip
	if req.TripID != nil {
		if found, err := s.trips.FindByID(ctx, *req.TripID); err == nil {
			trip = found
		} else if !isNotFound(err) {
			return nil, err
		}
	}
	if trip == nil && req.SessionID != "" {
		if found, err := s.trips.FindBySessionID(ctx, req.SessionID); err == nil {
			trip = found
		} else if !isNotFound(err) {
			return nil, err
		}
	}

	var exclude []string
	query := ports.ScoutQuery{Day: req.Day, MealType: req.MealType}
	switch {
	case trip != nil:
		query.Location = trip.Location
		query.Duration = trip.Duration
		query.Budget = trip.Budget
		query.Distance = trip.Distance
		switch req.Category {
		case domain.CategoryPhotos:
			query.Preferences = trip.PhotoInterests
		case domain.CategoryRestaurants:
			query.Preferences = trip.Cuisines
		case domain.CategoryAttractions:
			query.Preferences = trip.AttractionCats
		}
		exclude = mergeExclusions(nil, trip.RawItems(req.Category))
		if trip.ClientID != nil {
			if client, err := s.clients.FindByID(ctx, *trip.ClientID); err == nil {
				query.Profile = client.Profile()
			} else {
				log.Printf("replace: could not load client profile (id=%d): %v", *trip.ClientID, err)
			}
		}
	case req.SessionID != "":
		doc, ok := s.loadSession(ctx, req.SessionID)
		if !ok {
			return nil, ports.ErrSessionNotFound
		}
		query.Location = doc.Location
		query.Duration = doc.Duration
		exclude = mergeExclusions(sanitizeExcludeNames(req.ExcludeNames), doc.items(req.Category))
	default:
		return nil, ports.ErrSessionNotFound
	}

	if query.Location == "" {
		return nil, ErrInvalidLocation
	}
	if query.Budget == nil {
		moderate := "Moderate"
		query.Budget = &moderate
	}
	if query.Distance == nil {
		radius := "Up to 30 minutes"
		query.Distance = &radius
	}
	query.Exclude = exclude

	item, err := s.scouts.Replacement(ctx, req.Category, query)
	if err != nil {
		if errors.Is(err, ports.ErrUpstreamParse) {
			return nil, ErrNoAlternativeFound
		}
		return nil, err
	}

	if s.verifier.Enabled() {
		// A single replacement that fails verification is kept unverified
		// rather than dropped; the reviewer can always swap it again.
		if verified := s.verifier.VerifyBatch(ctx, query.Location, []domain.ScoutItem{item}); len(verified) > 0 {
			item = verified[0]
		}
	}
	if trip != nil && trip.Accommodation != nil && s.verifier.Enabled() {
		if lat, lng, ok := s.verifier.Geocode(ctx, *trip.Accommodation); ok {
			applyDistances([]domain.ScoutItem{item}, lat, lng)
		}
	}

	// Write-backs are non-fatal: the caller already has the item in hand.
	if trip != nil {
		items := trip.RawItems(req.Category)
		if req.Index >= 0 && req.Index < len(items) {
			items[req.Index] = item
			trip.SetRawItems(req.Category, items)
			if _, err := s.trips.Update(ctx, trip); err != nil {
				log.Printf("replace: could not update trip %d: %v", trip.ID, err)
			}
		}
	}
	if req.SessionID != "" {
		s.updateSessionItem(ctx, req.SessionID, req.Category, req.Index, item)
	}

	return item, nil
}

func (d *sessionDoc) items(category domain.Category) domain.ItemList {
	switch category {
	case domain.CategoryPhotos:
		return d.Photos
	case domain.CategoryRestaurants:
		return d.Restaurants
	case domain.CategoryAttractions:
		return d.Attractions
	}
	return nil
}

func (s *GuideService) updateSessionItem(ctx context.Context, sessionID string, category domain.Category, index int, item domain.ScoutItem) {
	doc, ok := s.loadSession(ctx, sessionID)
	if !ok {
		return
	}
	items := doc.items(category)
	if index < 0 || index >= len(items) {
		return
	}
	items[index] = item
	s.saveSession(ctx, sessionID, doc)
}

// sanitizeExcludeNames cleans the caller-supplied exclusion hint, dropping
// blank entries and capping both name length and list size.
func sanitizeExcludeNames(names []string) []string {
	exclude := make([]string, 0, len(names))
	for _, raw := range names {
		if name := util.SanitizeLine(raw, util.MaxExcludeNameLen); name != "" {
			exclude = append(exclude, name)
		}
		if len(exclude) == util.MaxExcludeListLen {
			break
		}
	}
	return exclude
}

// mergeExclusions appends the names already present in the stored guide so
// the scout never repeats them, deduplicating case-insensitively.
func mergeExclusions(exclude []string, items domain.ItemList) []string {
	seen := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		seen[strings.ToLower(name)] = struct{}{}
	}
	for _, item := range items {
		if len(exclude) >= util.MaxExcludeListLen {
			break
		}
		name := util.SanitizeLine(item.Name(), util.MaxExcludeNameLen)
		if name == "" {
			continue
		}
		if _, dup := seen[strings.ToLower(name)]; dup {
			continue
		}
		seen[strings.ToLower(name)] = struct{}{}
		exclude = append(exclude, name)
	}
	return exclude
}
