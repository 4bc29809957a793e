package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/lib/pq"

	"github.com/tripmaster/trip-scout/internal/domain"
	"github.com/tripmaster/trip-scout/internal/repository/ports"
)

type FinalizeRequest struct {
	SessionID string
	TripID    *int64

	// A nil slice approves every item in that category; a non-nil empty
	// slice approves none. Out-of-range indices are ignored.
	ApprovedPhotos      []int
	ApprovedRestaurants []int
	ApprovedAttractions []int
}

type FinalizeResult struct {
	Location    string          `json:"location"`
	Duration    int             `json:"duration"`
	Colors      domain.ColorMap `json:"colors"`
	Photos      domain.ItemList `json:"photos"`
	Restaurants domain.ItemList `json:"restaurants"`
	Attractions domain.ItemList `json:"attractions"`
	ArchiveURL  *string         `json:"archive_url,omitempty"`
	Model       string          `json:"model"`
}

// Finalize assembles the approved guide from the review session, marks the
// trip record finalized, and archives a JSON copy to object storage when
// configured. Sessions that expired from the kvstore are reconstructed from
// the persisted draft trip.
func (s *GuideService) Finalize(ctx context.Context, req FinalizeRequest) (*FinalizeResult, error) {
	if req.SessionID == "" {
		return nil, ports.ErrSessionNotFound
	}

	var trip *domain.Trip
	doc, ok := s.loadSession(ctx, req.SessionID)
	if !ok {
		found, err := s.trips.FindBySessionID(ctx, req.SessionID)
		if err != nil {
			if isNotFound(err) {
				return nil, ports.ErrSessionNotFound
			}
			return nil, err
		}
		log.Printf("finalize: session %s expired, rebuilt from trip %d", shortID(req.SessionID), found.ID)
		trip = found
		doc = sessionDoc{
			Location:    found.Location,
			Duration:    found.Duration,
			Colors:      found.Colors,
			Photos:      found.RawPhotos,
			Restaurants: found.RawRestaurants,
			Attractions: found.RawAttractions,
		}
	}

	photoIdx := normalizeIndices(req.ApprovedPhotos, len(doc.Photos))
	restaurantIdx := normalizeIndices(req.ApprovedRestaurants, len(doc.Restaurants))
	attractionIdx := normalizeIndices(req.ApprovedAttractions, len(doc.Attractions))

	result := &FinalizeResult{
		Location:    doc.Location,
		Duration:    doc.Duration,
		Colors:      doc.Colors,
		Photos:      pickItems(doc.Photos, photoIdx),
		Restaurants: pickItems(doc.Restaurants, restaurantIdx),
		Attractions: pickItems(doc.Attractions, attractionIdx),
		Model:       s.cfg.ModelLabel,
	}

	// Trip bookkeeping is non-fatal: the finalized guide is the deliverable.
	if trip == nil {
		if req.TripID != nil {
			if found, err := s.trips.FindByID(ctx, *req.TripID); err == nil {
				trip = found
			} else {
				log.Printf("finalize: could not load trip %d: %v", *req.TripID, err)
			}
		} else if found, err := s.trips.FindBySessionID(ctx, req.SessionID); err == nil {
			trip = found
		}
	}
	if trip != nil {
		trip.Status = domain.TripStatusFinalized
		trip.ApprovedPhotoIndices = toInt64Array(photoIdx)
		trip.ApprovedRestaurantIndices = toInt64Array(restaurantIdx)
		trip.ApprovedAttractionIndices = toInt64Array(attractionIdx)
		if _, err := s.trips.Update(ctx, trip); err != nil {
			log.Printf("finalize: could not finalize trip %d: %v", trip.ID, err)
		}
	}

	if s.storage != nil && s.cfg.ArchiveBucket != "" {
		if url := s.archiveGuide(ctx, req.SessionID, result); url != "" {
			result.ArchiveURL = &url
		}
	}

	return result, nil
}

func (s *GuideService) archiveGuide(ctx context.Context, sessionID string, result *FinalizeResult) string {
	buf, err := json.Marshal(result)
	if err != nil {
		log.Printf("finalize: could not marshal guide for archive: %v", err)
		return ""
	}
	objectName := fmt.Sprintf("guides/%s.json", sessionID)
	url, err := s.storage.Upload(ctx, s.cfg.ArchiveBucket, objectName, "application/json", bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		log.Printf("finalize: could not archive guide %s: %v", shortID(sessionID), err)
		return ""
	}
	return url
}

// normalizeIndices turns an approval list into valid, in-range indices. A
// nil list means everything was approved.
func normalizeIndices(approved []int, total int) []int {
	if approved == nil {
		all := make([]int, total)
		for i := range all {
			all[i] = i
		}
		return all
	}
	valid := make([]int, 0, len(approved))
	for _, i := range approved {
		if i >= 0 && i < total {
			valid = append(valid, i)
		}
	}
	return valid
}

func pickItems(items domain.ItemList, indices []int) domain.ItemList {
	picked := make(domain.ItemList, 0, len(indices))
	for _, i := range indices {
		picked = append(picked, items[i])
	}
	return picked
}

func toInt64Array(indices []int) pq.Int64Array {
	out := make(pq.Int64Array, len(indices))
	for i, v := range indices {
		out[i] = int64(v)
	}
	return out
}
