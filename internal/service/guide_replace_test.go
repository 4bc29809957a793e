package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/tripmaster/trip-scout/internal/domain"
	"github.com/tripmaster/trip-scout/internal/repository/ports"
)

func draftTrip(id int64, sessionID string) *domain.Trip {
	return &domain.Trip{
		ID:             id,
		Status:         domain.TripStatusDraft,
		Location:       "Lisbon, Portugal",
		Duration:       3,
		SessionID:      &sessionID,
		RawPhotos:      domain.ItemList(sampleItems("Miradouro", "Arco da Rua Augusta")),
		RawRestaurants: domain.ItemList(sampleItems("Tasca")),
		RawAttractions: domain.ItemList(sampleItems("Castelo")),
	}
}

func TestReplaceFromTripRecord(t *testing.T) {
	trip := draftTrip(42, "sess-1")
	trips := &fakeTripRepo{byID: map[int64]*domain.Trip{42: trip}}
	scouts := &fakeScoutClient{replacement: domain.ScoutItem{"name": "Ponte 25 de Abril"}}
	svc := newTestGuideService(scouts, &fakeVerifier{}, trips, &fakeClientRepo{})

	tripID := int64(42)
	item, err := svc.Replace(context.Background(), ReplaceRequest{
		TripID:       &tripID,
		Category:     domain.CategoryPhotos,
		Index:        1,
		Day:          2,
		ExcludeNames: []string{"Elevador de Santa Justa"},
	})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if item.Name() != "Ponte 25 de Abril" {
		t.Fatalf("item = %v", item)
	}

	// With a trip record the exclusion list is exactly the stored photo
	// names; the caller's hint is discarded so a forged request body cannot
	// smuggle text into the prompt.
	q := scouts.lastQuery
	if q.Location != "Lisbon, Portugal" || q.Day != 2 {
		t.Fatalf("query context not taken from trip: %+v", q)
	}
	want := map[string]bool{"Miradouro": true, "Arco da Rua Augusta": true}
	if len(q.Exclude) != len(want) {
		t.Fatalf("exclude = %v", q.Exclude)
	}
	for _, name := range q.Exclude {
		if !want[name] {
			t.Fatalf("unexpected exclusion %q", name)
		}
	}

	if trips.updated == nil {
		t.Fatal("trip record should be rewritten")
	}
	if got := trips.updated.RawPhotos[1].Name(); got != "Ponte 25 de Abril" {
		t.Fatalf("stored item = %q", got)
	}
}

func TestReplaceFallsBackToSession(t *testing.T) {
	scouts := &fakeScoutClient{items: map[domain.Category][]domain.ScoutItem{
		domain.CategoryRestaurants: sampleItems("Tasca"),
	}}
	trips := &fakeTripRepo{createErr: errors.New("db down")}
	svc := newTestGuideService(scouts, &fakeVerifier{}, trips, &fakeClientRepo{})

	req := fullRequest()
	req.IncludePhotos = false
	req.IncludeAttractions = false
	result, err := svc.Generate(context.Background(), uuid.New(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.TripID != nil {
		t.Fatal("draft persistence failed, trip id must be nil")
	}

	meal := "dinner"
	scouts.replacement = domain.ScoutItem{"name": "Cervejaria Ramiro"}
	item, err := svc.Replace(context.Background(), ReplaceRequest{
		SessionID:    result.SessionID,
		Category:     domain.CategoryRestaurants,
		Index:        0,
		Day:          1,
		MealType:     &meal,
		ExcludeNames: []string{"Solar dos Presuntos"},
	})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if item.Name() != "Cervejaria Ramiro" {
		t.Fatalf("item = %v", item)
	}
	if scouts.lastQuery.Location != "Lisbon, Portugal" {
		t.Fatalf("session context not used: %+v", scouts.lastQuery)
	}
	if scouts.lastQuery.Budget == nil || *scouts.lastQuery.Budget != "Moderate" {
		t.Fatalf("session fallback must default the budget: %v", scouts.lastQuery.Budget)
	}

	// Without a durable record the caller's hint is the only exclusion
	// source beyond the session copy, so it must survive.
	exclude := map[string]bool{}
	for _, name := range scouts.lastQuery.Exclude {
		exclude[name] = true
	}
	if !exclude["Solar dos Presuntos"] || !exclude["Tasca"] {
		t.Fatalf("exclude = %v", scouts.lastQuery.Exclude)
	}

	// The session copy is rewritten so a later finalize sees the swap.
	doc, ok := svc.loadSession(context.Background(), result.SessionID)
	if !ok {
		t.Fatal("session disappeared")
	}
	if doc.Restaurants[0].Name() != "Cervejaria Ramiro" {
		t.Fatalf("session not updated: %v", doc.Restaurants[0])
	}
}

func TestReplaceUnknownSession(t *testing.T) {
	svc := newTestGuideService(&fakeScoutClient{}, &fakeVerifier{}, &fakeTripRepo{}, &fakeClientRepo{})

	_, err := svc.Replace(context.Background(), ReplaceRequest{
		SessionID: "nope",
		Category:  domain.CategoryPhotos,
	})
	if !errors.Is(err, ports.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestReplaceInvalidCategory(t *testing.T) {
	svc := newTestGuideService(&fakeScoutClient{}, &fakeVerifier{}, &fakeTripRepo{}, &fakeClientRepo{})

	_, err := svc.Replace(context.Background(), ReplaceRequest{SessionID: "s", Category: "hotels"})
	if !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("err = %v, want ErrInvalidCategory", err)
	}
}

func TestReplaceUnparseableReply(t *testing.T) {
	trip := draftTrip(42, "sess-1")
	trips := &fakeTripRepo{byID: map[int64]*domain.Trip{42: trip}}
	scouts := &fakeScoutClient{replaceErr: ports.ErrUpstreamParse}
	svc := newTestGuideService(scouts, &fakeVerifier{}, trips, &fakeClientRepo{})

	tripID := int64(42)
	_, err := svc.Replace(context.Background(), ReplaceRequest{
		TripID:   &tripID,
		Category: domain.CategoryAttractions,
	})
	if !errors.Is(err, ErrNoAlternativeFound) {
		t.Fatalf("err = %v, want ErrNoAlternativeFound", err)
	}
}

func TestReplaceKeepsItemWhenVerificationDropsIt(t *testing.T) {
	trip := draftTrip(42, "sess-1")
	trips := &fakeTripRepo{byID: map[int64]*domain.Trip{42: trip}}
	scouts := &fakeScoutClient{replacement: domain.ScoutItem{"name": "Ghost Bar"}}
	verifier := &fakeVerifier{enabled: true, drop: map[string]bool{"Ghost Bar": true}}
	svc := newTestGuideService(scouts, verifier, trips, &fakeClientRepo{})

	tripID := int64(42)
	item, err := svc.Replace(context.Background(), ReplaceRequest{
		TripID:   &tripID,
		Category: domain.CategoryRestaurants,
		Index:    0,
	})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if item.Name() != "Ghost Bar" {
		t.Fatalf("single replacement must survive a verification wipe: %v", item)
	}
}

func TestMergeExclusionsCapsAndDedupes(t *testing.T) {
	items := make(domain.ItemList, 60)
	for i := range items {
		items[i] = domain.ScoutItem{"name": fmt.Sprintf("Place %02d", i)}
	}
	merged := mergeExclusions([]string{"place 00"}, items)
	if len(merged) != 50 {
		t.Fatalf("exclusion list = %d names, want capped at 50", len(merged))
	}
	for _, name := range merged {
		if name == "Place 00" {
			t.Fatal("case-insensitive duplicate of \"place 00\" not removed")
		}
	}
}
