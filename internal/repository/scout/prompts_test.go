package scout

import (
	"strings"
	"testing"

	"github.com/tripmaster/trip-scout/internal/domain"
	"github.com/tripmaster/trip-scout/internal/repository/ports"
)

func strPtr(s string) *string { return &s }

func TestUserPromptIncludesTripDetails(t *testing.T) {
	q := ports.ScoutQuery{
		Location:    "Lisbon, Portugal",
		Duration:    3,
		Count:       9,
		Budget:      strPtr("Moderate"),
		Distance:    strPtr("Up to 30 minutes"),
		Preferences: strPtr("street photography, architecture"),
	}
	prompt := userPrompt(domain.CategoryPhotos, q)

	for _, want := range []string{
		"Generate 9 photography locations (3 per day), spread across 3 days.",
		"- Destination: Lisbon, Portugal",
		"- Photography interests: street photography, architecture",
		"Accommodation: not specified",
		"Client profile: none provided",
		"Provide 9 complete JSON objects, one per line.",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q\n%s", want, prompt)
		}
	}
}

func TestUserPromptAccommodationAndPrePlanned(t *testing.T) {
	q := ports.ScoutQuery{
		Location:      "Barcelona",
		Duration:      2,
		Count:         6,
		Budget:        strPtr("Moderate"),
		Distance:      strPtr("Walking distance"),
		Accommodation: strPtr("Hotel Arts, Port Olimpic"),
		PrePlanned:    strPtr("Sagrada Familia tickets on day 2"),
	}
	prompt := userPrompt(domain.CategoryRestaurants, q)

	if !strings.Contains(prompt, "Accommodation / travel base: Hotel Arts, Port Olimpic") {
		t.Fatalf("accommodation missing from prompt")
	}
	if !strings.Contains(prompt, "Sagrada Familia tickets on day 2") {
		t.Fatalf("pre-planned block missing from prompt")
	}
	if strings.Contains(prompt, "not specified") {
		t.Fatalf("default accommodation line should be replaced")
	}
}

func TestUserPromptClientProfileLines(t *testing.T) {
	q := ports.ScoutQuery{
		Location: "Tokyo",
		Duration: 4,
		Count:    12,
		Profile: &domain.ClientProfile{
			HomeCity:            "Osaka",
			DietaryRequirements: "vegetarian",
		},
	}
	prompt := userPrompt(domain.CategoryRestaurants, q)

	if !strings.Contains(prompt, "Home city: Osaka") {
		t.Fatalf("home city missing")
	}
	if !strings.Contains(prompt, "Dietary requirements: vegetarian — HARD CONSTRAINT") {
		t.Fatalf("dietary constraint missing")
	}
	if strings.Contains(prompt, "Travel style:") {
		t.Fatalf("empty profile fields must not appear")
	}
}

// The system prompt is fixed text. Request fields must never leak into it,
// otherwise a crafted form value could override the instructions.
func TestSystemPromptIsStatic(t *testing.T) {
	for _, category := range []domain.Category{domain.CategoryPhotos, domain.CategoryRestaurants, domain.CategoryAttractions} {
		got := systemPrompt(category)
		if strings.Contains(got, "%s") || strings.Contains(got, "%d") {
			t.Fatalf("%s system prompt contains format verbs", category)
		}
	}
}

func TestReplaceUserPromptExclusions(t *testing.T) {
	q := ports.ScoutQuery{
		Location: "Lisbon",
		Duration: 3,
		Day:      2,
		MealType: strPtr("dinner"),
		Budget:   strPtr("Moderate"),
		Distance: strPtr("Up to 30 minutes"),
		Exclude:  []string{"Cervejaria Ramiro", "Time Out Market"},
	}
	prompt := replaceUserPrompt(domain.CategoryRestaurants, q)

	if !strings.Contains(prompt, "  - Cervejaria Ramiro\n") {
		t.Fatalf("exclusion list missing first name:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Context: Day 2 of a 3-day trip. This should be a dinner option.") {
		t.Fatalf("day and meal context missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Cuisine preferences: any local") {
		t.Fatalf("preference fallback missing:\n%s", prompt)
	}
}

func TestReplaceSystemPromptDietHint(t *testing.T) {
	profile := &domain.ClientProfile{DietaryRequirements: "no shellfish"}
	got := replaceSystemPrompt(domain.CategoryRestaurants, profile)
	if !strings.Contains(got, "never suggest anything incompatible with: no shellfish") {
		t.Fatalf("diet hint missing")
	}
	plain := replaceSystemPrompt(domain.CategoryRestaurants, nil)
	if strings.Contains(plain, "DIETARY HARD CONSTRAINT") {
		t.Fatalf("diet hint should be absent without a profile")
	}
}
