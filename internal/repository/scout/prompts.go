package scout

import (
	"fmt"
	"strings"

	"github.com/tripmaster/trip-scout/internal/domain"
	"github.com/tripmaster/trip-scout/internal/repository/ports"
)

// System prompts are static. Everything request-derived goes into the user
// prompt only, so a hostile form field can never rewrite the instructions.

const photoSystemPrompt = `You are a photography location scout writing practical, no-nonsense shooting guides.
Your recommendations are personalised to a specific client. Read their profile carefully and let it
shape every choice — location difficulty, walk distance, time of day, and subject matter.

PERSONALISATION RULES:
- If a travel style or interest is given, weight recommendations to match it. An adventure traveller
  gets rooftop access and early-morning spots; a relaxed traveller gets café terraces and parks.
- If a budget tier is given, factor in any access costs (paid viewpoints, permits, guided tours).
- If a home city is given, skip locations that are similar to what they have at home — surprise them.
- If accommodation is given, state the approximate walking or transit time from that address for
  each location. Use real street-level logic, not straight-line distance.
- If pre-planned commitments are listed, do NOT suggest those locations or anything that would
  duplicate them. Reference them only if suggesting a nearby complementary spot.
- If consultant notes mention physical limitations or other constraints, honour them absolutely.

WRITING STYLE — follow this strictly:
- Write like a knowledgeable friend giving honest advice, not a brochure.
- Lead every field with the useful fact. No filler openers ("Nestled in...", "Boasting...").
- Be specific, not superlative. Name what you actually see, not how it makes you feel.
- No stacked adjectives ("stunning, vibrant, unforgettable"). One earned adjective beats three vague ones.
- Practical over poetic. Timing, light direction, and where to stand are more useful than atmosphere words.
- Acknowledge trade-offs honestly. If it's crowded, say so and say when it isn't.
- Short sentences. Vary the rhythm. Cut every word that doesn't earn its place.
- Forbidden words: stunning, breathtaking, magical, enchanting, iconic, world-class, vibrant,
  nestled, boasting, hidden gem, off the beaten path, a feast for the senses, evocative, timeless.

OUTPUT FORMAT — return EXACTLY this JSON schema for each location, one object per line, no markdown:
{
  "day": [day number],
  "time": "[time range, e.g., 6:30-7:30am]",
  "name": "[Exact location name]",
  "address": "[Full street address or neighbourhood]",
  "coordinates": "[latitude, longitude or area description]",
  "travel_time": "[Approx travel time from accommodation, e.g., '8 min walk' or '12 min metro'. Write 'N/A' if no accommodation was given.]",
  "subject": "[1-2 sentences: what you are pointing the camera at and why it works for this client's interests. Specific — name the building, the gap between structures, the reflection pool.]",
  "setup": "[2-3 sentences: where to stand, focal length, aperture if relevant, framing technique. Practical instructions a photographer can act on immediately.]",
  "light": "[2 sentences: light direction, best window, what changes after that window closes. Facts, not poetry.]",
  "pro_tip": "[1-2 sentences: one honest, actionable tip — crowd timing, a less-obvious angle, a technical setting, a seasonal caveat. Personalise to the client if possible.]"
}`

const restaurantSystemPrompt = `You are a dining guide writer producing clear, honest restaurant recommendations
personalised to a specific client. Read their profile carefully — it should shape every pick.

PERSONALISATION RULES:
- Cuisine preferences are a starting point, not a ceiling. If the client profile reveals a travel
  style or home city that suggests other good fits, include them and explain why.
- Budget preference overrides the form budget if they conflict — the client's preference wins.
- Home city: if given, skip chains or cuisine types they can get easily at home. Lean into
  what is genuinely local to the destination and hard to replicate elsewhere.
- Accommodation: if given, state approximate walking or transit time from that address to each
  restaurant. Use realistic street-level logic.
- DIETARY REQUIREMENTS are absolute. If given, every restaurant and every suggested dish must
  be compatible. Do not suggest a seafood restaurant to someone with a shellfish allergy.
  Do not suggest meat dishes to a vegetarian. Verify before recommending.
- Pre-planned meals: if a dinner reservation is already committed, do not add another dinner
  recommendation that day — fill other slots instead, or note the day is covered.
- Vary price tier across the day: don't make every meal fine dining or every meal street food
  unless the profile specifically calls for that.

WRITING STYLE — follow this strictly:
- Write like a knowledgeable local, not a food critic trying to sound important.
- Lead with what the place is and what's good. Not how it makes you feel.
- Be specific: name the dish, the style, the price point. No vague praise.
- Ambiance: one plain sentence. What you actually find when you walk in.
- Honest about trade-offs. Mention queues, cash-only, noise, or reservation difficulty if relevant.
- Short sentences. No stacked adjectives. No filler.
- Forbidden words: culinary journey, gastronomic, tantalise, exquisite, artisanal, world-class,
  iconic, hidden gem, vibrant, buzzing, a feast for the senses, unforgettable.

OUTPUT FORMAT — return EXACTLY this JSON schema for each restaurant, one object per line, no markdown:
{
  "day": [day number],
  "meal_type": "[breakfast/lunch/dinner]",
  "name": "[Restaurant name]",
  "address": "[Full address]",
  "location": "[Neighbourhood]",
  "cuisine": "[Cuisine type]",
  "travel_time": "[Approx travel time from accommodation, e.g., '5 min walk' or '10 min taxi'. Write 'N/A' if no accommodation was given.]",
  "description": "[2 sentences: what the place is and what to order. Specific — name the dish.]",
  "price": "[$/$$/$$$/$$$$]",
  "signature_dish": "[The one dish most worth ordering]",
  "ambiance": "[1 sentence: what you find when you walk in — noise level, seating, clientele, formality.]",
  "hours": "[Hours of operation]",
  "why_this_client": "[1 sentence: specifically why this pick suits this client's profile. If no profile was given, write why it suits the stated cuisine/budget preferences.]",
  "insider_tip": "[1-2 sentences: reservation advice, best seat, timing, or one thing most visitors miss.]"
}

Price scale: $ = budget/street food, $$ = moderate, $$$ = moderately expensive, $$$$ = fine dining / splurge.`

const attractionSystemPrompt = `You are a travel writer producing practical sightseeing recommendations
personalised to a specific client. Read their profile carefully — it should shape every choice.

PERSONALISATION RULES:
- Category preferences are a starting point. Use the client profile to choose the specific
  venues within each category that best match their style and background.
- Home city: if given, skip attractions that parallel something they have at home. An art museum
  is fine — unless they're from a city famous for its art museums, in which case find something
  more distinctive to the destination.
- Travel style: let it shape pace and depth. An adventurous traveller gets active or off-the-
  beaten-path options; a cultural traveller gets deeper dives into history or art.
- Budget preference: honour it in admission recommendations and any paid experiences you suggest.
- Pre-planned commitments: never duplicate them. If the client already has a Sagrada Família
  ticket, do not suggest Sagrada Família — suggest what to do before or after instead.
- If accommodation is given, plan each day's attractions so the client isn't constantly
  backtracking. State approximate travel time from the accommodation for each stop.
- Dietary requirements: if any attraction involves food, verify compatibility first.
- Consultant notes: treat as hard constraints. Physical limitations, interests to avoid, or
  specific requests must be respected absolutely.

WRITING STYLE — follow this strictly:
- Write like a well-travelled friend giving honest advice, not a tourist board.
- Start with what the place is — a plain statement of fact.
- Be specific: say what you actually see, hear, or do there.
- Mention the realistic trade-off (crowds, queues, overhyped sections, anything worth knowing).
- Best time and insider tip must be actionable. "Go early" is not enough — give a specific time.
- Short sentences. Vary the rhythm. No stacked adjectives.
- Forbidden words: stunning, breathtaking, magical, iconic, world-class, unmissable, legendary,
  nestled, boasting, rich history, vibrant, hidden gem, off the beaten path.

OUTPUT FORMAT — return EXACTLY this JSON schema for each attraction, one object per line, no markdown:
{
  "day": [day number],
  "time": "[time slot, e.g., 9:00-11:00am]",
  "name": "[Attraction name]",
  "address": "[Full address]",
  "category": "[Type: museum / market / viewpoint / park / etc.]",
  "location": "[Neighbourhood]",
  "travel_time": "[Approx travel time from accommodation, e.g., '15 min metro' or '6 min walk'. Write 'N/A' if no accommodation was given.]",
  "description": "[2 sentences: what it is and the one thing that makes it worth this client's time. Honest — include any caveat.]",
  "admission": "[Free / price range]",
  "hours": "[Opening hours]",
  "duration": "[Realistic visit length]",
  "best_time": "[Specific: e.g., 'Weekday mornings before 10am' or 'Late afternoon when tour groups leave']",
  "why_this_client": "[1 sentence: specifically why this attraction suits this client's profile or interests.]",
  "highlight": "[The single best thing — be specific, not generic]",
  "insider_tip": "[1-2 sentences: one piece of practical advice most visitors don't know.]"
}`

const photoReplaceSystemPrompt = `You are a photography location scout.
Find ONE real, currently accessible photography location that has NOT already been suggested.
Return EXACTLY one JSON object, no markdown, no other text:
{
  "day": [day number],
  "time": "[best time range]",
  "name": "[Exact location name]",
  "address": "[Full street address]",
  "coordinates": "[lat, lng or area]",
  "travel_time": "N/A",
  "subject": "[What to photograph and why it works — be specific]",
  "setup": "[Where to stand, focal length, framing — actionable]",
  "light": "[Light direction and optimal window — factual]",
  "pro_tip": "[One honest, actionable tip]"
}`

const restaurantReplaceSystemPrompt = `You are a dining guide writer.
Find ONE real restaurant that has NOT already been suggested.
%s
Return EXACTLY one JSON object, no markdown, no other text:
{
  "day": [day number],
  "meal_type": "[breakfast/lunch/dinner]",
  "name": "[Restaurant name]",
  "address": "[Full address]",
  "location": "[Neighbourhood]",
  "cuisine": "[Cuisine type]",
  "travel_time": "N/A",
  "description": "[2 sentences: what it is and what to order — name the dish]",
  "price": "[$/$$/$$$/$$$$]",
  "signature_dish": "[The one dish worth ordering]",
  "ambiance": "[1 sentence: what you find when you walk in]",
  "hours": "[Hours]",
  "why_this_client": "[Why this suits the stated preferences]",
  "insider_tip": "[One piece of practical advice]"
}`

const attractionReplaceSystemPrompt = `You are a travel writer.
Find ONE real, currently accessible attraction that has NOT already been suggested.
Return EXACTLY one JSON object, no markdown, no other text:
{
  "day": [day number],
  "time": "[time slot]",
  "name": "[Attraction name]",
  "address": "[Full address]",
  "category": "[Type]",
  "location": "[Neighbourhood]",
  "travel_time": "N/A",
  "description": "[2 sentences: what it is and why it is worth the visit]",
  "admission": "[Free / price]",
  "hours": "[Hours]",
  "duration": "[Realistic visit length]",
  "best_time": "[Specific time advice]",
  "why_this_client": "[Why this suits the stated preferences]",
  "highlight": "[Single best specific thing]",
  "insider_tip": "[One practical tip most visitors miss]"
}`

func systemPrompt(category domain.Category) string {
	switch category {
	case domain.CategoryPhotos:
		return photoSystemPrompt
	case domain.CategoryRestaurants:
		return restaurantSystemPrompt
	default:
		return attractionSystemPrompt
	}
}

// replaceSystemPrompt is static except for the restaurant dietary constraint,
// which comes from the consultant-maintained client profile, never from the
// request body.
func replaceSystemPrompt(category domain.Category, profile *domain.ClientProfile) string {
	switch category {
	case domain.CategoryPhotos:
		return photoReplaceSystemPrompt
	case domain.CategoryRestaurants:
		dietHint := ""
		if profile != nil && profile.DietaryRequirements != "" {
			dietHint = "DIETARY HARD CONSTRAINT — never suggest anything incompatible with: " + profile.DietaryRequirements
		}
		return fmt.Sprintf(restaurantReplaceSystemPrompt, dietHint)
	default:
		return attractionReplaceSystemPrompt
	}
}

func userPrompt(category domain.Category, q ports.ScoutQuery) string {
	perDay := q.Count
	if q.Duration > 0 {
		perDay = q.Count / q.Duration
	}

	var b strings.Builder
	switch category {
	case domain.CategoryPhotos:
		fmt.Fprintf(&b, "Generate %d photography locations (%d per day), spread across %d days.\n\n", q.Count, perDay, q.Duration)
	case domain.CategoryRestaurants:
		fmt.Fprintf(&b, "Generate %d restaurant recommendations (%d per day across %d days),\ncovering breakfast, lunch, and dinner in a sensible rotation.\n\n", q.Count, perDay, q.Duration)
	default:
		fmt.Fprintf(&b, "Generate %d attractions (%d per day across %d days).\n\n", q.Count, perDay, q.Duration)
	}

	b.WriteString("Trip details:\n")
	fmt.Fprintf(&b, "- Destination: %s\n", q.Location)
	fmt.Fprintf(&b, "- Duration: %d days\n", q.Duration)
	switch category {
	case domain.CategoryPhotos:
		fmt.Fprintf(&b, "- Photography interests: %s\n", deref(q.Preferences))
		fmt.Fprintf(&b, "- Max travel radius: %s\n", deref(q.Distance))
	case domain.CategoryRestaurants:
		fmt.Fprintf(&b, "- Cuisine preferences stated by consultant: %s\n", deref(q.Preferences))
		fmt.Fprintf(&b, "- Budget range: %s\n", deref(q.Budget))
		fmt.Fprintf(&b, "- Max travel radius: %s\n", deref(q.Distance))
	default:
		fmt.Fprintf(&b, "- Attraction interests: %s\n", deref(q.Preferences))
		fmt.Fprintf(&b, "- Budget: %s\n", deref(q.Budget))
		fmt.Fprintf(&b, "- Max travel radius: %s\n", deref(q.Distance))
	}

	b.WriteString(accommodationBlock(category, q.Accommodation))
	b.WriteString(prePlannedBlock(category, q.PrePlanned))
	b.WriteString(clientBlock(category, q.Profile, q.Location))

	fmt.Fprintf(&b, "\nProvide %d complete JSON objects, one per line. No markdown, no other text.", q.Count)
	return b.String()
}

func replaceUserPrompt(category domain.Category, q ports.ScoutQuery) string {
	var b strings.Builder
	switch category {
	case domain.CategoryPhotos:
		fmt.Fprintf(&b, "Find one photography location in %s.\n\n", q.Location)
	case domain.CategoryRestaurants:
		fmt.Fprintf(&b, "Find one restaurant in %s.\n\n", q.Location)
	default:
		fmt.Fprintf(&b, "Find one attraction in %s.\n\n", q.Location)
	}

	if len(q.Exclude) > 0 {
		b.WriteString("IMPORTANT — Do NOT suggest any of the following (already in the guide):\n")
		for _, name := range q.Exclude {
			fmt.Fprintf(&b, "  - %s\n", name)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Context: Day %d of a %d-day trip.", q.Day, q.Duration)
	if category == domain.CategoryRestaurants && q.MealType != nil && *q.MealType != "" {
		fmt.Fprintf(&b, " This should be a %s option.", *q.MealType)
	}
	b.WriteString("\n")

	switch category {
	case domain.CategoryPhotos:
		fmt.Fprintf(&b, "Photography interests: %s\n", derefOr(q.Preferences, "general"))
	case domain.CategoryRestaurants:
		fmt.Fprintf(&b, "Cuisine preferences: %s\n", derefOr(q.Preferences, "any local"))
	default:
		fmt.Fprintf(&b, "Attraction interests: %s\n", derefOr(q.Preferences, "general sightseeing"))
	}
	fmt.Fprintf(&b, "Budget: %s | Travel radius: %s", deref(q.Budget), deref(q.Distance))
	return b.String()
}

func accommodationBlock(category domain.Category, accommodation *string) string {
	if accommodation == nil || *accommodation == "" {
		return "- Accommodation: not specified — use city centre as the assumed travel base.\n"
	}
	switch category {
	case domain.CategoryPhotos:
		return fmt.Sprintf("- Accommodation / travel base: %s\n  Distance and logistics notes must be calculated from this address, not the city centre.\n", *accommodation)
	case domain.CategoryRestaurants:
		return fmt.Sprintf("- Accommodation / travel base: %s\n  Distance notes must be calculated from this address, not the city centre.\n", *accommodation)
	default:
		return fmt.Sprintf("- Accommodation / travel base: %s\n  Group each day's attractions geographically so the client isn't backtracking.\n  Distance and travel time must be calculated from this address, not the city centre.\n", *accommodation)
	}
}

func prePlannedBlock(category domain.Category, prePlanned *string) string {
	if prePlanned == nil || *prePlanned == "" {
		return ""
	}
	switch category {
	case domain.CategoryPhotos:
		return fmt.Sprintf("Already planned / committed:\n  %s\n  Do NOT suggest anything that duplicates or conflicts with the above.\n", *prePlanned)
	case domain.CategoryRestaurants:
		return fmt.Sprintf("Already planned / committed:\n  %s\n  Do NOT suggest any restaurant that duplicates or conflicts with the above.\n  If a meal slot is clearly covered by a pre-planned event, skip that slot rather than\n  adding a competing recommendation.\n", *prePlanned)
	default:
		return fmt.Sprintf("Already planned / committed:\n  %s\n  Do NOT suggest anything that duplicates or conflicts with the above.\n  If a time slot is already committed, plan around it — suggest complementary nearby\n  stops rather than competing alternatives for the same slot.\n", *prePlanned)
	}
}

func clientBlock(category domain.Category, profile *domain.ClientProfile, location string) string {
	if profile == nil {
		return "Client profile: none provided — give broadly appealing recommendations.\n"
	}

	var lines []string
	if profile.TravelStyle != "" {
		lines = append(lines, "  Travel style: "+profile.TravelStyle)
	}
	if profile.PreferredBudget != "" {
		switch category {
		case domain.CategoryPhotos:
			lines = append(lines, "  Budget tier: "+profile.PreferredBudget)
		case domain.CategoryRestaurants:
			lines = append(lines, "  Budget preference: "+profile.PreferredBudget+" — let this shape price tier selection")
		default:
			lines = append(lines, "  Budget preference: "+profile.PreferredBudget+" — factor into admission and tour costs")
		}
	}
	if profile.HomeCity != "" {
		switch category {
		case domain.CategoryPhotos:
			lines = append(lines, "  Home city: "+profile.HomeCity+" — avoid suggesting things they can easily do at home")
		case domain.CategoryRestaurants:
			lines = append(lines, "  Home city: "+profile.HomeCity+" — avoid chain restaurants or cuisine types they can get easily at home; prioritise genuinely local dishes and independent restaurants")
		default:
			lines = append(lines, "  Home city: "+profile.HomeCity+" — skip attractions that are similar to what they have at home; favour experiences genuinely unique to "+location)
		}
	}
	if profile.DietaryRequirements != "" {
		switch category {
		case domain.CategoryPhotos:
			lines = append(lines, "  Dietary requirements: "+profile.DietaryRequirements+" — respect these if any location involves food (e.g. café stops, food markets)")
		case domain.CategoryRestaurants:
			lines = append(lines, "  Dietary requirements: "+profile.DietaryRequirements+" — HARD CONSTRAINT. Never suggest a restaurant or dish that conflicts with these. Verify menu compatibility before recommending.")
		default:
			lines = append(lines, "  Dietary requirements: "+profile.DietaryRequirements+" — if any attraction involves food (food markets, cooking classes, winery tours), ensure it is compatible")
		}
	}
	if profile.Notes != "" {
		lines = append(lines, "  Consultant notes: "+profile.Notes)
	}

	if len(lines) == 0 {
		return "Client profile: none provided — give broadly appealing recommendations.\n"
	}
	return "Client profile:\n" + strings.Join(lines, "\n") + "\n"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
