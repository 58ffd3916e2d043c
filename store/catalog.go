package store

import (
	"sort"

	"food-marketplace-api/models"
)

// recommendationCatalog is the fixed recipe catalog served by the
// recommendations endpoint. Order matters: personalization is a stable sort,
// so ties keep this ordering.
// personalize stably sorts recs in place by descending overlap between each
// record's tags and the user's preference tags. Ties keep catalog order.
func personalize(recs []models.Recommendation, prefs []string) []models.Recommendation {
	if len(prefs) == 0 {
		return recs
	}
	set := map[string]bool{}
	for _, tag := range prefs {
		set[tag] = true
	}
	matches := func(r models.Recommendation) int {
		n := 0
		for _, tag := range r.Tags {
			if set[tag] {
				n++
			}
		}
		return n
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return matches(recs[i]) > matches(recs[j])
	})
	return recs
}

func recommendationCatalog() []models.Recommendation {
	return []models.Recommendation{
		{ID: 1, Title: "Beef Buuz", Description: "Steamed dumplings with minced beef and onion", Category: "mongolian", PrepMinutes: 40, Tags: []string{"beef", "steamed", "traditional"}},
		{ID: 2, Title: "Chicken Stir Fry", Description: "Wok-fried chicken with seasonal vegetables", Category: "asian", PrepMinutes: 25, Tags: []string{"chicken", "quick", "spicy"}},
		{ID: 3, Title: "Veggie Tsuivan", Description: "Hand-pulled noodles with stir-fried vegetables", Category: "mongolian", PrepMinutes: 35, Tags: []string{"vegetarian", "noodles", "traditional"}},
		{ID: 4, Title: "Margherita Pizza", Description: "Tomato, mozzarella and fresh basil", Category: "italian", PrepMinutes: 30, Tags: []string{"vegetarian", "cheese", "baked"}},
		{ID: 5, Title: "Salmon Poke Bowl", Description: "Rice bowl with marinated salmon and avocado", Category: "asian", PrepMinutes: 20, Tags: []string{"fish", "healthy", "quick"}},
		{ID: 6, Title: "Lamb Khorkhog", Description: "Slow-cooked lamb with root vegetables", Category: "mongolian", PrepMinutes: 90, Tags: []string{"lamb", "traditional", "slow-cooked"}},
		{ID: 7, Title: "Greek Salad", Description: "Cucumber, tomato, olives and feta", Category: "mediterranean", PrepMinutes: 10, Tags: []string{"vegetarian", "healthy", "quick"}},
		{ID: 8, Title: "Spicy Ramen", Description: "Pork broth ramen with chili oil and egg", Category: "asian", PrepMinutes: 45, Tags: []string{"pork", "noodles", "spicy"}},
	}
}
