package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-marketplace-api/models"
)

func TestRecommendationsEndpoint(t *testing.T) {
	r, _ := setupRouter()

	w := doJSON(t, r, http.MethodGet, "/api/recommendations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recs []models.Recommendation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recs))
	assert.NotEmpty(t, recs)

	// personalized call is still the same catalog, reordered
	w = doJSON(t, r, http.MethodGet, "/api/recommendations?userId=nobody", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var personalized []models.Recommendation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &personalized))
	assert.Len(t, personalized, len(recs))
}

func TestFavoritesToggleEndpoint(t *testing.T) {
	r, _ := setupRouter()

	w := doJSON(t, r, http.MethodPost, "/api/favorites/toggle", map[string]interface{}{"userId": "u-1", "recipeId": 3})
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		RecipeID uint `json:"recipeId"`
		Favorite bool `json:"favorite"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Favorite)

	w = doJSON(t, r, http.MethodGet, "/api/favorites/u-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var favs struct {
		Favorites []uint `json:"favorites"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &favs))
	assert.Equal(t, []uint{3}, favs.Favorites)

	// toggling again returns to the original state
	w = doJSON(t, r, http.MethodPost, "/api/favorites/toggle", map[string]interface{}{"userId": "u-1", "recipeId": 3})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Favorite)

	// missing fields
	w = doJSON(t, r, http.MethodPost, "/api/favorites/toggle", map[string]interface{}{"userId": "u-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
