package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"travelease/internal/summary/document"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name    string
		content document.Content
		want    string
	}{
		{"first key when no hint", document.Raw(`{"destination_city": {}, "day_1": []}`), "Destination City"},
		{"title beats earlier name", document.Raw(`{"trip_name": 1, "city_guide": 2, "best_title": 3}`), "Best Title"},
		{"name beats destination", document.Raw(`{"destination": 1, "place_name": 2}`), "Place Name"},
		{"case insensitive", document.Raw(`{"overview": 1, "TripTitle": 2}`), "TripTitle"},
		{"hint order over key order", document.Raw(`{"city_tips": 1, "location_info": 2}`), "Location Info"},
		{"no hint uses first key", document.Raw(`{"day_1": "x", "day_2": "y"}`), "Day 1"},
		{"decoded document", document.Doc(document.ObjectValue(
			document.M("must_see", document.NullValue()),
			document.M("hotel_name", document.StringValue("x")),
		)), "Hotel Name"},
		{"not json", document.Raw("not json"), FallbackTitle},
		{"empty string", document.Raw(""), FallbackTitle},
		{"empty object", document.Raw(`{}`), FallbackTitle},
		{"array uses index keys", document.Raw(`["title"]`), "0"},
		{"empty array", document.Raw(`[]`), FallbackTitle},
		{"null", document.Raw(`null`), FallbackTitle},
		{"string document", document.Doc(document.StringValue("title")), FallbackTitle},
		{"empty key", document.Raw(`{"": 1}`), FallbackTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Title(tt.content)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
		})
	}
}
