package usecase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"FuelDesk/internal/domain/models"
)

func TestSuccessMessage(t *testing.T) {
	tests := []struct {
		name   string
		spec   models.RequestSpec
		result any
		want   string
	}{
		{
			name:   "sample data count",
			spec:   models.RequestSpec{Endpoint: models.EndpointGenerateSampleData},
			result: map[string]any{"records_added": json.Number("365")},
			want:   "✅ Generated 365 data records",
		},
		{
			name:   "sample data zero count",
			spec:   models.RequestSpec{Endpoint: models.EndpointGenerateSampleData},
			result: map[string]any{"records_added": json.Number("0")},
			want:   "✅ Generated sample data records",
		},
		{
			name:   "train uses submitted fuel",
			spec:   models.RequestSpec{Endpoint: models.EndpointTrain, Body: map[string]any{"fuel_type": "lpg"}},
			result: map[string]any{"samples": json.Number("120"), "fuel_type": "diesel"},
			want:   "✅ Model trained for lpg with 120 samples",
		},
		{
			name:   "train without samples",
			spec:   models.RequestSpec{Endpoint: models.EndpointTrain, Body: map[string]any{"fuel_type": "diesel"}},
			result: map[string]any{"status": "trained"},
			want:   "✅ Model trained for diesel with N/A samples",
		},
		{
			name:   "predict prefers result fuel",
			spec:   models.RequestSpec{Endpoint: models.EndpointPredict, Body: map[string]any{"fuel_type": "diesel"}},
			result: map[string]any{"fuel_type": "gasohol_95"},
			want:   "✅ Prediction generated for gasohol_95",
		},
		{
			name:   "predict falls back to submitted fuel",
			spec:   models.RequestSpec{Endpoint: models.EndpointPredict, Body: map[string]any{"fuel_type": "diesel"}},
			result: map[string]any{},
			want:   "✅ Prediction generated for diesel",
		},
		{
			name: "latest prices",
			spec: models.RequestSpec{Endpoint: models.EndpointLatestPrices},
			want: "✅ Latest prices retrieved",
		},
		{
			name: "add price is not confused with latest prices",
			spec: models.RequestSpec{Endpoint: models.EndpointAddPrice},
			want: "✅ Price entry added successfully",
		},
		{
			name: "upload",
			spec: models.RequestSpec{Endpoint: models.EndpointUploadCSVURL},
			want: "✅ CSV uploaded successfully",
		},
		{
			name: "health",
			spec: models.RequestSpec{Endpoint: models.EndpointHealth},
			want: "✅ API is healthy",
		},
		{
			name:   "search has no entry",
			spec:   models.RequestSpec{Endpoint: models.EndpointSearch},
			result: map[string]any{"similar_dates": []any{}},
			want:   DefaultSuccessMessage,
		},
		{
			name:   "non-object result",
			spec:   models.RequestSpec{Endpoint: models.EndpointGenerateSampleData},
			result: []any{"x"},
			want:   "✅ Generated sample data records",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuccessMessage(tt.spec, tt.result))
		})
	}
}
