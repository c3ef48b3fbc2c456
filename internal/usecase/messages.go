package usecase

import (
	"encoding/json"
	"fmt"

	"FuelDesk/internal/domain/models"
	"FuelDesk/internal/services/render"
)

// DefaultSuccessMessage is used for endpoints without an entry in successMessages.
const DefaultSuccessMessage = "✅ Operation completed successfully"

type messageFunc func(req, result map[string]any) string

// successMessages is keyed by exact endpoint id. Search has no entry on purpose.
var successMessages = map[models.EndpointID]messageFunc{
	models.EndpointGenerateSampleData: func(_, res map[string]any) string {
		return fmt.Sprintf("✅ Generated %s data records", orDefault(res["records_added"], "sample"))
	},
	models.EndpointTrain: func(req, res map[string]any) string {
		fuel := orDefault(req["fuel_type"], render.Plain(res["fuel_type"]))
		return fmt.Sprintf("✅ Model trained for %s with %s samples", fuel, orDefault(res["samples"], "N/A"))
	},
	models.EndpointPredict: func(req, res map[string]any) string {
		return fmt.Sprintf("✅ Prediction generated for %s", orDefault(res["fuel_type"], render.Plain(req["fuel_type"])))
	},
	models.EndpointLatestPrices: func(_, _ map[string]any) string { return "✅ Latest prices retrieved" },
	models.EndpointAddPrice:     func(_, _ map[string]any) string { return "✅ Price entry added successfully" },
	models.EndpointUploadCSVURL: func(_, _ map[string]any) string { return "✅ CSV uploaded successfully" },
	models.EndpointHealth:       func(_, _ map[string]any) string { return "✅ API is healthy" },
}

// SuccessMessage derives the status line for a successful dispatch.
func SuccessMessage(spec models.RequestSpec, result any) string {
	fn, ok := successMessages[spec.Endpoint]
	if !ok {
		return DefaultSuccessMessage
	}
	res, _ := result.(map[string]any)
	return fn(spec.Body, res)
}

// orDefault renders v, or fallback when v is absent, zero, false or empty.
func orDefault(v any, fallback string) string {
	if !truthy(v) {
		return fallback
	}
	return render.Plain(v)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return true
}
