package render

import "FuelDesk/internal/domain/models"

// Field names that mark the known result shapes.
const (
	keyPredictions  = "predictions"
	keyLatestPrices = "latest_prices"
	keySimilarDates = "similar_dates"
)

// Classify picks how a successful result is displayed. The checks run in a
// fixed order and the first match wins:
//
//  1. ForecastSeries: "predictions" is a list of objects.
//  2. LatestPriceSnapshot: "latest_prices" is an object.
//  3. SimilaritySearch: "similar_dates" is a list of objects.
//  4. Generic: anything else, including non-object results.
//
// Rows are not checked for individual fields here; a row missing a field is
// still rendered with whatever it has.
func Classify(result any) models.ResultShape {
	obj, ok := result.(map[string]any)
	if !ok {
		return models.ShapeGeneric
	}
	if isObjectList(obj[keyPredictions]) {
		return models.ShapeForecastSeries
	}
	if _, ok := obj[keyLatestPrices].(map[string]any); ok {
		return models.ShapeLatestPriceSnapshot
	}
	if isObjectList(obj[keySimilarDates]) {
		return models.ShapeSimilaritySearch
	}
	return models.ShapeGeneric
}

func isObjectList(v any) bool {
	list, ok := v.([]any)
	if !ok {
		return false
	}
	for _, item := range list {
		if _, ok := item.(map[string]any); !ok {
			return false
		}
	}
	return true
}
