package render

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/mitchellh/mapstructure"

	"FuelDesk/internal/domain/models"
)

// ResultView is the display model of a successful result. Exactly one of
// Forecast, Latest, Similar is set, matching Shape; Raw is always filled.
type ResultView struct {
	Shape    models.ResultShape `json:"shape"`
	Forecast *ForecastView      `json:"forecast,omitempty"`
	Latest   *LatestView        `json:"latest,omitempty"`
	Similar  *SimilarView       `json:"similar,omitempty"`
	Raw      string             `json:"raw"`
}

type ForecastView struct {
	CurrentPrice string        `json:"current_price"`
	FuelType     string        `json:"fuel_type"`
	Rows         []ForecastRow `json:"rows"`
}

// ForecastRow holds display strings; a field the service left out stays empty.
type ForecastRow struct {
	Day            string `json:"day"`
	Date           string `json:"date"`
	PredictedPrice string `json:"predicted_price"`
	Range          string `json:"range"`
}

type LatestView struct {
	Prices []LatestPrice `json:"prices"`
}

type LatestPrice struct {
	Fuel  string `json:"fuel"`
	Price string `json:"price"`
	Date  string `json:"date"`
}

type SimilarView struct {
	Matches []SimilarMatch `json:"matches"`
}

type SimilarMatch struct {
	Date       string `json:"date"`
	Price      string `json:"price"`
	Similarity string `json:"similarity"`
}

type forecastRow struct {
	Day            any      `mapstructure:"day"`
	Date           any      `mapstructure:"date"`
	PredictedPrice *float64 `mapstructure:"predicted_price"`
	LowerBound     *float64 `mapstructure:"lower_bound"`
	UpperBound     *float64 `mapstructure:"upper_bound"`
}

type priceRecord struct {
	Price any `mapstructure:"price"`
	Date  any `mapstructure:"date"`
}

type similarRow struct {
	Date            any      `mapstructure:"date"`
	Price           any      `mapstructure:"price"`
	SimilarityScore *float64 `mapstructure:"similarity_score"`
}

// Build returns the view of a Success state, nil for any other phase.
func Build(state models.UiState) *ResultView {
	if state.Phase != models.PhaseSuccess {
		return nil
	}
	return BuildResult(state.Result, state.Raw)
}

// BuildResult classifies result and fills the matching view. raw is the body as
// received and is what the generic view shows.
func BuildResult(result any, raw []byte) *ResultView {
	v := &ResultView{
		Shape: Classify(result),
		Raw:   rawText(result, raw),
	}

	obj, _ := result.(map[string]any)
	switch v.Shape {
	case models.ShapeForecastSeries:
		v.Forecast = forecastView(obj)
	case models.ShapeLatestPriceSnapshot:
		v.Latest = latestView(obj[keyLatestPrices].(map[string]any), memberOrder(raw, keyLatestPrices))
	case models.ShapeSimilaritySearch:
		v.Similar = similarView(obj[keySimilarDates].([]any))
	}
	return v
}

func forecastView(obj map[string]any) *ForecastView {
	fv := &ForecastView{
		CurrentPrice: PlainBaht(obj["current_price"]),
		FuelType:     Plain(obj["fuel_type"]),
	}
	for _, item := range obj[keyPredictions].([]any) {
		var r forecastRow
		decodeLenient(item, &r)

		row := ForecastRow{Day: Plain(r.Day), Date: Plain(r.Date)}
		if r.PredictedPrice != nil {
			row.PredictedPrice = Baht(*r.PredictedPrice)
		}
		switch {
		case r.LowerBound != nil && r.UpperBound != nil:
			row.Range = Baht(*r.LowerBound) + " - " + Baht(*r.UpperBound)
		case r.LowerBound != nil:
			row.Range = Baht(*r.LowerBound)
		case r.UpperBound != nil:
			row.Range = Baht(*r.UpperBound)
		}
		fv.Rows = append(fv.Rows, row)
	}
	return fv
}

// latestView lists fuels in the order the service sent them. Fuels missing
// from order, which happens when there is no raw body, follow sorted by name.
func latestView(prices map[string]any, order []string) *LatestView {
	fuels := make([]string, 0, len(prices))
	seen := make(map[string]bool, len(prices))
	for _, fuel := range order {
		if _, ok := prices[fuel]; ok && !seen[fuel] {
			seen[fuel] = true
			fuels = append(fuels, fuel)
		}
	}
	var rest []string
	for fuel := range prices {
		if !seen[fuel] {
			rest = append(rest, fuel)
		}
	}
	sort.Strings(rest)
	fuels = append(fuels, rest...)

	lv := &LatestView{Prices: make([]LatestPrice, 0, len(fuels))}
	for _, fuel := range fuels {
		var rec priceRecord
		decodeLenient(prices[fuel], &rec)
		lv.Prices = append(lv.Prices, LatestPrice{
			Fuel:  fuel,
			Price: PlainBaht(rec.Price),
			Date:  Plain(rec.Date),
		})
	}
	return lv
}

// memberOrder returns the member names of the object stored under field in
// the top-level object of raw, in wire order. A repeated field behaves like
// the decoded map: the last one counts. It returns nil when raw cannot be walked.
func memberOrder(raw []byte, field string) []string {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if !openObject(dec) {
		return nil
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		if name, _ := tok.(string); name == field {
			var ok bool
			if keys, ok = objectKeys(dec); !ok {
				return nil
			}
			continue
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil
		}
	}
	return keys
}

// objectKeys consumes one object from dec and returns its member names.
func objectKeys(dec *json.Decoder) ([]string, bool) {
	if !openObject(dec) {
		return nil, false
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		name, _ := tok.(string)
		keys = append(keys, name)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, false
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, false
	}
	return keys, true
}

func openObject(dec *json.Decoder) bool {
	tok, err := dec.Token()
	if err != nil {
		return false
	}
	d, ok := tok.(json.Delim)
	return ok && d == '{'
}

func similarView(list []any) *SimilarView {
	sv := &SimilarView{Matches: make([]SimilarMatch, 0, len(list))}
	for _, item := range list {
		var r similarRow
		decodeLenient(item, &r)
		m := SimilarMatch{Date: Plain(r.Date), Price: PlainBaht(r.Price)}
		if r.SimilarityScore != nil {
			m.Similarity = Percent(*r.SimilarityScore)
		}
		sv.Matches = append(sv.Matches, m)
	}
	return sv
}

// decodeLenient fills out from an untyped row. Fields that are missing or of
// the wrong type are left nil; the error is dropped so one bad field never
// hides the rest of the row.
func decodeLenient(in any, out any) {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return
	}
	_ = dec.Decode(in)
}

func rawText(result any, raw []byte) string {
	if len(raw) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err == nil {
			return buf.String()
		}
		return string(raw)
	}
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return Plain(result)
	}
	return string(b)
}
