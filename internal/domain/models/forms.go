package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/creasty/defaults"

	"FuelDesk/pkg/util"
)

// DefaultCSVURL is the EPPO retail price dataset offered for bulk import.
const DefaultCSVURL = "https://catalog.eppo.go.th/dataset/b15f2fe3-14f0-4de5-b90e-2a5b63b4e717/resource/7d56918d-adbf-42b7-bd36-e4b33d425027/download/dataset_11_86.csv"

// Form is the input of one console section. Spec is only meaningful after
// defaults and presence checks have run.
type Form interface {
	Endpoint() EndpointID
	Spec() (RequestSpec, error)
}

// NewForm returns an empty form for id.
func NewForm(id EndpointID) (Form, bool) {
	switch id {
	case EndpointGenerateSampleData:
		return &GenerateSampleDataForm{}, true
	case EndpointTrain:
		return &TrainForm{}, true
	case EndpointPredict:
		return &PredictForm{}, true
	case EndpointSearch:
		return &SearchForm{}, true
	case EndpointAddPrice:
		return &PriceEntryForm{}, true
	case EndpointLatestPrices:
		return &LatestPricesForm{}, true
	case EndpointUploadCSVURL:
		return &UploadCSVForm{}, true
	case EndpointHealth:
		return &HealthForm{}, true
	}
	return nil, false
}

// NewDefaultForm returns the form for id with its starting values filled in,
// so that fields a caller omits keep them. Fields bound over it afterwards,
// including cleared ones, are taken as sent.
func NewDefaultForm(id EndpointID) (Form, bool) {
	form, ok := NewForm(id)
	if !ok {
		return nil, false
	}
	if err := defaults.Set(form); err != nil {
		return nil, false
	}
	return form, true
}

// NumberText is a numeric input kept as text so that "left empty" stays
// distinguishable from zero. JSON callers may send either a number or a string.
type NumberText string

func (n *NumberText) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*n = NumberText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("expected number or string: %w", err)
	}
	*n = NumberText(num.String())
	return nil
}

// Empty reports whether nothing was entered.
func (n NumberText) Empty() bool {
	return strings.TrimSpace(string(n)) == ""
}

// Float parses the entered value.
func (n NumberText) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
}

type GenerateSampleDataForm struct{}

func (f *GenerateSampleDataForm) Endpoint() EndpointID { return EndpointGenerateSampleData }

func (f *GenerateSampleDataForm) Spec() (RequestSpec, error) {
	return RequestSpec{Endpoint: EndpointGenerateSampleData, Method: MethodPost}, nil
}

type TrainForm struct {
	FuelType string `json:"fuel_type" form:"fuel_type" default:"diesel" validate:"required"`
	Retrain  bool   `json:"retrain" form:"retrain"`
}

func (f *TrainForm) Endpoint() EndpointID { return EndpointTrain }

func (f *TrainForm) Spec() (RequestSpec, error) {
	return RequestSpec{
		Endpoint: EndpointTrain,
		Method:   MethodPost,
		Body:     map[string]any{"fuel_type": f.FuelType, "retrain": f.Retrain},
	}, nil
}

type PredictForm struct {
	FuelType string `json:"fuel_type" form:"fuel_type" default:"diesel" validate:"required"`
	Horizon  int    `json:"horizon" form:"horizon" default:"7" validate:"required"`
}

func (f *PredictForm) Endpoint() EndpointID { return EndpointPredict }

func (f *PredictForm) Spec() (RequestSpec, error) {
	return RequestSpec{
		Endpoint: EndpointPredict,
		Method:   MethodPost,
		Body:     map[string]any{"fuel_type": f.FuelType, "horizon": f.Horizon},
	}, nil
}

type SearchForm struct {
	Price    NumberText `json:"price" form:"price" default:"32.5" validate:"required"`
	FuelType string     `json:"fuel_type" form:"fuel_type" default:"diesel" validate:"required"`
	Limit    int        `json:"limit" form:"limit" default:"5" validate:"required"`
}

func (f *SearchForm) Endpoint() EndpointID { return EndpointSearch }

func (f *SearchForm) Spec() (RequestSpec, error) {
	price, err := f.Price.Float()
	if err != nil {
		return RequestSpec{}, NewValidationError("price must be a number")
	}
	q := url.Values{}
	q.Set("price", strconv.FormatFloat(price, 'f', -1, 64))
	q.Set("fuel_type", f.FuelType)
	q.Set("limit", strconv.Itoa(f.Limit))
	return RequestSpec{Endpoint: EndpointSearch, Method: MethodGet, Query: q}, nil
}

// PriceEntryForm records one day of prices. At least one fuel must be filled.
type PriceEntryForm struct {
	Date       string     `json:"date" form:"date"`
	Diesel     NumberText `json:"diesel" form:"diesel"`
	Gasohol95  NumberText `json:"gasohol_95" form:"gasohol_95"`
	Gasohol91  NumberText `json:"gasohol_91" form:"gasohol_91"`
	GasoholE20 NumberText `json:"gasohol_e20" form:"gasohol_e20"`
	DieselB7   NumberText `json:"diesel_b7" form:"diesel_b7"`
	LPG        NumberText `json:"lpg" form:"lpg"`
}

func (f *PriceEntryForm) Endpoint() EndpointID { return EndpointAddPrice }

// Prices returns the fuel fields keyed by their wire name, in display order.
func (f *PriceEntryForm) Prices() []PriceInput {
	return []PriceInput{
		{Fuel: "diesel", Value: f.Diesel},
		{Fuel: "gasohol_95", Value: f.Gasohol95},
		{Fuel: "gasohol_91", Value: f.Gasohol91},
		{Fuel: "gasohol_e20", Value: f.GasoholE20},
		{Fuel: "diesel_b7", Value: f.DieselB7},
		{Fuel: "lpg", Value: f.LPG},
	}
}

// HasAnyPrice reports whether at least one fuel price was entered.
func (f *PriceEntryForm) HasAnyPrice() bool {
	for _, p := range f.Prices() {
		if !p.Value.Empty() {
			return true
		}
	}
	return false
}

func (f *PriceEntryForm) Spec() (RequestSpec, error) {
	body := map[string]any{"date": util.NormalizeDate(f.Date)}
	for _, p := range f.Prices() {
		if p.Value.Empty() {
			continue
		}
		v, err := p.Value.Float()
		if err != nil {
			return RequestSpec{}, NewValidationError(fmt.Sprintf("%s price must be a number", p.Fuel))
		}
		body[p.Fuel] = v
	}
	return RequestSpec{Endpoint: EndpointAddPrice, Method: MethodPost, Body: body}, nil
}

// ValidationMessages keeps the wording operators already know from the form.
func (f *PriceEntryForm) ValidationMessages() map[string]string {
	return map[string]string{
		"Diesel.oneprice": "Please enter at least one fuel price",
		"Date.required":   "Please select a date",
	}
}

// PriceInput is one fuel field of a price entry.
type PriceInput struct {
	Fuel  string
	Value NumberText
}

type LatestPricesForm struct{}

func (f *LatestPricesForm) Endpoint() EndpointID { return EndpointLatestPrices }

func (f *LatestPricesForm) Spec() (RequestSpec, error) {
	return RequestSpec{Endpoint: EndpointLatestPrices, Method: MethodGet}, nil
}

type UploadCSVForm struct {
	URL string `json:"url" form:"url" validate:"required"`
}

func (f *UploadCSVForm) Endpoint() EndpointID { return EndpointUploadCSVURL }

func (f *UploadCSVForm) Spec() (RequestSpec, error) {
	q := url.Values{}
	q.Set("url", strings.TrimSpace(f.URL))
	return RequestSpec{Endpoint: EndpointUploadCSVURL, Method: MethodPost, Query: q}, nil
}

type HealthForm struct{}

func (f *HealthForm) Endpoint() EndpointID { return EndpointHealth }

func (f *HealthForm) Spec() (RequestSpec, error) {
	return RequestSpec{Endpoint: EndpointHealth, Method: MethodGet}, nil
}
