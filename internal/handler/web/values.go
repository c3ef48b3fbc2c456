package web

import (
	"strconv"
	"sync"
	"time"

	"FuelDesk/internal/domain/models"
	"FuelDesk/pkg/util"
)

// PriceField is one fuel input of the price entry form.
type PriceField struct {
	Fuel        string
	Label       string
	Placeholder string
	Value       string
}

// FormValues is what the page shows in its inputs.
type FormValues struct {
	FuelType string
	Retrain  bool
	Horizon  string
	Price    string
	Limit    string
	Date     string
	Prices   []PriceField
	CSVURL   string
}

var priceFields = []PriceField{
	{Fuel: "diesel", Label: "Diesel Price", Placeholder: "32.50"},
	{Fuel: "gasohol_95", Label: "Gasohol 95 Price", Placeholder: "42.80"},
	{Fuel: "gasohol_91", Label: "Gasohol 91 Price", Placeholder: "40.50"},
	{Fuel: "gasohol_e20", Label: "Gasohol E20 Price", Placeholder: "39.20"},
	{Fuel: "diesel_b7", Label: "Diesel B7 Price", Placeholder: "33.00"},
	{Fuel: "lpg", Label: "LPG Price", Placeholder: "21.50"},
}

// formMemory keeps the last submitted inputs so the page re-renders them.
// The fuel type is shared by the train, predict and search forms.
type formMemory struct {
	mu sync.Mutex
	v  FormValues
}

func newFormMemory(now time.Time) *formMemory {
	return &formMemory{v: FormValues{
		FuelType: "diesel",
		Retrain:  true,
		Horizon:  "7",
		Price:    "32.5",
		Limit:    "5",
		Date:     util.FormatDate(now),
		Prices:   clearedPrices(),
		CSVURL:   models.DefaultCSVURL,
	}}
}

func clearedPrices() []PriceField {
	out := make([]PriceField, len(priceFields))
	copy(out, priceFields)
	return out
}

func (m *formMemory) snapshot() FormValues {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.v
	v.Prices = append([]PriceField(nil), m.v.Prices...)
	return v
}

// remember stores a submitted form. Price inputs are kept when the entry was
// rejected locally and cleared once it was sent.
func (m *formMemory) remember(form models.Form, state models.UiState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch f := form.(type) {
	case *models.TrainForm:
		m.v.FuelType = f.FuelType
		m.v.Retrain = f.Retrain
	case *models.PredictForm:
		m.v.FuelType = f.FuelType
		m.v.Horizon = strconv.Itoa(f.Horizon)
	case *models.SearchForm:
		m.v.FuelType = f.FuelType
		m.v.Price = string(f.Price)
		m.v.Limit = strconv.Itoa(f.Limit)
	case *models.PriceEntryForm:
		m.v.Date = f.Date
		if state.ErrorKind == models.ErrorKindValidation {
			prices := clearedPrices()
			for i, p := range f.Prices() {
				prices[i].Value = string(p.Value)
			}
			m.v.Prices = prices
		} else {
			m.v.Prices = clearedPrices()
		}
	case *models.UploadCSVForm:
		m.v.CSVURL = f.URL
	}
}
