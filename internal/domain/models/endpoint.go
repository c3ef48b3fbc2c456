package models

import "net/url"

// EndpointID names one of the remote operations the console can trigger.
type EndpointID string

const (
	EndpointGenerateSampleData EndpointID = "generate-sample-data"
	EndpointTrain              EndpointID = "train"
	EndpointPredict            EndpointID = "predict"
	EndpointSearch             EndpointID = "search"
	EndpointAddPrice           EndpointID = "add-price"
	EndpointLatestPrices       EndpointID = "latest-prices"
	EndpointUploadCSVURL       EndpointID = "upload-csv-url"
	EndpointHealth             EndpointID = "health"
)

// Method is the HTTP verb used for an outbound call.
type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// Endpoint describes where and how an operation is reached on the API root.
type Endpoint struct {
	ID     EndpointID `json:"id"`
	Path   string     `json:"path"`
	Method Method     `json:"method"`
	Title  string     `json:"title"`
}

// endpoints is ordered the way the console lays out its forms.
var endpoints = []Endpoint{
	{ID: EndpointGenerateSampleData, Path: "/generate-sample-data", Method: MethodPost, Title: "Generate Sample Data"},
	{ID: EndpointTrain, Path: "/train", Method: MethodPost, Title: "Train Model"},
	{ID: EndpointPredict, Path: "/predict", Method: MethodPost, Title: "Predict Prices"},
	{ID: EndpointSearch, Path: "/search", Method: MethodGet, Title: "Search Similar Prices"},
	{ID: EndpointAddPrice, Path: "/prices", Method: MethodPost, Title: "Add Price Entry"},
	{ID: EndpointLatestPrices, Path: "/prices/latest", Method: MethodGet, Title: "Get Latest Prices"},
	{ID: EndpointUploadCSVURL, Path: "/upload-csv-url", Method: MethodPost, Title: "Upload Data from EPPO"},
	{ID: EndpointHealth, Path: "/", Method: MethodGet, Title: "Health Check"},
}

// Endpoints returns every supported endpoint in display order.
func Endpoints() []Endpoint {
	out := make([]Endpoint, len(endpoints))
	copy(out, endpoints)
	return out
}

// LookupEndpoint finds an endpoint by id.
func LookupEndpoint(id EndpointID) (Endpoint, bool) {
	for _, e := range endpoints {
		if e.ID == id {
			return e, true
		}
	}
	return Endpoint{}, false
}

// RequestSpec is one outbound call: which endpoint, which verb, and what to send.
// Body is only set for POST endpoints that take one.
type RequestSpec struct {
	Endpoint EndpointID     `json:"endpoint"`
	Method   Method         `json:"method"`
	Query    url.Values     `json:"query,omitempty"`
	Body     map[string]any `json:"body,omitempty"`
}

// ResponseEnvelope is what came back from the forecasting service, untouched.
type ResponseEnvelope struct {
	StatusCode int
	Body       []byte
}

// FuelType is a fuel grade known to the forecasting service.
type FuelType struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FuelTypes lists the selectable fuel grades.
var FuelTypes = []FuelType{
	{Value: "diesel", Label: "Diesel"},
	{Value: "gasohol_95", Label: "Gasohol 95"},
	{Value: "gasohol_91", Label: "Gasohol 91"},
	{Value: "gasohol_e20", Label: "Gasohol E20"},
	{Value: "gasohol_e85", Label: "Gasohol E85"},
	{Value: "diesel_b7", Label: "Diesel B7"},
	{Value: "lpg", Label: "LPG"},
}
