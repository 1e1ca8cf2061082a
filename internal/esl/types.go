// Package esl publishes normalized item records to the ESL management
// platform in bounded batches with bearer auth.
package esl

// CommandUpdate is the upsert command understood by the platform.
const CommandUpdate = "UPDATE"

// Item is one normalized pricing record as sent to the platform.
type Item struct {
	Command      string `json:"IIS_COMMAND"`
	SKU          string `json:"sku"`
	ShortName    string `json:"itemShortName"`
	Name         string `json:"itemName"`
	Manufacturer string `json:"manufacturer"`
	Price1       int64  `json:"price1"`
	Price2       int64  `json:"price2"`
	Price3       int64  `json:"price3"`
	Inventory    int64  `json:"inventory"`
}

// batchPayload is the body of one integration POST.
type batchPayload struct {
	CustomerStoreCode string `json:"customerStoreCode"`
	StoreCode         string `json:"storeCode"`
	BatchNo           string `json:"batchNo"`
	Items             []Item `json:"items"`
}

// BatchResult records the outcome of one batch, successful or not.
type BatchResult struct {
	Batch    int         `json:"batch"`
	Status   int         `json:"status"`
	Response interface{} `json:"response"`
}

// Report aggregates the outcomes of a publish run.
type Report struct {
	BatchesSent int           `json:"batches_sent"`
	Results     []BatchResult `json:"results"`
}

// tokenResponse is the body of the token exchange.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}
