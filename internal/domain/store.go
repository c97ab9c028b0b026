package domain

// PartnerStore is one entry of the locally cached partner store directory,
// shown to customers browsing pickup locations without leaving the site.
type PartnerStore struct {
	ID        string `json:"id"`
	StoreCode string `json:"storeCode"`
	StoreName string `json:"storeName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	District  string `json:"district"`
	Phone     string `json:"phone,omitempty"`
	Active    bool   `json:"-"`
}
