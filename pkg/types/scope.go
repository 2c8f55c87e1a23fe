package types

// FetchScope narrows a collection fetch on the remote side. The engine only
// ever sets LocationId, the facet lists exist for callers that want the
// remote filter.
type FetchScope struct {
	LocationId  string   `json:"locationId,omitempty" schema:"locationId"`
	Size        []string `json:"size,omitempty" schema:"size"`
	Weight      []string `json:"weight,omitempty" schema:"weight"`
	Vendor      []string `json:"vendor,omitempty" schema:"vendor"`
	ProductType []string `json:"productType,omitempty" schema:"productType"`
}
