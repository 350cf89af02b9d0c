package events

type SetListingDisplayName struct {
	DisplayName string `json:"displayName"`
}

func init() {
	Register(&SetListingDisplayName{})
}
