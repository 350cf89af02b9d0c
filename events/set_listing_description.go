package events

type SetListingDescription struct {
	Description string `json:"description"`
}

func init() {
	Register(&SetListingDescription{})
}
