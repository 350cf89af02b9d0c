package events

type PublishListing struct{}

func init() {
	Register(&PublishListing{})
}
