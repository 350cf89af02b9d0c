package aggregates

import (
	"github.com/pkg/errors"

	"github.com/keel-framework/go-keel/events"
	"github.com/keel-framework/go-keel/framework/keel"
)

type Listing struct {
	NamedAggregate

	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	IsPublished bool   `json:"isPublished"`
}

func (agg *Listing) ReactTo(aev keel.Event) error {
	switch ev := aev.(type) {
	case *events.SetListingDisplayName:
		agg.DisplayName = ev.DisplayName
	case *events.SetListingDescription:
		agg.Description = ev.Description
	case *events.PublishListing:
		agg.IsPublished = true
	default:
		return errors.Errorf("Listing aggregate doesn't know what to do with %s", ev)
	}
	return nil
}

func init() {
	Register("listing", &Listing{})
}
