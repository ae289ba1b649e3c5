package plex

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const (
	templateResource      = "media/subscriptions/template"
	subscriptionsResource = "media/subscriptions"
)

// GetSubscriptionTemplates fetches the subscription templates for a content
// guid. Each template's opaque parameters string is decoded into its hints
// and params blocks before being returned.
func (c *Client) GetSubscriptionTemplates(ctx context.Context, guid string) ([]SubscriptionTemplate, error) {
	query := url.Values{}
	query.Set("guid", guid)

	var response templateResponse
	if err := c.getJSON(ctx, templateResource, query, &response); err != nil {
		return nil, err
	}

	bodies := response.MediaContainer.SubscriptionTemplate
	if len(bodies) == 0 {
		return nil, fmt.Errorf("expected a SubscriptionTemplate body")
	}

	templates := make([]SubscriptionTemplate, 0, len(bodies[0].MediaSubscription))
	for _, raw := range bodies[0].MediaSubscription {
		hints, params, err := decodeTemplateParameters(raw.Parameters)
		if err != nil {
			return nil, fmt.Errorf("failed to decode template parameters: %w", err)
		}

		templates = append(templates, SubscriptionTemplate{
			Type:                    raw.Type,
			TargetSectionLocationID: raw.TargetSectionLocationID,
			Settings:                raw.Setting,
			Hints:                   hints,
			Params:                  params,
		})
	}

	return templates, nil
}

// decodeTemplateParameters unpacks the template's parameters string: a
// URL-encoded query string whose keys nest the hints and params blocks with
// bracket notation (hints[guid], params[airingChannels], ...)
func decodeTemplateParameters(raw string) (SubscriptionHints, SubscriptionParams, error) {
	unescaped, err := url.QueryUnescape(raw)
	if err != nil {
		return SubscriptionHints{}, SubscriptionParams{}, err
	}

	values, err := url.ParseQuery(unescaped)
	if err != nil {
		return SubscriptionHints{}, SubscriptionParams{}, err
	}

	hints := SubscriptionHints{
		GrandparentGUID:       values.Get("hints[grandparentGuid]"),
		GrandparentThumb:      values.Get("hints[grandparentThumb]"),
		GrandparentTitle:      values.Get("hints[grandparentTitle]"),
		GUID:                  values.Get("hints[guid]"),
		Index:                 values.Get("hints[index]"),
		OriginallyAvailableAt: values.Get("hints[originallyAvailableAt]"),
		ParentGUID:            values.Get("hints[parentGuid]"),
		ParentIndex:           values.Get("hints[parentIndex]"),
		ParentTitle:           values.Get("hints[parentTitle]"),
		RatingKey:             values.Get("hints[ratingKey]"),
		Title:                 values.Get("hints[title]"),
		Type:                  values.Get("hints[type]"),
	}

	params := SubscriptionParams{
		AiringChannels:  values.Get("params[airingChannels]"),
		AiringTimes:     values.Get("params[airingTimes]"),
		LibraryType:     values.Get("params[libraryType]"),
		MediaProviderID: values.Get("params[mediaProviderID]"),
	}

	return hints, params, nil
}

// CreateSubscription submits a recording request. The DVR endpoint takes
// the whole subscription as a bracketed query string, mirroring the
// encoding the templates arrive in.
func (c *Client) CreateSubscription(ctx context.Context, sub *Subscription) error {
	return c.postForm(ctx, subscriptionsResource, sub.encode())
}

// encode flattens the subscription into the bracketed query form the
// subscriptions endpoint expects. Empty optional hint fields are omitted.
func (s *Subscription) encode() url.Values {
	values := url.Values{}

	values.Set("prefs[minVideoQuality]", s.Prefs.MinVideoQuality)
	values.Set("prefs[replaceLowerQuality]", s.Prefs.ReplaceLowerQuality)
	values.Set("prefs[recordPartials]", s.Prefs.RecordPartials)
	values.Set("prefs[startOffsetMinutes]", strconv.Itoa(s.Prefs.StartOffsetMinutes))
	values.Set("prefs[endOffsetMinutes]", strconv.Itoa(s.Prefs.EndOffsetMinutes))
	values.Set("prefs[lineupChannel]", s.Prefs.LineupChannel)
	values.Set("prefs[startTimeslot]", strconv.FormatInt(s.Prefs.StartTimeslot, 10))
	values.Set("prefs[comskipEnabled]", s.Prefs.ComskipEnabled)
	values.Set("prefs[comskipMethod]", s.Prefs.ComskipMethod)
	values.Set("prefs[oneShot]", s.Prefs.OneShot)
	values.Set("prefs[remoteMedia]", s.Prefs.RemoteMedia)

	setIfPresent := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}

	setIfPresent("hints[grandparentGuid]", s.Hints.GrandparentGUID)
	setIfPresent("hints[grandparentThumb]", s.Hints.GrandparentThumb)
	setIfPresent("hints[grandparentTitle]", s.Hints.GrandparentTitle)
	values.Set("hints[guid]", s.Hints.GUID)
	setIfPresent("hints[index]", s.Hints.Index)
	setIfPresent("hints[originallyAvailableAt]", s.Hints.OriginallyAvailableAt)
	setIfPresent("hints[parentGuid]", s.Hints.ParentGUID)
	setIfPresent("hints[parentIndex]", s.Hints.ParentIndex)
	setIfPresent("hints[parentTitle]", s.Hints.ParentTitle)
	values.Set("hints[ratingKey]", s.Hints.RatingKey)
	values.Set("hints[title]", s.Hints.Title)
	values.Set("hints[type]", s.Hints.Type)

	values.Set("params[airingChannels]", s.Params.AiringChannels)
	values.Set("params[airingTimes]", s.Params.AiringTimes)
	values.Set("params[libraryType]", s.Params.LibraryType)
	values.Set("params[mediaProviderID]", s.Params.MediaProviderID)

	values.Set("targetLibrarySectionID", s.TargetLibrarySectionID)
	values.Set("targetLibraryLocationID", s.TargetLibraryLocationID)
	values.Set("includeGrabs", strconv.Itoa(s.IncludeGrabs))

	return values
}
