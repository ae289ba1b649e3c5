package plex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
)

func sampleParameters() string {
	values := url.Values{}
	values.Set("hints[guid]", "plex://episode/abc")
	values.Set("hints[grandparentGuid]", "plex://show/def")
	values.Set("hints[grandparentTitle]", "Some Series")
	values.Set("hints[ratingKey]", "rk1")
	values.Set("hints[title]", "Pilot")
	values.Set("hints[type]", "4")
	values.Set("hints[index]", "1")
	values.Set("hints[parentIndex]", "1")
	values.Set("params[airingChannels]", "lineup-1%3DOne")
	values.Set("params[airingTimes]", "1700000000")
	values.Set("params[libraryType]", "2")
	values.Set("params[mediaProviderID]", "7")
	return values.Encode()
}

func TestDecodeTemplateParameters(t *testing.T) {
	hints, params, err := decodeTemplateParameters(sampleParameters())
	if err != nil {
		t.Fatalf("Failed to decode parameters: %v", err)
	}

	if hints.GUID != "plex://episode/abc" {
		t.Errorf("Hints guid mismatch: %s", hints.GUID)
	}
	if hints.GrandparentTitle != "Some Series" {
		t.Errorf("Hints grandparent title mismatch: %s", hints.GrandparentTitle)
	}
	if hints.Type != "4" {
		t.Errorf("Hints type mismatch: %s", hints.Type)
	}
	if params.AiringTimes != "1700000000" {
		t.Errorf("Params airing times mismatch: %s", params.AiringTimes)
	}
	if params.LibraryType != "2" {
		t.Errorf("Params library type mismatch: %s", params.LibraryType)
	}
	if params.MediaProviderID != "7" {
		t.Errorf("Params provider id mismatch: %s", params.MediaProviderID)
	}
}

func templateJSON(t *testing.T, templateType int, settings map[string]string) string {
	t.Helper()

	settingList := make([]TemplateSetting, 0, len(settings))
	for id, def := range settings {
		settingList = append(settingList, TemplateSetting{ID: id, Default: def})
	}
	settingJSON, err := json.Marshal(settingList)
	if err != nil {
		t.Fatalf("Failed to marshal settings: %v", err)
	}
	paramsJSON, err := json.Marshal(sampleParameters())
	if err != nil {
		t.Fatalf("Failed to marshal parameters: %v", err)
	}

	return fmt.Sprintf(`{"MediaContainer":{"SubscriptionTemplate":[{"MediaSubscription":[
		{"parameters":%s,"type":%d,"targetSectionLocationID":2,"Setting":%s}
	]}]}}`, paramsJSON, templateType, settingJSON)
}

func TestGetSubscriptionTemplates(t *testing.T) {
	var gotGUID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotGUID = r.URL.Query().Get("guid")
		fmt.Fprint(w, templateJSON(t, 1, map[string]string{
			"minVideoQuality": "0",
			"comskipEnabled":  "1",
		}))
	})

	templates, err := client.GetSubscriptionTemplates(context.Background(), "plex://episode/abc")
	if err != nil {
		t.Fatalf("GetSubscriptionTemplates failed: %v", err)
	}

	if gotGUID != "plex://episode/abc" {
		t.Errorf("GUID query mismatch: %s", gotGUID)
	}
	if len(templates) != 1 {
		t.Fatalf("Expected 1 template, got %d", len(templates))
	}

	template := templates[0]
	if template.Type != 1 {
		t.Errorf("Template type mismatch: %d", template.Type)
	}
	if template.Hints.GUID != "plex://episode/abc" {
		t.Errorf("Template hints not decoded: %+v", template.Hints)
	}

	quality, err := template.SettingDefault("minVideoQuality")
	if err != nil {
		t.Fatalf("SettingDefault failed: %v", err)
	}
	if quality != "0" {
		t.Errorf("Setting default mismatch: %s", quality)
	}
}

func TestGetSubscriptionTemplatesEmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"MediaContainer":{"SubscriptionTemplate":[]}}`))
	})

	if _, err := client.GetSubscriptionTemplates(context.Background(), "g"); err == nil {
		t.Error("Expected error for response without a template body")
	}
}

func TestSettingDefaultNotFound(t *testing.T) {
	template := SubscriptionTemplate{Settings: []TemplateSetting{{ID: "oneShot", Default: "1"}}}

	_, err := template.SettingDefault("comskipMethod")
	if err == nil {
		t.Fatal("Expected error for missing setting")
	}
	if err.Error() != "setting comskipMethod not found" {
		t.Errorf("Error message mismatch: %s", err.Error())
	}
}

func TestSubscriptionEncode(t *testing.T) {
	sub := &Subscription{
		Prefs: SubscriptionPrefs{
			MinVideoQuality:     "0",
			ReplaceLowerQuality: "false",
			RecordPartials:      "false",
			StartOffsetMinutes:  0,
			EndOffsetMinutes:    4,
			LineupChannel:       "lineup-1",
			StartTimeslot:       1700000000,
			ComskipEnabled:      "1",
			ComskipMethod:       "intermediate",
			OneShot:             "true",
			RemoteMedia:         "false",
		},
		Hints: SubscriptionHints{
			GUID:      "plex://movie/abc",
			RatingKey: "rk1",
			Title:     "Late Movie",
			Type:      "1",
		},
		Params: SubscriptionParams{
			AiringChannels:  "lineup-1%3DOne",
			AiringTimes:     "1700000000",
			LibraryType:     "1",
			MediaProviderID: "7",
		},
		TargetLibrarySectionID:  "1",
		TargetLibraryLocationID: "1",
		IncludeGrabs:            1,
	}

	values := sub.encode()

	checks := map[string]string{
		"prefs[minVideoQuality]":    "0",
		"prefs[startOffsetMinutes]": "0",
		"prefs[endOffsetMinutes]":   "4",
		"prefs[lineupChannel]":      "lineup-1",
		"prefs[startTimeslot]":      "1700000000",
		"hints[guid]":               "plex://movie/abc",
		"params[mediaProviderID]":   "7",
		"targetLibrarySectionID":    "1",
		"targetLibraryLocationID":   "1",
		"includeGrabs":              "1",
	}
	for key, expected := range checks {
		if got := values.Get(key); got != expected {
			t.Errorf("Expected %s=%s, got %s", key, expected, got)
		}
	}

	// Empty optional hints must not be emitted
	if _, ok := values["hints[grandparentGuid]"]; ok {
		t.Error("Empty grandparent guid should be omitted")
	}
}

func TestCreateSubscription(t *testing.T) {
	var gotMethod string
	var gotQuery url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusOK)
	})

	sub := &Subscription{
		Prefs:                   SubscriptionPrefs{LineupChannel: "lineup-1", StartTimeslot: 1700000000},
		Hints:                   SubscriptionHints{GUID: "g1", RatingKey: "rk1", Title: "T", Type: "1"},
		TargetLibrarySectionID:  "2",
		TargetLibraryLocationID: "2",
		IncludeGrabs:            1,
	}

	if err := client.CreateSubscription(context.Background(), sub); err != nil {
		t.Fatalf("CreateSubscription failed: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("Expected POST, got %s", gotMethod)
	}
	if gotQuery.Get("targetLibrarySectionID") != "2" {
		t.Errorf("Target library missing from query: %v", gotQuery)
	}
	if gotQuery.Get("X-Plex-Token") != "test-token" {
		t.Error("Token missing from subscription request")
	}
}
