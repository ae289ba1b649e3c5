package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/recordarr/recordarr/internal/config"
	"github.com/recordarr/recordarr/internal/services/plex"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestPlexClient(t *testing.T, handler http.Handler) *plex.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := plex.NewClient(&config.Config{
		PlexURL:             srv.URL,
		PlexToken:           "test-token",
		MaxInflightRequests: 5,
	}, testLogger())
	if err != nil {
		t.Fatalf("Failed to create plex client: %v", err)
	}
	return client
}

func TestPickLibrary(t *testing.T) {
	dirs := []plex.LibraryDirectory{
		{Type: plex.DirectoryTypeMovie, ID: "1"},
		{Type: plex.DirectoryTypeShow, ID: "2"},
		{Type: plex.DirectoryTypeShow, ID: "5"},
		{Type: "photo", ID: "3"},
	}

	cases := []struct {
		name      string
		dirType   string
		preferred string
		wantID    string
		wantOK    bool
	}{
		{"first show by default", plex.DirectoryTypeShow, "", "2", true},
		{"preferred show honored", plex.DirectoryTypeShow, "5", "5", true},
		{"unknown preferred falls back to first", plex.DirectoryTypeShow, "9", "2", true},
		{"movie category", plex.DirectoryTypeMovie, "", "1", true},
		{"missing category", "music", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := pickLibrary(dirs, tc.dirType, tc.preferred)
			if ok != tc.wantOK {
				t.Fatalf("ok mismatch: got %v", ok)
			}
			if id != tc.wantID {
				t.Errorf("Expected id %q, got %q", tc.wantID, id)
			}
		})
	}
}

const providersJSON = `{"MediaContainer":{"MediaProvider":[
	{"identifier":"com.plexapp.plugins.library","title":"Library","Feature":[
		{"key":"/library/sections","type":"content","Directory":[
			{"type":"movie","id":"1"},
			{"type":"show","id":"2"}
		]}
	]}
]}}`

func TestResolveLibraries(t *testing.T) {
	client := newTestPlexClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(providersJSON))
	}))

	libraries, err := NewLibraryController(client, testLogger()).Resolve(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if libraries.TV != "2" {
		t.Errorf("Expected TV library '2', got '%s'", libraries.TV)
	}
	if libraries.Film != "1" {
		t.Errorf("Expected film library '1', got '%s'", libraries.Film)
	}
}

func TestResolveLibrariesMissingCategory(t *testing.T) {
	client := newTestPlexClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"MediaContainer":{"MediaProvider":[
			{"identifier":"com.plexapp.plugins.library","title":"Library","Feature":[
				{"key":"/library/sections","type":"content","Directory":[{"type":"movie","id":"1"}]}
			]}
		]}}`))
	}))

	if _, err := NewLibraryController(client, testLogger()).Resolve(context.Background(), "", ""); err == nil {
		t.Error("Expected error when the TV category has no directories")
	}
}
