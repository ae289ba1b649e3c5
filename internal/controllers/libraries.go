package controllers

import (
	"context"
	"fmt"

	"github.com/recordarr/recordarr/internal/services/plex"
	"github.com/sirupsen/logrus"
)

// Libraries holds the resolved target library ids. They are resolved once
// at startup and immutable for the process lifetime.
type Libraries struct {
	TV   string
	Film string
}

// LibraryController resolves the working TV and film libraries
type LibraryController struct {
	plex   *plex.Client
	logger *logrus.Logger
}

// NewLibraryController creates a new library controller
func NewLibraryController(plexClient *plex.Client, logger *logrus.Logger) *LibraryController {
	return &LibraryController{
		plex:   plexClient,
		logger: logger,
	}
}

// Resolve maps the configured library preferences onto the server's library
// directories. For each category a configured id is used when the server
// has it, otherwise the first directory of that category wins. A category
// with no directory at all is a fatal configuration error: there is no safe
// default to record into.
func (c *LibraryController) Resolve(ctx context.Context, preferredTV, preferredFilm string) (Libraries, error) {
	dirs, err := c.plex.GetLibraryDirectories(ctx)
	if err != nil {
		return Libraries{}, fmt.Errorf("failed to list library directories: %w", err)
	}

	tvID, ok := pickLibrary(dirs, plex.DirectoryTypeShow, preferredTV)
	if !ok {
		return Libraries{}, fmt.Errorf("no matching TV show library found")
	}

	filmID, ok := pickLibrary(dirs, plex.DirectoryTypeMovie, preferredFilm)
	if !ok {
		return Libraries{}, fmt.Errorf("no matching film library found")
	}

	c.logger.WithFields(logrus.Fields{
		"tv_library":   tvID,
		"film_library": filmID,
	}).Debug("Resolved target libraries")

	return Libraries{TV: tvID, Film: filmID}, nil
}

// pickLibrary selects the library id for one directory type: the preferred
// id when present, else the first directory of that type in listing order
func pickLibrary(dirs []plex.LibraryDirectory, dirType, preferred string) (string, bool) {
	first := ""
	for _, dir := range dirs {
		if dir.Type != dirType || dir.ID == "" {
			continue
		}
		if preferred != "" && dir.ID == preferred {
			return dir.ID, true
		}
		if first == "" {
			first = dir.ID
		}
	}

	if first == "" {
		return "", false
	}
	return first, true
}
