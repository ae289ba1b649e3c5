package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/recordarr/recordarr/internal/models"
	"github.com/recordarr/recordarr/internal/services/plex"
	"github.com/sirupsen/logrus"
)

// Fixed recording offsets applied to every subscription
const (
	startOffsetMinutes = 0
	endOffsetMinutes   = 4
)

// requiredSettings are the template defaults every subscription needs
var requiredSettings = []string{
	"minVideoQuality",
	"replaceLowerQuality",
	"recordPartials",
	"comskipEnabled",
	"comskipMethod",
	"oneShot",
	"remoteMedia",
}

// RecordController turns a due broadcast into a recording subscription
type RecordController struct {
	plex      *plex.Client
	db        *models.Database
	libraries Libraries
	logger    *logrus.Logger
}

// NewRecordController creates a new record controller
func NewRecordController(plexClient *plex.Client, db *models.Database, libraries Libraries, logger *logrus.Logger) *RecordController {
	return &RecordController{
		plex:      plexClient,
		db:        db,
		libraries: libraries,
		logger:    logger,
	}
}

// Schedule builds the subscription for a due broadcast and submits it. A
// submission failure is reported to the caller, not retried; the broadcast
// will be gone from the eligible set once the server accepts a later
// attempt or the airing starts.
func (c *RecordController) Schedule(ctx context.Context, broadcast *plex.Broadcast) error {
	sub, template, err := c.buildSubscription(ctx, broadcast)
	if err != nil {
		return err
	}

	if err := c.plex.CreateSubscription(ctx, sub); err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"title":   broadcast.ShowTitle(),
		"guid":    broadcast.GUID,
		"channel": sub.Prefs.LineupChannel,
		"library": sub.TargetLibrarySectionID,
	}).Info("Created recording subscription")

	c.journal(broadcast, sub, template)
	return nil
}

// buildSubscription assembles the outbound request from the broadcast's
// first airing, its subscription template, and the resolved libraries
func (c *RecordController) buildSubscription(ctx context.Context, broadcast *plex.Broadcast) (*plex.Subscription, *plex.SubscriptionTemplate, error) {
	if len(broadcast.Media) == 0 {
		return nil, nil, fmt.Errorf("broadcast %s has no media", broadcast.GUID)
	}
	airing := broadcast.Media[0]

	templates, err := c.plex.GetSubscriptionTemplates(ctx, broadcast.GUID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch subscription template: %w", err)
	}
	if len(templates) == 0 {
		return nil, nil, fmt.Errorf("subscription template for %s has no media", broadcast.GUID)
	}
	template := templates[0]

	defaults := make(map[string]string, len(requiredSettings))
	for _, name := range requiredSettings {
		value, err := template.SettingDefault(name)
		if err != nil {
			return nil, nil, err
		}
		defaults[name] = value
	}

	targetLibrary := c.targetLibraryID(template.Type)

	sub := &plex.Subscription{
		Prefs: plex.SubscriptionPrefs{
			MinVideoQuality:     defaults["minVideoQuality"],
			ReplaceLowerQuality: defaults["replaceLowerQuality"],
			RecordPartials:      defaults["recordPartials"],
			StartOffsetMinutes:  startOffsetMinutes,
			EndOffsetMinutes:    endOffsetMinutes,
			LineupChannel:       airing.ChannelIdentifier,
			StartTimeslot:       airing.BeginsAt,
			ComskipEnabled:      defaults["comskipEnabled"],
			ComskipMethod:       defaults["comskipMethod"],
			OneShot:             defaults["oneShot"],
			RemoteMedia:         defaults["remoteMedia"],
		},
		Hints:                   template.Hints,
		Params:                  template.Params,
		TargetLibrarySectionID:  targetLibrary,
		TargetLibraryLocationID: targetLibrary,
		IncludeGrabs:            1,
	}

	return sub, &template, nil
}

// targetLibraryID resolves the template's numeric type code to one of the
// two working library ids
func (c *RecordController) targetLibraryID(code int) string {
	if models.LibraryForTemplateType(code) == models.TargetLibraryFilm {
		return c.libraries.Film
	}
	return c.libraries.TV
}

// journal records the created subscription in the history store. Failures
// here only cost audit data, never the recording itself.
func (c *RecordController) journal(broadcast *plex.Broadcast, sub *plex.Subscription, template *plex.SubscriptionTemplate) {
	rec := &models.Recording{
		GUID:          broadcast.GUID,
		Title:         broadcast.ShowTitle(),
		Kind:          models.KindOf(broadcast.Type),
		Library:       models.LibraryForTemplateType(template.Type),
		LibraryID:     sub.TargetLibrarySectionID,
		LineupChannel: sub.Prefs.LineupChannel,
		AiringStart:   time.Unix(sub.Prefs.StartTimeslot, 0),
	}

	if err := c.db.CreateRecording(rec); err != nil {
		c.logger.WithError(err).WithField("guid", broadcast.GUID).Error("Failed to journal recording")
	}
}
