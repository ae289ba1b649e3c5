package plex

// Library directory types as reported by the media providers listing
const (
	DirectoryTypeMovie = "movie"
	DirectoryTypeShow  = "show"
)

// Channel is a single DVR lineup channel; its ID keys grid queries
type Channel struct {
	ID string `json:"id"`
}

type channelsResponse struct {
	MediaContainer struct {
		Channel []Channel `json:"Channel"`
	} `json:"MediaContainer"`
}

// Airing is one scheduled airing of a broadcast on a channel
type Airing struct {
	ID                int64  `json:"id"`
	BeginsAt          int64  `json:"beginsAt"` // unix seconds
	EndsAt            int64  `json:"endsAt"`
	ChannelIdentifier string `json:"channelIdentifier"`
	ChannelTitle      string `json:"channelTitle"`
}

// Broadcast is a single grid entry: one show or movie airing on a channel.
// The subscription ID fields are set by the server when a recording already
// exists at episode or series level.
type Broadcast struct {
	RatingKey               string   `json:"ratingKey"`
	GUID                    string   `json:"guid"`
	Title                   string   `json:"title"`
	Type                    string   `json:"type"` // movie, show, ...
	GrandparentGUID         string   `json:"grandparentGuid,omitempty"`
	GrandparentTitle        string   `json:"grandparentTitle,omitempty"`
	GrandparentThumb        string   `json:"grandparentThumb,omitempty"`
	ParentGUID              string   `json:"parentGuid,omitempty"`
	ParentTitle             string   `json:"parentTitle,omitempty"`
	ParentIndex             *int64   `json:"parentIndex,omitempty"`
	Index                   *int64   `json:"index,omitempty"`
	Duration                int64    `json:"duration,omitempty"`
	OriginallyAvailableAt   string   `json:"originallyAvailableAt,omitempty"`
	SubscriptionID          string   `json:"subscriptionID,omitempty"`
	SubscriptionType        string   `json:"subscriptionType,omitempty"`
	GrandparentSubscription string   `json:"grandparentSubscriptionID,omitempty"`
	Media                   []Airing `json:"Media"`
}

// BeginsAt returns the effective start of the broadcast, taken from its
// first airing. Zero when the broadcast carries no airings.
func (b *Broadcast) BeginsAt() int64 {
	if len(b.Media) == 0 {
		return 0
	}
	return b.Media[0].BeginsAt
}

// ShowTitle returns the series title for episodes, the own title otherwise
func (b *Broadcast) ShowTitle() string {
	if b.GrandparentTitle != "" {
		return b.GrandparentTitle
	}
	return b.Title
}

// Scheduled reports whether a recording already exists for this broadcast,
// at either episode or series level
func (b *Broadcast) Scheduled() bool {
	return b.SubscriptionID != "" || b.GrandparentSubscription != ""
}

type gridResponse struct {
	MediaContainer struct {
		Metadata []Broadcast `json:"Metadata"`
	} `json:"MediaContainer"`
}

// LibraryDirectory describes where content of one type is stored
type LibraryDirectory struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type providerFeature struct {
	Key       string             `json:"key"`
	Type      string             `json:"type"`
	Directory []LibraryDirectory `json:"Directory"`
}

type mediaProvider struct {
	Identifier string            `json:"identifier"`
	Title      string            `json:"title"`
	Feature    []providerFeature `json:"Feature"`
}

type providersResponse struct {
	MediaContainer struct {
		MediaProvider []mediaProvider `json:"MediaProvider"`
	} `json:"MediaContainer"`
}

// TemplateSetting is one named default carried by a subscription template
type TemplateSetting struct {
	ID      string `json:"id"`
	Default string `json:"default"`
}

// SubscriptionTemplate is the server-provided recipe for recording one
// content guid: a numeric media type code, named defaults, and the opaque
// hints/params blocks already decoded from their wire encoding.
type SubscriptionTemplate struct {
	Type                    int
	TargetSectionLocationID int
	Settings                []TemplateSetting
	Hints                   SubscriptionHints
	Params                  SubscriptionParams
}

// SettingDefault looks up the default value of a named template setting
func (t *SubscriptionTemplate) SettingDefault(id string) (string, error) {
	for _, s := range t.Settings {
		if s.ID == id {
			return s.Default, nil
		}
	}
	return "", &SettingNotFoundError{ID: id}
}

// SettingNotFoundError reports a required template setting that is absent
type SettingNotFoundError struct {
	ID string
}

func (e *SettingNotFoundError) Error() string {
	return "setting " + e.ID + " not found"
}

type templateSubscription struct {
	Parameters              string            `json:"parameters"`
	Type                    int               `json:"type"`
	TargetSectionLocationID int               `json:"targetSectionLocationID"`
	Setting                 []TemplateSetting `json:"Setting"`
}

type templateResponse struct {
	MediaContainer struct {
		SubscriptionTemplate []struct {
			MediaSubscription []templateSubscription `json:"MediaSubscription"`
		} `json:"SubscriptionTemplate"`
	} `json:"MediaContainer"`
}

// SubscriptionHints is the identifying metadata block of a template. It is
// pass-through data: decoded from the template and copied verbatim into the
// outgoing subscription.
type SubscriptionHints struct {
	GrandparentGUID       string
	GrandparentThumb      string
	GrandparentTitle      string
	GUID                  string
	Index                 string
	OriginallyAvailableAt string
	ParentGUID            string
	ParentIndex           string
	ParentTitle           string
	RatingKey             string
	Title                 string
	Type                  string
}

// SubscriptionParams is the airing/provider parameter block of a template,
// pass-through like SubscriptionHints
type SubscriptionParams struct {
	AiringChannels  string
	AiringTimes     string
	LibraryType     string
	MediaProviderID string
}

// SubscriptionPrefs carries the recording preferences of a subscription:
// the seven template defaults plus the computed airing fields and the fixed
// start/end offsets.
type SubscriptionPrefs struct {
	MinVideoQuality     string
	ReplaceLowerQuality string
	RecordPartials      string
	StartOffsetMinutes  int
	EndOffsetMinutes    int
	LineupChannel       string
	StartTimeslot       int64
	ComskipEnabled      string
	ComskipMethod       string
	OneShot             string
	RemoteMedia         string
}

// Subscription is an outbound recording request
type Subscription struct {
	Prefs                   SubscriptionPrefs
	Hints                   SubscriptionHints
	Params                  SubscriptionParams
	TargetLibrarySectionID  string
	TargetLibraryLocationID string
	IncludeGrabs            int
}
