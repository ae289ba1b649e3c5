package models

// MediaKind represents the kind of content a grid entry describes
type MediaKind string

const (
	MediaKindMovie MediaKind = "movie"
	MediaKindShow  MediaKind = "show"
	MediaKindOther MediaKind = "other"
)

// KindOf normalizes a raw grid metadata type string to a MediaKind
func KindOf(raw string) MediaKind {
	switch raw {
	case "movie":
		return MediaKindMovie
	case "show":
		return MediaKindShow
	default:
		return MediaKindOther
	}
}

// TargetLibrary represents which resolved library a recording is filed under
type TargetLibrary string

const (
	TargetLibraryFilm TargetLibrary = "film"
	TargetLibraryTV   TargetLibrary = "tv"
)

// LibraryForTemplateType maps the numeric type code carried by a
// subscription template to the target library. Type code 1 means film,
// everything else records into the TV library. This mapping is fixed by the
// Plex DVR API and is not configurable.
func LibraryForTemplateType(code int) TargetLibrary {
	if code == 1 {
		return TargetLibraryFilm
	}
	return TargetLibraryTV
}
