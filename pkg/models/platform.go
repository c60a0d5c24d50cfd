package models

// Platform identifies a social media destination for finished videos.
type Platform string

const (
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
)

// DefaultPlatforms is the fan-out order used when a workflow does not
// supply its own platform subset.
func DefaultPlatforms() []Platform {
	return []Platform{PlatformYouTube, PlatformInstagram, PlatformTikTok}
}

// Valid reports whether the platform is one of the supported destinations.
func (p Platform) Valid() bool {
	switch p {
	case PlatformTikTok, PlatformInstagram, PlatformYouTube:
		return true
	}

	return false
}
