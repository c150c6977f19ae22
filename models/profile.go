package models

// Profile is a musician's public profile. Profile-field editing lives
// in a separate service; this one only reads profiles for discovery and
// for resolving the authenticated actor.
type Profile struct {
	Model
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	Instrument  string `json:"instrument"`
	Genres      string `json:"genres"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}
