package users

import "statebot/app/service/geo"

type Platform string

const (
	PlatformFacebook Platform = "fb"
)

// User is one conversation participant. The store owns the value; callers
// borrow it for the duration of one event and must not retain it.
type User struct {
	Platform       Platform
	ID             string
	MessageHistory []string
	State          string
	Coordinates    *geo.Coordinates
}

func NewUser(platform Platform, id string) *User {
	return &User{
		Platform: platform,
		ID:       id,
	}
}

func (u *User) AppendMessage(text string) {
	u.MessageHistory = append(u.MessageHistory, text)
}

func (u *User) AddCoordinates(lat, long float64) {
	u.Coordinates = &geo.Coordinates{Lat: lat, Long: long}
}
