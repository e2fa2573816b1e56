package domain

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrUsernameRequired = errors.New("username is required")
)

// Track is a catalog track passed through verbatim from Spotify.
type Track = json.RawMessage

type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Genres      []string  `json:"genres"`
	LikedSongs  []Track   `json:"likedSongs"`
	RecentSongs []Track   `json:"recentSongs"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Clone returns a deep copy so callers never share slices with a store.
func (u *User) Clone() *User {
	c := *u
	c.Genres = append([]string{}, u.Genres...)
	c.LikedSongs = cloneTracks(u.LikedSongs)
	c.RecentSongs = cloneTracks(u.RecentSongs)
	return &c
}

func cloneTracks(in []Track) []Track {
	out := make([]Track, len(in))
	for i, t := range in {
		out[i] = append(Track{}, t...)
	}
	return out
}
