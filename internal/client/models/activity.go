// Package models holds the wire types exchanged with the backend.
package models

import "time"

type Activity struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Location     string    `json:"location"`
	StartsAt     time.Time `json:"starts_at"`
	Participants int       `json:"participants"`
	Capacity     int       `json:"capacity"`
	Joined       bool      `json:"joined"`
}

// Full reports whether no seat is left. Capacity 0 means unlimited.
func (a Activity) Full() bool {
	return a.Capacity > 0 && a.Participants >= a.Capacity
}

type JoinRequest struct {
	ProfileID int64 `json:"profile_id"`
}
