package model

// Round is an admin-configured daily check-in window.
// Times are "HH:mm" in the application timezone, both ends inclusive.
type Round struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
