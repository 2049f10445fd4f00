package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Event struct {
	ID                    string  `json:"_id"`
	Name                  string  `json:"eventName"`
	Poster                string  `json:"poster"`
	Description           string  `json:"description"` // HTML
	Mode                  string  `json:"mode"`        // In-person / Online / Hybrid
	Venue                 string  `json:"venue"`
	RegistrationStartDate string  `json:"registrationStartDate"`
	RegistrationEndDate   string  `json:"registrationEndDate"`
	Price                 float64 `json:"price"`
	StartTime             string  `json:"startTime"`
	EndTime               string  `json:"endTime"`
	Tags                  Tags    `json:"tags"`
	ContactEmail          string  `json:"contactPersonEmail"`
	ContactPhone          string  `json:"contactPersonPhone"`
	ClubID                string  `json:"collegeRep"`
}

type College struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Club struct {
	ID       string  `json:"_id"`
	Name     string  `json:"clubName"`
	Email    string  `json:"email"`
	Location string  `json:"location"`
	Image    string  `json:"image"`
	College  College `json:"collegeId"`
}

type Registration struct {
	ID        string    `json:"_id"`
	EventID   string    `json:"eventId"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Tags is an ordered set of labels. The API sends either an array or a
// single comma separated string; duplicates and blanks are dropped on decode.
type Tags []string

func (t *Tags) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*t = NewTags(arr...)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = NewTags(strings.Split(s, ",")...)
		return nil
	}

	return fmt.Errorf("tags: expected string or []string, got %s", string(data))
}

func NewTags(raw ...string) Tags {
	seen := make(map[string]bool, len(raw))
	out := Tags{}
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
