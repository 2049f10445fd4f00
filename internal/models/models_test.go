package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_DecodeHackNight(t *testing.T) {
	raw := `{"_id":"42","eventName":"Hack Night","poster":"http://x/p.png","mode":"Online","venue":"Zoom",
		"registrationStartDate":"2024-01-01","registrationEndDate":"2024-01-10","price":0,
		"tags":["tech","free"],"startTime":"18:00","endTime":"21:00",
		"contactPersonEmail":"a@b.com","contactPersonPhone":"555-0100","description":"<p>Fun</p>"}`

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))

	assert.Equal(t, "42", ev.ID)
	assert.Equal(t, "Hack Night", ev.Name)
	assert.Equal(t, Tags{"tech", "free"}, ev.Tags)
	assert.Equal(t, "555-0100", ev.ContactPhone)
	assert.Equal(t, 0.0, ev.Price)
}

func TestTags_UnmarshalVariants(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Tags
	}{
		{"array", `["a","b"]`, Tags{"a", "b"}},
		{"duplicates keep first order", `["b","a","b"," a "]`, Tags{"b", "a"}},
		{"comma string", `"music, live ,,music"`, Tags{"music", "live"}},
		{"empty string", `""`, Tags{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got Tags
			require.NoError(t, json.Unmarshal([]byte(tc.in), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTags_UnmarshalRejectsNumbers(t *testing.T) {
	var got Tags
	err := json.Unmarshal([]byte(`42`), &got)
	assert.Error(t, err)
}

func TestClub_DecodeNestedCollege(t *testing.T) {
	raw := `{"_id":"c1","clubName":"Robotics","email":"r@u.edu","location":"Pune","collegeId":{"_id":"u1","name":"COEP"}}`

	var c Club
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, "COEP", c.College.Name)
	assert.Equal(t, "Robotics", c.Name)
}
