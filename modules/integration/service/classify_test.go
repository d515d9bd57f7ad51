package service

import (
	"testing"

	"venue-crm/modules/integration/entity"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEventType(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Zoom call with Acme Concessions", entity.EventTypeVideo},
		{"Video check-in", entity.EventTypeVideo},
		{"Google Meet: pricing review", entity.EventTypeVideo},
		{"Teams standup", entity.EventTypeVideo},
		{"Webinar on stadium catering", entity.EventTypeVideo},
		{"Phone call with operator", entity.EventTypeCall},
		{"Quick call", entity.EventTypeCall},
		{"CALL RE: contract", entity.EventTypeCall},
		{"Quarterly planning meeting", entity.EventTypeMeeting},
		{"Lunch with venue manager", entity.EventTypeMeeting},
		{"", entity.EventTypeMeeting},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyEventType(tt.title))
		})
	}
}

func TestExtractMeetingLink(t *testing.T) {
	t.Run("prefers hangout link", func(t *testing.T) {
		ev := &GoogleEvent{
			HangoutLink: "https://meet.google.com/abc",
			ConferenceData: &GoogleConferenceData{
				EntryPoints: []GoogleConferenceEntryPoint{{EntryPointType: "video", URI: "https://zoom.us/j/123"}},
			},
		}
		link := ExtractMeetingLink(ev)
		assert.NotNil(t, link)
		assert.Equal(t, "https://meet.google.com/abc", *link)
	})

	t.Run("falls back to video entry point", func(t *testing.T) {
		ev := &GoogleEvent{
			ConferenceData: &GoogleConferenceData{
				EntryPoints: []GoogleConferenceEntryPoint{
					{EntryPointType: "phone", URI: "tel:+15551234567"},
					{EntryPointType: "video", URI: "https://zoom.us/j/123"},
				},
			},
		}
		link := ExtractMeetingLink(ev)
		assert.NotNil(t, link)
		assert.Equal(t, "https://zoom.us/j/123", *link)
	})

	t.Run("no link", func(t *testing.T) {
		assert.Nil(t, ExtractMeetingLink(&GoogleEvent{}))
	})
}
