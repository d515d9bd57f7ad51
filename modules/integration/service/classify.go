package service

import (
	"regexp"
	"strings"

	"venue-crm/modules/integration/entity"
)

var (
	videoKeywords = regexp.MustCompile(`\b(video|zoom|meet|teams|webinar)\b`)
	callKeywords  = regexp.MustCompile(`\b(call|phone)\b`)
)

// ClassifyEventType guesses an event type from its title. Video keywords win
// over call keywords so "Zoom call with Acme" lands on video. Word boundaries
// keep "meeting" from matching the Google Meet keyword.
func ClassifyEventType(title string) string {
	lowered := strings.ToLower(title)
	switch {
	case videoKeywords.MatchString(lowered):
		return entity.EventTypeVideo
	case callKeywords.MatchString(lowered):
		return entity.EventTypeCall
	default:
		return entity.EventTypeMeeting
	}
}

// ExtractMeetingLink pulls a join URL out of a Google event, preferring the
// hangout link over conference entry points.
func ExtractMeetingLink(ev *GoogleEvent) *string {
	if ev.HangoutLink != "" {
		link := ev.HangoutLink
		return &link
	}
	if ev.ConferenceData != nil {
		for _, ep := range ev.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" && ep.URI != "" {
				link := ep.URI
				return &link
			}
		}
	}
	return nil
}
