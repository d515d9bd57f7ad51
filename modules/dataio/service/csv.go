package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	contactentity "venue-crm/modules/contact/entity"
	"venue-crm/modules/dataio/dto"
	directorydto "venue-crm/modules/directory/dto"
	directoryentity "venue-crm/modules/directory/entity"

	"github.com/google/uuid"
)

var (
	contactCSVHeader = []string{"org_type", "org_id", "first_name", "last_name", "title", "email", "phone", "notes"}
	venueCSVHeader   = []string{"name", "slug", "city", "state", "capacity", "venue_type", "notes"}
)

// parseContactsCSV reads contact rows, collecting per-row errors instead of
// aborting: a bad row must not block the rest of the file. Row numbers are
// 1-based counting the header.
func parseContactsCSV(data string) ([]contactentity.Contact, []dto.RowError, error) {
	reader := csv.NewReader(strings.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	if err := validateHeader(header, contactCSVHeader); err != nil {
		return nil, nil, err
	}

	var (
		contacts  []contactentity.Contact
		rowErrors []dto.RowError
		rowNum    = 1
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			rowErrors = append(rowErrors, dto.RowError{Row: rowNum, Message: err.Error()})
			continue
		}

		contact, rowErr := contactFromRecord(record)
		if rowErr != "" {
			rowErrors = append(rowErrors, dto.RowError{Row: rowNum, Message: rowErr})
			continue
		}
		contacts = append(contacts, contact)
	}
	return contacts, rowErrors, nil
}

func contactFromRecord(record []string) (contactentity.Contact, string) {
	var c contactentity.Contact
	if len(record) != len(contactCSVHeader) {
		return c, fmt.Sprintf("expected %d columns, got %d", len(contactCSVHeader), len(record))
	}

	orgType := strings.TrimSpace(record[0])
	switch orgType {
	case "venue", "operator", "concessionaire":
	default:
		return c, fmt.Sprintf("invalid org_type %q", orgType)
	}

	orgID, err := uuid.Parse(strings.TrimSpace(record[1]))
	if err != nil {
		return c, fmt.Sprintf("invalid org_id %q", record[1])
	}

	first := strings.TrimSpace(record[2])
	last := strings.TrimSpace(record[3])
	if first == "" && last == "" {
		return c, "first_name or last_name is required"
	}

	c.OrgType = orgType
	c.OrgID = orgID
	c.FirstName = first
	c.LastName = last
	c.Title = optional(record[4])
	c.Email = optional(record[5])
	c.Phone = optional(record[6])
	c.Notes = optional(record[7])
	return c, ""
}

func writeContactsCSV(contacts []contactentity.Contact) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(contactCSVHeader); err != nil {
		return nil, err
	}
	for _, c := range contacts {
		record := []string{
			c.OrgType,
			c.OrgID.String(),
			c.FirstName,
			c.LastName,
			deref(c.Title),
			deref(c.Email),
			deref(c.Phone),
			deref(c.Notes),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// parseVenuesCSV reads venue rows using the same header writeVenuesCSV
// produces, so an exported file can be re-imported. The slug column is
// ignored; slugs are regenerated on create.
func parseVenuesCSV(data string) ([]directorydto.VenueRequest, []dto.RowError, error) {
	reader := csv.NewReader(strings.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	if err := validateHeader(header, venueCSVHeader); err != nil {
		return nil, nil, err
	}

	var (
		venues    []directorydto.VenueRequest
		rowErrors []dto.RowError
		rowNum    = 1
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			rowErrors = append(rowErrors, dto.RowError{Row: rowNum, Message: err.Error()})
			continue
		}

		venue, rowErr := venueFromRecord(record)
		if rowErr != "" {
			rowErrors = append(rowErrors, dto.RowError{Row: rowNum, Message: rowErr})
			continue
		}
		venues = append(venues, venue)
	}
	return venues, rowErrors, nil
}

func venueFromRecord(record []string) (directorydto.VenueRequest, string) {
	var v directorydto.VenueRequest
	if len(record) != len(venueCSVHeader) {
		return v, fmt.Sprintf("expected %d columns, got %d", len(venueCSVHeader), len(record))
	}

	name := strings.TrimSpace(record[0])
	if name == "" {
		return v, "name is required"
	}

	if raw := strings.TrimSpace(record[4]); raw != "" {
		capacity, err := strconv.Atoi(raw)
		if err != nil || capacity < 0 {
			return v, fmt.Sprintf("invalid capacity %q", raw)
		}
		v.Capacity = &capacity
	}

	v.Name = name
	v.City = optional(record[2])
	v.State = optional(record[3])
	v.VenueType = optional(record[5])
	v.Notes = optional(record[6])
	return v, ""
}

func writeVenuesCSV(venues []directoryentity.Venue) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(venueCSVHeader); err != nil {
		return nil, err
	}
	for _, v := range venues {
		capacity := ""
		if v.Capacity != nil {
			capacity = strconv.Itoa(*v.Capacity)
		}
		record := []string{
			v.Name,
			v.Slug,
			deref(v.City),
			deref(v.State),
			capacity,
			deref(v.VenueType),
			deref(v.Notes),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func validateHeader(got []string, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("expected header %v", want)
	}
	for i := range want {
		if strings.TrimSpace(strings.ToLower(got[i])) != want[i] {
			return fmt.Errorf("expected header %v", want)
		}
	}
	return nil
}

func optional(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
