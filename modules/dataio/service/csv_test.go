package service

import (
	"strings"
	"testing"

	contactentity "venue-crm/modules/contact/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contactHeader = "org_type,org_id,first_name,last_name,title,email,phone,notes"

func TestParseContactsCSVCollectsRowErrors(t *testing.T) {
	orgID := uuid.New()
	csvData := strings.Join([]string{
		contactHeader,
		"venue," + orgID.String() + ",Jane,Doe,GM,jane@example.com,555-0100,",
		"restaurant," + orgID.String() + ",Bob,Smith,,,,",
		"venue,not-a-uuid,Amy,Lee,,,,",
		"venue," + orgID.String() + ",,,,,,",
		"operator," + orgID.String() + ",Sam,,,sam@example.com,,likes beer stands",
	}, "\n")

	contacts, rowErrors, err := parseContactsCSV(csvData)
	require.NoError(t, err)

	require.Len(t, contacts, 2)
	assert.Equal(t, "Jane", contacts[0].FirstName)
	assert.Equal(t, "venue", contacts[0].OrgType)
	assert.Equal(t, orgID, contacts[0].OrgID)
	require.NotNil(t, contacts[0].Email)
	assert.Equal(t, "jane@example.com", *contacts[0].Email)
	assert.Nil(t, contacts[0].Notes)

	assert.Equal(t, "Sam", contacts[1].FirstName)
	require.NotNil(t, contacts[1].Notes)
	assert.Equal(t, "likes beer stands", *contacts[1].Notes)

	require.Len(t, rowErrors, 3)
	assert.Equal(t, 3, rowErrors[0].Row)
	assert.Contains(t, rowErrors[0].Message, "org_type")
	assert.Equal(t, 4, rowErrors[1].Row)
	assert.Contains(t, rowErrors[1].Message, "org_id")
	assert.Equal(t, 5, rowErrors[2].Row)
	assert.Contains(t, rowErrors[2].Message, "required")
}

func TestParseContactsCSVRejectsBadHeader(t *testing.T) {
	_, _, err := parseContactsCSV("name,email\nJane,jane@example.com")
	require.Error(t, err)
}

func TestParseContactsCSVEmptyBody(t *testing.T) {
	contacts, rowErrors, err := parseContactsCSV(contactHeader)
	require.NoError(t, err)
	assert.Empty(t, contacts)
	assert.Empty(t, rowErrors)
}

func TestParseVenuesCSV(t *testing.T) {
	csvData := strings.Join([]string{
		"name,slug,city,state,capacity,venue_type,notes",
		"Memorial Stadium,memorial-stadium,Lincoln,NE,85458,stadium,",
		",orphan-slug,Nowhere,KS,100,arena,",
		"Tiny Hall,tiny-hall,Austin,TX,not-a-number,theater,",
		"Harbor Amphitheater,,,,,,outdoor",
	}, "\n")

	venues, rowErrors, err := parseVenuesCSV(csvData)
	require.NoError(t, err)

	require.Len(t, venues, 2)
	assert.Equal(t, "Memorial Stadium", venues[0].Name)
	require.NotNil(t, venues[0].Capacity)
	assert.Equal(t, 85458, *venues[0].Capacity)
	assert.Equal(t, "Harbor Amphitheater", venues[1].Name)
	assert.Nil(t, venues[1].Capacity)

	require.Len(t, rowErrors, 2)
	assert.Equal(t, 3, rowErrors[0].Row)
	assert.Contains(t, rowErrors[0].Message, "name")
	assert.Equal(t, 4, rowErrors[1].Row)
	assert.Contains(t, rowErrors[1].Message, "capacity")
}

func TestContactsCSVRoundTrip(t *testing.T) {
	orgID := uuid.New()
	title := "Director of F&B"
	in := []contactentity.Contact{
		{OrgType: "concessionaire", OrgID: orgID, FirstName: "Jane", LastName: "Doe", Title: &title},
	}

	data, err := writeContactsCSV(in)
	require.NoError(t, err)

	out, rowErrors, err := parseContactsCSV(string(data))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, out, 1)
	assert.Equal(t, "Jane", out[0].FirstName)
	assert.Equal(t, orgID, out[0].OrgID)
	require.NotNil(t, out[0].Title)
	assert.Equal(t, title, *out[0].Title)
}
