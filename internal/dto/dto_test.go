package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/event-management-api/internal/models"
)

func TestToEventDTO_AvailableSeats(t *testing.T) {
	event := models.Event{ID: 1, Name: "Semana", Capacity: 3, ConfirmedCount: 2, OrganizerID: 7}
	dto := ToEventDTO(event)
	assert.Equal(t, int64(1), dto.AvailableSeats)
	assert.Nil(t, dto.Organizer)

	event.ConfirmedCount = 5
	assert.Zero(t, ToEventDTO(event).AvailableSeats)
}

func TestToEventListResponse(t *testing.T) {
	resp := ToEventListResponse([]models.Event{{ID: 1}, {ID: 2}}, 1, 2, 5)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Len(t, resp.Events, 2)
}

func TestParticipantEventJSON(t *testing.T) {
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	resp := ToParticipantEventListResponse([]models.Registration{{
		ID:     10,
		Status: models.RegistrationStatusConfirmed,
		Event:  models.Event{ID: 3, Name: "Congresso", StartDate: start},
	}}, 1, 10, 1)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	events := body["eventos"].([]any)
	require.Len(t, events, 1)
	item := events[0].(map[string]any)
	assert.Equal(t, "Congresso", item["nome"])
	assert.Equal(t, "confirmada", item["inscricao_status"])
	assert.EqualValues(t, 10, item["inscricao_id"])
}

func TestToCertificateVerificationDTO(t *testing.T) {
	cert := models.Certificate{
		Code: "AAAA-BBBB-CCCC",
		Registration: models.Registration{
			User:  models.User{ID: 1, Name: "Ana"},
			Event: models.Event{ID: 2, Name: "Semana", Organizer: models.User{ID: 3, Name: "Carlos"}},
		},
	}
	v := ToCertificateVerificationDTO(cert)
	assert.True(t, v.Valid)
	assert.Equal(t, "Ana", v.ParticipantName)
	assert.Equal(t, "Carlos", v.OrganizerName)

	dto := ToCertificateDTO(cert)
	require.NotNil(t, dto.Participant)
	require.NotNil(t, dto.Event)
	assert.Equal(t, "Semana", dto.Event.Name)
}
