package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnuragSingh014/castle-backend/models"
)

func TestCompletionStatusResponseEnvelope(t *testing.T) {
	dashboard := &models.Dashboard{
		UserID: primitive.NewObjectID(),
		Sections: map[string]interface{}{
			"information": bson.M{"companyName": "Acme Industries"},
		},
		CompletionPercentage: 10,
	}

	resp := completionStatusResponse(dashboard)
	assert.Equal(t, true, resp["success"])

	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 10, data["completionPercentage"])
	assert.Equal(t, false, data["isComplete"])

	breakdown, ok := data["sections"].([]models.SectionMeta)
	require.True(t, ok)
	require.Len(t, breakdown, 10)
	for _, meta := range breakdown {
		if meta.Component == "information" {
			assert.True(t, meta.IsComplete)
		} else {
			assert.False(t, meta.IsComplete, meta.Component)
		}
	}
}

func TestPayloadSize(t *testing.T) {
	tests := []struct {
		name    string
		payload interface{}
		want    int
	}{
		{"object key count", bson.M{"a": 1, "b": 2, "c": 3}, 3},
		{"plain map", map[string]interface{}{"a": 1}, 1},
		{"driver document", bson.D{{Key: "a", Value: 1}, {Key: "b", Value: 2}}, 2},
		{"list length", []interface{}{"x", "y"}, 2},
		{"driver array", bson.A{"x"}, 1},
		{"empty object", bson.M{}, 0},
		{"nil", nil, 0},
		{"scalar", "hello", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, payloadSize(tt.payload))
		})
	}
}

func TestSectionWriteAuditMetaCarriesSize(t *testing.T) {
	payload := bson.M{"companyName": "Acme Industries", "industry": "Manufacturing"}
	entry := models.NewAuditEntry(models.ActorUser, "u1", "update_information",
		bson.M{"size": payloadSize(payload)})

	assert.Equal(t, models.ActorUser, entry.ActorType)
	assert.Equal(t, "update_information", entry.Action)
	assert.Equal(t, bson.M{"size": 2}, entry.Meta)
	assert.False(t, entry.At.IsZero())
}
