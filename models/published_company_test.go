package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDocumentListDecodesElementsAsMaps(t *testing.T) {
	in := PublishedCompany{
		Images: DocumentList{"plant.jpg", bson.M{"url": "line.jpg", "caption": "Line 2"}},
		BeneficialOwners: DocumentList{bson.M{
			"name":      "A. Founder",
			"stake":     40.0,
			"documents": []interface{}{bson.M{"filename": "id.pdf"}},
		}},
		CompanyReferences: DocumentList{bson.M{"name": "First Bank"}},
		LoanDetails:       DocumentList{bson.M{"lender": "First Bank", "amount": 5000000.0}},
	}

	raw, err := bson.Marshal(in)
	require.NoError(t, err)
	var out PublishedCompany
	require.NoError(t, bson.Unmarshal(raw, &out))

	require.Len(t, out.BeneficialOwners, 1)
	owner, ok := out.BeneficialOwners[0].(bson.M)
	require.Truef(t, ok, "owner should decode as a map, got %T", out.BeneficialOwners[0])
	assert.Equal(t, "A. Founder", owner["name"])

	// Documents nested inside an element normalize too.
	docs, ok := owner["documents"].([]interface{})
	require.True(t, ok)
	doc, ok := docs[0].(bson.M)
	require.Truef(t, ok, "nested document should decode as a map, got %T", docs[0])
	assert.Equal(t, "id.pdf", doc["filename"])

	// Scalar elements pass through untouched.
	require.Len(t, out.Images, 2)
	assert.Equal(t, "plant.jpg", out.Images[0])
	_, ok = out.Images[1].(bson.M)
	assert.True(t, ok)
}

func TestDocumentListMarshalsToJSONObjects(t *testing.T) {
	in := PublishedCompany{
		BeneficialOwners: DocumentList{bson.M{"name": "A. Founder"}},
	}
	raw, err := bson.Marshal(in)
	require.NoError(t, err)
	var out PublishedCompany
	require.NoError(t, bson.Unmarshal(raw, &out))

	encoded, err := json.Marshal(out.BeneficialOwners)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"A. Founder"}]`, string(encoded))
}
