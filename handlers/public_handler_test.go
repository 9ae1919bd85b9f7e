package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchNameFilterEscapesRegexMetacharacters(t *testing.T) {
	tests := []struct {
		search string
		want   string
	}{
		{"Acme", "Acme"},
		{"(", `\(`},
		{"a+b (pvt.)", `a\+b \(pvt\.\)`},
		{"50% co.", `50% co\.`},
	}
	for _, tt := range tests {
		filter := searchNameFilter(tt.search)
		assert.Equal(t, tt.want, filter["$regex"], tt.search)
		assert.Equal(t, "i", filter["$options"])
	}
}
