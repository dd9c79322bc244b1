package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inventra/internal/core/entity"
	"inventra/internal/core/id"
)

type mockCatalog struct {
	entity.Catalog
	ContactNumber string `db:"contact_number" json:"contactNumber"`
	Internal      string `db:"-" json:"-"`
	Untagged      string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expected := []string{"id", "deletion_mark", "version", "code", "name", "contact_number"}
	for _, col := range expected {
		assert.Contains(t, cols, col)
	}

	assert.NotContains(t, cols, "-")
	assert.Len(t, cols, len(expected))
}

func TestStructToMap(t *testing.T) {
	cat := mockCatalog{
		Catalog: entity.Catalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
			Code: "TEST",
			Name: "Test Name",
		},
		ContactNumber: "+1-202-555-0100",
		Internal:      "skip me",
		Untagged:      "skip me too",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "TEST", m["code"])
	assert.Equal(t, "Test Name", m["name"])
	assert.Equal(t, "+1-202-555-0100", m["contact_number"])
	assert.Len(t, m, 6)
}

func TestStructToMap_Pointer(t *testing.T) {
	cat := &mockCatalog{
		Catalog: entity.Catalog{Code: "PTR"},
	}

	m := StructToMap(cat)
	assert.Equal(t, "PTR", m["code"])
}
