package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventra/internal/core/apperror"
)

func newTestRepo() *BaseCatalogRepo[any] {
	return NewBaseCatalogRepo[any](nil, "test_table", []string{"id", "code", "name", "brand"}, func() any { return nil })
}

func TestParseOrderBy(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "default", orderBy: "", want: "name ASC"},
		{name: "plain field", orderBy: "code", want: "code ASC"},
		{name: "descending", orderBy: "-created_at", want: "created_at DESC"},
		{name: "explicit ascending", orderBy: "+brand", want: "brand ASC"},
		{name: "unknown field", orderBy: "password", wantErr: true},
		{name: "bare minus", orderBy: "-", wantErr: true},
		{name: "injection attempt", orderBy: "name; DROP TABLE test_table", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.orderBy)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsAppError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPoolSelect_QueryShape(t *testing.T) {
	repo := NewProductRepo(nil)

	sql, args, err := repo.poolSelect("Wireless Mouse", "Logi").ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM cat_products")
	assert.Contains(t, sql, "name = $")
	assert.Contains(t, sql, "brand = $")
	assert.Contains(t, sql, "deletion_mark = $")
	assert.Contains(t, sql, "ORDER BY id ASC")
	assert.Contains(t, args, "Wireless Mouse")
	assert.Contains(t, args, "Logi")
}

func TestPoolSelect_ForUpdateSuffix(t *testing.T) {
	repo := NewProductRepo(nil)

	sql, _, err := repo.poolSelect("X", "Y").Suffix("FOR UPDATE").ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FOR UPDATE")
}
