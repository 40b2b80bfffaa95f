package validators

import (
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/recipebookhq/recipebook-backend/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParseQueryBool(t *testing.T) {
	tests := []struct {
		query   string
		want    bool
		wantErr bool
	}{
		{query: "", want: false},
		{query: "assigned_only=0", want: false},
		{query: "assigned_only=false", want: false},
		{query: "assigned_only=1", want: true},
		{query: "assigned_only=2", want: true},
		{query: "assigned_only=-1", want: true},
		{query: "assigned_only=00", want: false},
		{query: "assigned_only=true", want: true},
		{query: "assigned_only=yes", wantErr: true},
		{query: "assigned_only=1.5", wantErr: true},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/?"+tt.query, nil)
		got, err := ParseQueryBool(r, "assigned_only")
		if tt.wantErr {
			require.Error(t, err, "query %q", tt.query)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			require.Equal(t, pkgerrors.CodeValidation, typed.Code())
			continue
		}
		require.NoError(t, err, "query %q", tt.query)
		require.Equal(t, tt.want, got, "query %q", tt.query)
	}
}

func TestParseQueryIDList(t *testing.T) {
	r := httptest.NewRequest("GET", "/?tags=1,2,3", nil)
	ids, err := ParseQueryIDList(r, "tags")
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, ids)

	r = httptest.NewRequest("GET", "/?tags=", nil)
	ids, err = ParseQueryIDList(r, "tags")
	require.NoError(t, err)
	require.Nil(t, ids)

	for _, query := range []string{"tags=1,abc", "tags=0", "tags=-4", "tags=1,,2"} {
		r = httptest.NewRequest("GET", "/?"+query, nil)
		_, err = ParseQueryIDList(r, "tags")
		require.Error(t, err, "query %q", query)
	}
}
