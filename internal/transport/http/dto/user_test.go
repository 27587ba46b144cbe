package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-admin/internal/domain"
)

func TestNewListUsersResponse_JSONShape(t *testing.T) {
	users := []domain.UserSummary{
		{ID: 1, Name: "Admin User", Email: "admin@example.com", Roles: []string{"admin"}},
	}
	body, err := json.Marshal(NewListUsersResponse("http://localhost/users", 1, 10, 1, users))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))

	data := got["data"].([]any)
	require.Len(t, data, 1)
	first := data[0].(map[string]any)
	assert.Equal(t, "admin@example.com", first["email"])
	assert.Equal(t, []any{"admin"}, first["roles"])
	assert.NotContains(t, first, "password")

	meta := got["meta"].(map[string]any)
	assert.EqualValues(t, 1, meta["current_page"])
	assert.EqualValues(t, 1, meta["last_page"])
	assert.EqualValues(t, 10, meta["per_page"])
	assert.EqualValues(t, 1, meta["total"])
	assert.Len(t, meta["links"], 3)

	links := got["links"].(map[string]any)
	assert.Nil(t, links["prev"])
	assert.Nil(t, links["next"])
	assert.Equal(t, "http://localhost/users?page=1", links["first"])
}

func TestNewListUsersResponse_EmptyDataIsArray(t *testing.T) {
	body, err := json.Marshal(NewListUsersResponse("/users", 4, 10, 3, nil))
	require.NoError(t, err)

	assert.Contains(t, string(body), `"data":[]`)
	assert.Contains(t, string(body), `"current_page":4`)
	assert.Contains(t, string(body), `"last_page":1`)
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "api error: status 500", (&APIError{Status: 500}).Error())
	assert.Equal(t, "api error: status 422: bad", (&APIError{Status: 422, Message: "bad"}).Error())
}
