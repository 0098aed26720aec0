package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildEventQueryDefaults(t *testing.T) {
	q, err := BuildEventQuery(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, bson.M{}, q.Filter)
	assert.Equal(t, bson.D{{Key: "date", Value: 1}}, q.Sort)
	assert.Nil(t, q.Projection)
	assert.Equal(t, int64(1), q.Page)
	assert.Equal(t, int64(100), q.Limit)
	assert.Equal(t, int64(0), q.Skip())
}

func TestBuildEventQueryPagination(t *testing.T) {
	q, err := BuildEventQuery(map[string]string{"page": "2", "limit": "10"})
	require.NoError(t, err)

	assert.Equal(t, int64(10), q.Skip())
	assert.Equal(t, int64(10), q.Limit)
}

func TestBuildEventQueryBadPagination(t *testing.T) {
	for _, params := range []map[string]string{
		{"page": "0"},
		{"page": "-3"},
		{"page": "abc"},
		{"limit": "0"},
		{"limit": "x"},
	} {
		_, err := BuildEventQuery(params)
		assert.Error(t, err, "params %v", params)
	}
}

func TestBuildEventQueryEqualityFilter(t *testing.T) {
	q, err := BuildEventQuery(map[string]string{"venue": "Nairobi", "eventType": "upcoming"})
	require.NoError(t, err)

	assert.Equal(t, "Nairobi", q.Filter["venue"])
	assert.Equal(t, "upcoming", q.Filter["eventType"])
}

func TestBuildEventQueryDateRange(t *testing.T) {
	q, err := BuildEventQuery(map[string]string{"date[gte]": "2025-06-01", "date[lt]": "2025-07-01"})
	require.NoError(t, err)

	sub, ok := q.Filter["date"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), sub["$gte"])
	assert.Equal(t, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), sub["$lt"])
}

func TestBuildEventQueryBadDate(t *testing.T) {
	_, err := BuildEventQuery(map[string]string{"date[gte]": "next tuesday"})
	assert.Error(t, err)
}

func TestBuildEventQueryRejectsUnknownField(t *testing.T) {
	_, err := BuildEventQuery(map[string]string{"password": "x"})
	assert.Error(t, err)

	_, err = BuildEventQuery(map[string]string{"title[regex]": "x"})
	assert.Error(t, err)
}

func TestBuildEventQuerySort(t *testing.T) {
	q, err := BuildEventQuery(map[string]string{"sort": "-date,title"})
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "date", Value: -1}, {Key: "title", Value: 1}}, q.Sort)

	_, err = BuildEventQuery(map[string]string{"sort": "secret"})
	assert.Error(t, err)
}

func TestBuildEventQueryProjection(t *testing.T) {
	q, err := BuildEventQuery(map[string]string{"fields": "title,date"})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"title": 1, "date": 1}, q.Projection)

	q, err = BuildEventQuery(map[string]string{"fields": "-description,-image"})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"description": 0, "image": 0}, q.Projection)
}

func TestBuildEventQueryProjectionRejected(t *testing.T) {
	_, err := BuildEventQuery(map[string]string{"fields": "password"})
	assert.Error(t, err)

	_, err = BuildEventQuery(map[string]string{"fields": "-secret"})
	assert.Error(t, err)

	_, err = BuildEventQuery(map[string]string{"fields": "title,-date"})
	assert.Error(t, err)
}
