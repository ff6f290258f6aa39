package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestFilterDocument(t *testing.T) {
	t.Parallel()

	t.Run("empty filter matches everything", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, bson.D{}, filterDocument(Filter{}))
	})

	t.Run("all fields", func(t *testing.T) {
		t.Parallel()
		minRating, maxRating := 2, 4
		got := filterDocument(Filter{
			ApplicationName: "web",
			FeatureName:     "checkout",
			Type:            TypeBug,
			MinRating:       &minRating,
			MaxRating:       &maxRating,
			Limit:           10,
		})

		assert.Equal(t, bson.D{
			{Key: "context.applicationName", Value: "web"},
			{Key: "context.featureName", Value: "checkout"},
			{Key: "feedback.type", Value: TypeBug},
			{Key: "feedback.rating", Value: bson.D{{Key: "$gte", Value: 2}, {Key: "$lte", Value: 4}}},
		}, got)
	})
}
