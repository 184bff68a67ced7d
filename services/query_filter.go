package services

import (
	"query-hub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sort directions accepted by the listing endpoint. Anything other than
// SortAscending orders newest first.
const (
	SortAscending  = "asc"
	SortDescending = "desc"
)

// BuildListQuery translates listing parameters into a filter and sort.
//
// search matches product_name case-insensitively (the value is used as a
// regular expression, unescaped), filter matches product_brand exactly, and
// sort orders by currentDate. Absent parameters add nothing, so empty params
// match the whole collection in natural order.
func BuildListQuery(params models.ListParams) models.ListQuery {
	filter := bson.M{}
	if params.Search != "" {
		filter[models.FieldProductName] = primitive.Regex{Pattern: params.Search, Options: "i"}
	}
	if params.Filter != "" {
		filter[models.FieldProductBrand] = params.Filter
	}

	var sort bson.D
	if params.Sort != "" {
		direction := -1
		if params.Sort == SortAscending {
			direction = 1
		}
		sort = bson.D{{Key: models.FieldCurrentDate, Value: direction}}
	}

	return models.ListQuery{Filter: filter, Sort: sort}
}
