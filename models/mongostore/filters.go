package mongostore

import (
	"regexp"

	"github.com/specscart/catalog-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// productFilter translates the search predicate into a bson query document.
func productFilter(f models.ProductFilters) bson.M {
	filter := bson.M{}

	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}
	if f.CategoryIDs != nil {
		filter["category"] = bson.M{"$in": f.CategoryIDs}
	}
	if len(f.Brands) > 0 {
		filter["brand"] = bson.M{"$in": f.Brands}
	}
	if f.PriceMin != nil || f.PriceMax != nil {
		price := bson.M{}
		if f.PriceMin != nil {
			price["$gte"] = *f.PriceMin
		}
		if f.PriceMax != nil {
			price["$lte"] = *f.PriceMax
		}
		filter["price"] = price
	}
	return filter
}

func findOptions(offset, limit int, sort *models.SortOrder) *options.FindOptions {
	opts := options.Find().SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if sort != nil {
		dir := 1
		if sort.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: sort.Field, Value: dir}})
	}
	return opts
}

// productSet builds the $set document of a partial update.
func productSet(p models.ProductPatch) (bson.M, error) {
	set := bson.M{}
	if p.Name != nil || p.Price != nil || p.CategoryID != nil {
		// Trimming and price conversion follow the model rules.
		var probe models.Product
		p.Apply(&probe)
		if p.Name != nil {
			set["name"] = probe.Name
		}
		if p.Price != nil {
			price, err := decimalToBSON(probe.Price)
			if err != nil {
				return nil, err
			}
			set["price"] = price
		}
		if p.CategoryID != nil {
			set["category"] = probe.CategoryID
		}
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.ImageURL != nil {
		set["imageURL"] = *p.ImageURL
	}
	if p.Brand != nil {
		set["brand"] = *p.Brand
	}
	if p.InStock != nil {
		set["inStock"] = *p.InStock
	}
	if p.Attributes != nil {
		set["attributes"] = bson.M(p.Attributes)
	}
	return set, nil
}
