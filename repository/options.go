package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type findOpts struct {
	sort bson.D
}

func sortedBy(field string, order int) *findOpts {
	return &findOpts{sort: bson.D{{Key: field, Value: order}}}
}

func toFindOptions(opts []*findOpts) []*options.FindOptions {
	out := make([]*options.FindOptions, 0, len(opts))
	for _, o := range opts {
		if o == nil {
			continue
		}
		fo := options.Find()
		if len(o.sort) > 0 {
			fo.SetSort(o.sort)
		}
		out = append(out, fo)
	}
	return out
}
