package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// EventQuery is a built Mongo query for the event listing endpoint.
type EventQuery struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.M
	Page       int64
	Limit      int64
}

func (q *EventQuery) Skip() int64 {
	return (q.Page - 1) * q.Limit
}

// Filterable fields are an explicit allow-list rather than the
// pass-anything-through pattern; unrecognized keys are rejected before
// they reach the store.
var filterableFields = map[string]bool{
	"title":     true,
	"venue":     true,
	"eventType": true,
	"date":      true,
}

var sortableFields = map[string]bool{
	"title":     true,
	"venue":     true,
	"eventType": true,
	"date":      true,
	"createdAt": true,
	"updatedAt": true,
}

var projectableFields = map[string]bool{
	"title":       true,
	"date":        true,
	"time":        true,
	"venue":       true,
	"description": true,
	"image":       true,
	"ticketLink":  true,
	"youtubeLink": true,
	"eventType":   true,
	"createdAt":   true,
	"updatedAt":   true,
}

var rangeOps = map[string]string{
	"gte": "$gte",
	"gt":  "$gt",
	"lte": "$lte",
	"lt":  "$lt",
}

// BuildEventQuery translates raw query parameters into a Mongo filter
// plus find options. page, limit, sort and fields are reserved; every
// other key must name an allow-listed field, optionally with a range
// operator suffix as in date[gte]=2025-01-01.
func BuildEventQuery(params map[string]string) (*EventQuery, error) {
	q := &EventQuery{
		Filter: bson.M{},
		Sort:   bson.D{{Key: "date", Value: 1}},
		Page:   DefaultPage,
		Limit:  DefaultLimit,
	}

	for key, value := range params {
		switch key {
		case "page":
			n, err := parsePositiveInt(key, value)
			if err != nil {
				return nil, err
			}
			q.Page = n
		case "limit":
			n, err := parsePositiveInt(key, value)
			if err != nil {
				return nil, err
			}
			q.Limit = n
		case "sort":
			sort, err := parseSort(value)
			if err != nil {
				return nil, err
			}
			q.Sort = sort
		case "fields":
			proj, err := parseProjection(value)
			if err != nil {
				return nil, err
			}
			q.Projection = proj
		default:
			if err := applyFilter(q.Filter, key, value); err != nil {
				return nil, err
			}
		}
	}
	return q, nil
}

func applyFilter(filter bson.M, key, value string) error {
	field := key
	op := ""
	if i := strings.IndexByte(key, '['); i >= 0 && strings.HasSuffix(key, "]") {
		field = key[:i]
		op = key[i+1 : len(key)-1]
	}
	if !filterableFields[field] {
		return fmt.Errorf("unknown filter field %q", field)
	}

	var v any = value
	if field == "date" {
		t, err := parseDate(value)
		if err != nil {
			return err
		}
		v = t
	}

	if op == "" {
		filter[field] = v
		return nil
	}
	mongoOp, ok := rangeOps[op]
	if !ok {
		return fmt.Errorf("unknown filter operator %q on field %q", op, field)
	}
	sub, ok := filter[field].(bson.M)
	if !ok {
		sub = bson.M{}
		filter[field] = sub
	}
	sub[mongoOp] = v
	return nil
}

func parseSort(value string) (bson.D, error) {
	var sort bson.D
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		dir := 1
		if strings.HasPrefix(part, "-") {
			dir = -1
			part = part[1:]
		}
		if !sortableFields[part] {
			return nil, fmt.Errorf("unknown sort field %q", part)
		}
		sort = append(sort, bson.E{Key: part, Value: dir})
	}
	if len(sort) == 0 {
		sort = bson.D{{Key: "date", Value: 1}}
	}
	return sort, nil
}

func parseProjection(value string) (bson.M, error) {
	proj := bson.M{}
	include := 0
	exclude := 0
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		mode := 1
		if strings.HasPrefix(part, "-") {
			mode = 0
			part = part[1:]
		}
		if !projectableFields[part] {
			return nil, fmt.Errorf("unknown projection field %q", part)
		}
		if mode == 1 {
			include++
		} else {
			exclude++
		}
		proj[part] = mode
	}
	if include > 0 && exclude > 0 {
		return nil, fmt.Errorf("cannot mix included and excluded fields")
	}
	if len(proj) == 0 {
		return nil, nil
	}
	return proj, nil
}

func parsePositiveInt(name, value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return n, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date value %q", value)
}
