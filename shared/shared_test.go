package shared_test

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"hotelier/shared"
	"hotelier/shared/constant"
	"hotelier/shared/dto"
)

func boolPtr(b bool) *bool { return &b }

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "empty string returns nil", input: "", expected: nil},
		{name: "valid true string", input: "true", expected: boolPtr(true)},
		{name: "valid false string", input: "false", expected: boolPtr(false)},
		{name: "valid 1 string", input: "1", expected: boolPtr(true)},
		{name: "valid 0 string", input: "0", expected: boolPtr(false)},
		{name: "invalid string returns nil", input: "invalid", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shared.ConvertStringToBool(tt.input)

			if tt.expected == nil {
				if got != nil {
					t.Errorf("expected nil, got %v", *got)
				}

				return
			}

			if got == nil || *got != *tt.expected {
				t.Errorf("expected %v, got %v", *tt.expected, got)
			}
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "25 rooms limit 10 is 3 pages", total: 25, limit: 10, expected: 3},
		{name: "exact division", total: 20, limit: 10, expected: 2},
		{name: "single partial page", total: 5, limit: 10, expected: 1},
		{name: "zero total is one page", total: 0, limit: 10, expected: 1},
		{name: "zero limit is one page", total: 25, limit: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shared.CalculateTotalPage(tt.total, tt.limit); got != tt.expected {
				t.Errorf("expected %d pages, got %d", tt.expected, got)
			}
		})
	}
}

func TestTransformFields(t *testing.T) {
	type update struct {
		Status string  `db:"status"`
		Price  float64 `db:"price"`
		Notes  string  `json:"notes"`
	}

	fields := shared.TransformFields(update{Status: "maintenance"}, "admin")

	if fields["status"] != "maintenance" {
		t.Errorf("expected status to be transformed, got %v", fields["status"])
	}

	if _, ok := fields["price"]; ok {
		t.Error("zero-valued fields must be skipped")
	}

	if _, ok := fields["notes"]; ok {
		t.Error("fields without a db tag must be skipped")
	}

	if fields[constant.FieldModifiedBy] != "admin" {
		t.Errorf("expected modified_by to be stamped, got %v", fields[constant.FieldModifiedBy])
	}

	if _, ok := fields[constant.FieldModifiedAt].(time.Time); !ok {
		t.Error("expected modified_at to be stamped with a time")
	}
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("room-1", "id", "rooms")

	expected := dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    "id",
				Value:    "room-1",
				Operator: dto.FilterOperatorEq,
				Table:    "rooms",
			},
		},
	}

	if !reflect.DeepEqual(group, expected) {
		t.Errorf("expected %+v, got %+v", expected, group)
	}
}

func TestBuildCacheKey(t *testing.T) {
	if got := shared.BuildCacheKey("room", "get", "room-1"); got != "room:get:room-1" {
		t.Errorf("unexpected cache key %s", got)
	}
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 2, Limit: 10, SortBy: "number", SortDir: "ASC"}
	filter := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "status", Value: "available", Operator: dto.FilterOperatorEq, Table: "rooms"},
			dto.Filter{ArgName: "min_price", Field: "price", Value: 100.0, Operator: dto.FilterOperatorGreaterEq, Table: "rooms"},
		},
	}

	first := shared.BuildCacheKeyWithQuery("room:gets", params, filter)
	second := shared.BuildCacheKeyWithQuery("room:gets", params, filter)

	if first != second {
		t.Errorf("cache key must be deterministic: %s vs %s", first, second)
	}

	if !strings.HasPrefix(first, "room:gets:2:10:number:ASC") {
		t.Errorf("unexpected cache key shape: %s", first)
	}

	if !strings.Contains(first, "min_price=100") || !strings.Contains(first, "status=available") {
		t.Errorf("expected filter args in key, got %s", first)
	}
}
