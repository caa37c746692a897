package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayout is the fixed-width UTC layout used for timestamp columns, so
// that ordering rows by the text value orders them by time.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// timeColumns lists the columns holding timestamps.
var timeColumns = map[string]bool{"created_at": true}

// NewEntity returns a zero entity of the type stored in the named table.
func NewEntity(table string) (Entity, error) {
	switch table {
	case TableUsers:
		return &User{}, nil
	case TableProjects:
		return &Project{}, nil
	case TableTasks:
		return &Task{}, nil
	case TableAssignees:
		return &Assignee{}, nil
	case TableComments:
		return &Comment{}, nil
	case TableAccesses:
		return &Access{}, nil
	default:
		return nil, ErrTableNotFound
	}
}

// AsEntity checks that data is the entity pointer type stored in the named
// table. Returns ErrInvalidData otherwise.
func AsEntity(table string, data any) (Entity, error) {
	var e Entity
	switch table {
	case TableUsers:
		if v, ok := data.(*User); ok && v != nil {
			e = v
		}
	case TableProjects:
		if v, ok := data.(*Project); ok && v != nil {
			e = v
		}
	case TableTasks:
		if v, ok := data.(*Task); ok && v != nil {
			e = v
		}
	case TableAssignees:
		if v, ok := data.(*Assignee); ok && v != nil {
			e = v
		}
	case TableComments:
		if v, ok := data.(*Comment); ok && v != nil {
			e = v
		}
	case TableAccesses:
		if v, ok := data.(*Access); ok && v != nil {
			e = v
		}
	default:
		return nil, ErrTableNotFound
	}
	if e == nil {
		return nil, ErrInvalidData
	}
	return e, nil
}

// ToRecord converts an entity to its column record. Only the table's stored
// columns are kept; hydrated fields such as Task.Assignees are dropped.
// Every value in the record is a string; timestamps use TimeLayout.
func ToRecord(table string, data any) (map[string]any, error) {
	schema, err := SchemaFor(table)
	if err != nil {
		return nil, err
	}
	e, err := AsEntity(table, data)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encoding %s record: %w", table, err)
	}
	var all map[string]any
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("decoding %s record: %w", table, err)
	}
	rec := make(map[string]any, len(schema.Columns))
	for _, col := range schema.Columns {
		v, ok := all[col]
		if !ok || v == nil {
			rec[col] = ""
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("column %s.%s: %w", table, col, ErrInvalidData)
		}
		if timeColumns[col] {
			ts, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, fmt.Errorf("column %s.%s: %w", table, col, ErrInvalidData)
			}
			s = ts.UTC().Format(TimeLayout)
		}
		rec[col] = s
	}
	return rec, nil
}

// FromRecord builds an entity from a column record. Unknown keys are
// ignored so rows written by newer versions still load.
func FromRecord(table string, rec map[string]any) (Entity, error) {
	e, err := NewEntity(table)
	if err != nil {
		return nil, err
	}
	schema, _ := SchemaFor(table)
	clean := make(map[string]any, len(schema.Columns))
	for _, col := range schema.Columns {
		v, ok := rec[col]
		if !ok || v == nil || v == "" {
			continue
		}
		clean[col] = v
	}
	raw, err := json.Marshal(clean)
	if err != nil {
		return nil, fmt.Errorf("encoding %s row: %w", table, err)
	}
	if err := json.Unmarshal(raw, e); err != nil {
		return nil, fmt.Errorf("decoding %s row: %w", table, err)
	}
	return e, nil
}
