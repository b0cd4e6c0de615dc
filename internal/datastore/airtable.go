package datastore

import (
	"context"
	"fmt"
	"strings"

	"github.com/mehanizm/airtable"

	apperrors "multi-unit-enrichment/pkg/errors"
	"multi-unit-enrichment/internal/models"
	"multi-unit-enrichment/pkg/config"
	"multi-unit-enrichment/pkg/logging"
)

// AirtableStore implements Store against an Airtable base.
type AirtableStore struct {
	table  *airtable.Table
	view   string
	fields config.FieldMap
	log    *logging.Logger
}

func NewAirtableStore(cfg *config.Config, log *logging.Logger) *AirtableStore {
	client := airtable.NewClient(cfg.AirtableAPIKey)
	return &AirtableStore{
		table:  client.GetTable(cfg.AirtableBaseID, cfg.AirtableTable),
		view:   cfg.AirtableView,
		fields: cfg.Fields,
		log:    log.WithComponent("datastore"),
	}
}

func (s *AirtableStore) List(ctx context.Context) ([]models.UnitRecord, error) {
	return s.list(ctx, 0)
}

func (s *AirtableStore) Sample(ctx context.Context, max int) ([]models.UnitRecord, error) {
	return s.list(ctx, max)
}

// list pages through the view. A max of 0 means unbounded.
func (s *AirtableStore) list(ctx context.Context, max int) ([]models.UnitRecord, error) {
	var out []models.UnitRecord
	offset := ""

	for {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewDatastore("datastore.List", "listing cancelled", err)
		}

		cfg := s.table.GetRecords().FromView(s.view)
		if offset != "" {
			cfg = cfg.WithOffset(offset)
		}
		page, err := cfg.Do()
		if err != nil {
			return nil, classify("datastore.List", err)
		}

		for _, rec := range page.Records {
			out = append(out, s.toUnitRecord(rec))
			if max > 0 && len(out) >= max {
				return out, nil
			}
		}

		if page.Offset == "" {
			return out, nil
		}
		offset = page.Offset
	}
}

func (s *AirtableStore) Get(ctx context.Context, id string) (models.UnitRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.UnitRecord{}, apperrors.NewDatastore("datastore.Get", "fetch cancelled", err)
	}
	rec, err := s.table.GetRecord(id)
	if err != nil {
		return models.UnitRecord{}, classify("datastore.Get", err)
	}
	return s.toUnitRecord(rec), nil
}

func (s *AirtableStore) Update(ctx context.Context, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewDatastore("datastore.Update", "update cancelled", err)
	}
	_, err := s.table.UpdateRecordsPartial(&airtable.Records{
		Records: []*airtable.Record{{ID: id, Fields: fields}},
	})
	if err != nil {
		return classify("datastore.Update", err)
	}
	return nil
}

func (s *AirtableStore) toUnitRecord(rec *airtable.Record) models.UnitRecord {
	return models.UnitRecord{
		ID:      rec.ID,
		Address: fieldText(rec.Fields, s.fields.Address),
		Dong:    fieldText(rec.Fields, s.fields.Dong),
		Ho:      fieldText(rec.Fields, s.fields.Ho),
	}
}

// fieldText reads one cell as trimmed text. Cells the table types as
// numbers come through as float64 and are rendered without an exponent.
func fieldText(fields map[string]any, name string) string {
	v, ok := fields[name]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// schemaFragments identify complaints about the table's shape: columns we
// reference that do not exist, and columns that reject the value's type
// (Airtable reports those as INVALID_VALUE_FOR_COLUMN). Neither kind is
// worth retrying; the table has to change, not the data.
var schemaFragments = []string{
	"Unknown field name",
	"Unknown field names",
	"does not have a field",
	"INVALID_VALUE_FOR_COLUMN",
	"cannot accept the provided value",
}

// classify maps an upstream failure to an error kind. Schema complaints
// become schema errors; everything else is a datastore error whose message
// is preserved verbatim so the permanent-failure check can still see the
// upstream text.
func classify(op string, err error) error {
	msg := err.Error()
	for _, frag := range schemaFragments {
		if strings.Contains(msg, frag) {
			return apperrors.NewSchema(op, "", msg, err)
		}
	}
	return apperrors.NewDatastore(op, msg, err)
}
