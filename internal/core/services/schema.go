package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/campuskit/solrag/internal/core/domain"
	"github.com/campuskit/solrag/internal/core/ports/driven"
	"github.com/campuskit/solrag/internal/core/ports/driving"
	"github.com/campuskit/solrag/internal/logger"
)

var _ driving.SchemaService = (*SchemaManager)(nil)

// SchemaManager checks the live index against the required field set
// and provisions whatever is missing.
type SchemaManager struct {
	schema driven.FieldSchema
}

func NewSchemaManager(schema driven.FieldSchema) *SchemaManager {
	return &SchemaManager{schema: schema}
}

// Validate compares every required field with the live index. Missing
// fields are reported by name; a field that exists with the wrong
// shape fails hard, since writes through it would corrupt the index.
func (m *SchemaManager) Validate(ctx context.Context) ([]string, error) {
	required := domain.RequiredFields()
	names := make([]string, 0, len(required))
	for name := range required {
		names = append(names, name)
	}
	sort.Strings(names)

	var missing []string
	for _, name := range names {
		want := required[name]
		live, err := m.schema.Field(ctx, name)
		if errors.Is(err, domain.ErrNotFound) {
			missing = append(missing, name)
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := checkField(name, want, live); err != nil {
			return nil, err
		}
	}
	return missing, nil
}

func checkField(name string, want domain.FieldDef, live *domain.LiveField) error {
	switch {
	case live.MultiValued:
		return fmt.Errorf("%w: field %q is multi-valued", domain.ErrSchemaMismatch, name)
	case live.Type != want.Type:
		return fmt.Errorf("%w: field %q has type %q, want %q", domain.ErrSchemaMismatch, name, live.Type, want.Type)
	case live.Stored != want.Stored:
		return fmt.Errorf("%w: field %q stored=%t, want %t", domain.ErrSchemaMismatch, name, live.Stored, want.Stored)
	case live.Indexed != want.Indexed:
		return fmt.Errorf("%w: field %q indexed=%t, want %t", domain.ErrSchemaMismatch, name, live.Indexed, want.Indexed)
	}
	return nil
}

// Setup provisions every missing required field. Fields that already
// exist correctly are left alone; a mismatched field fails validation
// before anything is created.
func (m *SchemaManager) Setup(ctx context.Context) error {
	missing, err := m.Validate(ctx)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		logger.Info("Schema is complete")
		return nil
	}

	required := domain.RequiredFields()
	create := make(map[string]domain.FieldDef, len(missing))
	for _, name := range missing {
		create[name] = required[name]
	}
	logger.Info("Creating %d schema fields", len(create))
	if err := m.schema.AddFields(ctx, create); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSchemaProvisioning, err)
	}
	return nil
}
