package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// RosterVolunteer is one volunteer entry in a roster file
type RosterVolunteer struct {
	FirstName string `yaml:"firstName" validate:"required"`
	LastName  string `yaml:"lastName" validate:"required"`
	Role      string `yaml:"role" validate:"required"`
	Email     string `yaml:"email,omitempty" validate:"omitempty,email"`
}

// RosterCriterion is one criterion entry in a roster file
type RosterCriterion struct {
	Name          string             `yaml:"name" validate:"required"`
	Category      string             `yaml:"category" validate:"required,oneof=basic responsibility bonus"`
	DataType      string             `yaml:"dataType" validate:"required,oneof=numeric boolean choice text"`
	MaxScore      float64            `yaml:"maxScore" validate:"required,gt=0"`
	Weight        float64            `yaml:"weight" validate:"gte=0"`
	AppliesToRole string             `yaml:"appliesToRole,omitempty"`
	ChoiceValues  map[string]float64 `yaml:"choiceValues,omitempty"`
	SortOrder     int                `yaml:"sortOrder,omitempty"`
}

// Roster is the parsed contents of a roster file: the volunteers and
// criterion definitions to load into an empty database
type Roster struct {
	Volunteers []RosterVolunteer `yaml:"volunteers" validate:"dive"`
	Criteria   []RosterCriterion `yaml:"criteria" validate:"dive"`
}

// ImportRosterStore defines the database operations needed
type ImportRosterStore interface {
	InsertVolunteer(ctx context.Context, volunteer *db.Volunteer) error
	InsertCriterion(ctx context.Context, criterion *db.Criterion) error
}

// ImportRoster loads volunteers and criterion definitions from a parsed
// roster into the database. Entries are validated before anything is written.
func ImportRoster(
	ctx context.Context,
	database ImportRosterStore,
	logger *zap.Logger,
	roster *Roster,
) (volunteerIDs, criterionIDs []string, err error) {
	if err := validate.Struct(roster); err != nil {
		return nil, nil, fmt.Errorf("invalid roster: %s: %w", err, db.ErrValidation)
	}

	now := time.Now().UTC()
	for _, rv := range roster.Volunteers {
		volunteer := &db.Volunteer{
			ID:        uuid.New().String(),
			FirstName: rv.FirstName,
			LastName:  rv.LastName,
			Role:      rv.Role,
			Email:     rv.Email,
			IsActive:  true,
			CreatedAt: now,
		}
		if err := database.InsertVolunteer(ctx, volunteer); err != nil {
			return volunteerIDs, criterionIDs, fmt.Errorf("failed to insert volunteer %s %s: %w",
				rv.FirstName, rv.LastName, err)
		}
		volunteerIDs = append(volunteerIDs, volunteer.ID)
	}

	for _, rc := range roster.Criteria {
		appliesTo := rc.AppliesToRole
		if appliesTo == "" {
			appliesTo = db.RoleAll
		}
		criterion := &db.Criterion{
			ID:            uuid.New().String(),
			Name:          rc.Name,
			Category:      rc.Category,
			DataType:      rc.DataType,
			MaxScore:      rc.MaxScore,
			Weight:        rc.Weight,
			AppliesToRole: appliesTo,
			ChoiceValues:  rc.ChoiceValues,
			SortOrder:     rc.SortOrder,
			IsActive:      true,
		}
		if err := database.InsertCriterion(ctx, criterion); err != nil {
			return volunteerIDs, criterionIDs, fmt.Errorf("failed to insert criterion %s: %w", rc.Name, err)
		}
		criterionIDs = append(criterionIDs, criterion.ID)
	}

	logger.Info("Roster imported",
		zap.Int("volunteers", len(volunteerIDs)),
		zap.Int("criteria", len(criterionIDs)))

	return volunteerIDs, criterionIDs, nil
}
