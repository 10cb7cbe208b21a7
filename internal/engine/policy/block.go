package policy

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"suave/internal/engine/charge"
	"suave/shared/failure"
	"suave/shared/validator"
)

type Category string

const (
	CategoryCancellation Category = "cancellation"
	CategoryDeposit      Category = "deposit"
	CategoryCheckIn      Category = "check_in"
	CategoryChildren     Category = "children"
	CategoryPets         Category = "pets"
	CategorySmoking      Category = "smoking"
)

// Categories lists every policy block a hotel must define, in display order.
var Categories = []Category{
	CategoryCancellation,
	CategoryDeposit,
	CategoryCheckIn,
	CategoryChildren,
	CategoryPets,
	CategorySmoking,
}

// PolicyBlock is one named group of booking rules with a fixed schema.
type PolicyBlock interface {
	Category() Category
	Validate() error
}

type CancellationPolicy struct {
	FreeCancellationHours int             `json:"free_cancellation_hours" validate:"gte=0"`
	CancellationFee       decimal.Decimal `json:"cancellation_fee"        validate:"percent"`
	NoShowFee             decimal.Decimal `json:"no_show_fee"             validate:"percent"`
}

func (CancellationPolicy) Category() Category { return CategoryCancellation }

func (p CancellationPolicy) Validate() error { return validator.ValidateStruct(&p) }

type DepositPolicy struct {
	Required bool            `json:"required"`
	Kind     charge.RuleKind `json:"kind"     validate:"required_if=Required true,omitempty,oneof=percentage fixed"`
	Value    decimal.Decimal `json:"value"    validate:"nonnegative"`
}

func (DepositPolicy) Category() Category { return CategoryDeposit }

func (p DepositPolicy) Validate() error {
	if err := validator.ValidateStruct(&p); err != nil {
		return err
	}

	if p.Kind == charge.KindPercentage && p.Value.GreaterThan(decimal.NewFromInt(100)) {
		return failure.BadRequestFromString("value must be a percentage between 0 and 100")
	}

	return nil
}

// CheckInPolicy clock times are "15:04" in the hotel's local time.
type CheckInPolicy struct {
	StandardCheckIn  string `json:"standard_check_in"  validate:"required,datetime=15:04"`
	LatestCheckIn    string `json:"latest_check_in"    validate:"omitempty,datetime=15:04"`
	StandardCheckOut string `json:"standard_check_out" validate:"omitempty,datetime=15:04"`
	EarlyCheckIn     bool   `json:"early_check_in"`
	EarlyCheckInFee  int64  `json:"early_check_in_fee" validate:"gte=0"`
	LateCheckIn      bool   `json:"late_check_in"`
}

func (CheckInPolicy) Category() Category { return CategoryCheckIn }

func (p CheckInPolicy) Validate() error {
	if err := validator.ValidateStruct(&p); err != nil {
		return err
	}

	if p.LatestCheckIn != "" && p.LatestCheckIn < p.StandardCheckIn {
		return failure.BadRequestFromString("latest_check_in must not be before standard_check_in")
	}

	return nil
}

type ChildrenPolicy struct {
	ChildrenAllowed bool  `json:"children_allowed"`
	MaxChildrenAge  int   `json:"max_children_age" validate:"gte=0,lte=17"`
	ExtraBedFee     int64 `json:"extra_bed_fee"    validate:"gte=0"`
	CribFee         int64 `json:"crib_fee"         validate:"gte=0"`
}

func (ChildrenPolicy) Category() Category { return CategoryChildren }

func (p ChildrenPolicy) Validate() error { return validator.ValidateStruct(&p) }

type PetPolicy struct {
	PetsAllowed bool  `json:"pets_allowed"`
	PetFee      int64 `json:"pet_fee" validate:"gte=0"`
}

func (PetPolicy) Category() Category { return CategoryPets }

func (p PetPolicy) Validate() error { return validator.ValidateStruct(&p) }

type SmokingPolicy struct {
	SmokingAllowed bool  `json:"smoking_allowed"`
	SmokingFee     int64 `json:"smoking_fee" validate:"gte=0"`
}

func (SmokingPolicy) Category() Category { return CategorySmoking }

func (p SmokingPolicy) Validate() error { return validator.ValidateStruct(&p) }

// DecodeBlock decodes a stored policy block of the given category and validates it.
func DecodeBlock(category Category, payload []byte) (PolicyBlock, error) {
	var block PolicyBlock

	switch category {
	case CategoryCancellation:
		block = decodeInto[CancellationPolicy](payload)
	case CategoryDeposit:
		block = decodeInto[DepositPolicy](payload)
	case CategoryCheckIn:
		block = decodeInto[CheckInPolicy](payload)
	case CategoryChildren:
		block = decodeInto[ChildrenPolicy](payload)
	case CategoryPets:
		block = decodeInto[PetPolicy](payload)
	case CategorySmoking:
		block = decodeInto[SmokingPolicy](payload)
	default:
		return nil, failure.BadRequestFromString(fmt.Sprintf("unknown policy category %q", category))
	}

	if block == nil {
		return nil, failure.BadRequestFromString(fmt.Sprintf("malformed %s policy", category))
	}

	if err := block.Validate(); err != nil {
		return nil, fmt.Errorf("%s policy: %w", category, err)
	}

	return block, nil
}

func decodeInto[T PolicyBlock](payload []byte) PolicyBlock {
	var block T

	if err := json.Unmarshal(payload, &block); err != nil {
		return nil
	}

	return block
}

// Policies is the single active policy set of a hotel.
// Location is the hotel's timezone for check-in clock times; nil means UTC.
type Policies struct {
	Cancellation CancellationPolicy `json:"cancellation"`
	Deposit      DepositPolicy      `json:"deposit"`
	CheckIn      CheckInPolicy      `json:"check_in"`
	Children     ChildrenPolicy     `json:"children"`
	Pets         PetPolicy          `json:"pets"`
	Smoking      SmokingPolicy      `json:"smoking"`
	Location     *time.Location     `json:"-"`
}

// Assemble builds a policy set from exactly one block per category.
func Assemble(loc *time.Location, blocks ...PolicyBlock) (Policies, error) {
	policies := Policies{Location: loc}
	seen := make(map[Category]bool, len(Categories))

	for _, block := range blocks {
		if seen[block.Category()] {
			return Policies{}, failure.BadRequestFromString(fmt.Sprintf("duplicate %s policy", block.Category()))
		}

		seen[block.Category()] = true

		switch b := block.(type) {
		case CancellationPolicy:
			policies.Cancellation = b
		case DepositPolicy:
			policies.Deposit = b
		case CheckInPolicy:
			policies.CheckIn = b
		case ChildrenPolicy:
			policies.Children = b
		case PetPolicy:
			policies.Pets = b
		case SmokingPolicy:
			policies.Smoking = b
		}
	}

	for _, category := range Categories {
		if !seen[category] {
			return Policies{}, failure.BadRequestFromString(fmt.Sprintf("missing %s policy", category))
		}
	}

	return policies, policies.Validate()
}

// Blocks returns the policy set as blocks in Categories order.
func (p Policies) Blocks() []PolicyBlock {
	return []PolicyBlock{p.Cancellation, p.Deposit, p.CheckIn, p.Children, p.Pets, p.Smoking}
}

func (p Policies) Validate() error {
	for _, block := range p.Blocks() {
		if err := block.Validate(); err != nil {
			return fmt.Errorf("%s policy: %w", block.Category(), err)
		}
	}

	return nil
}

func (p Policies) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}

	return p.Location
}
