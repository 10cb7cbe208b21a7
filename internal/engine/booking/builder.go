package booking

import (
	"slices"
	"time"

	"suave/internal/engine/charge"
	"suave/internal/engine/policy"
	"suave/internal/engine/rate"
	"suave/shared/calendar"
	"suave/shared/failure"
)

// Builder accumulates a request one wizard step at a time. A command that
// fails validation leaves the builder unchanged.
type Builder struct {
	room     *rate.Room
	req      Request
	hasDates bool
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) SelectRoom(room rate.Room) error {
	if room.ID == "" {
		return failure.BadRequestFromString("room id is required")
	}

	if b.req.Adults > 0 {
		if err := validateGuests(room, b.req.Adults, b.req.Flags.ChildrenAges); err != nil {
			return err
		}
	}

	b.room = &room
	b.req.RoomID = room.ID

	return nil
}

func (b *Builder) SelectDates(checkIn, checkOut time.Time) error {
	if err := validateDates(checkIn, checkOut); err != nil {
		return err
	}

	b.req.CheckIn = calendar.Day(checkIn)
	b.req.CheckOut = calendar.Day(checkOut)
	b.hasDates = true

	return nil
}

func (b *Builder) SetGuests(adults int, childrenAges []int) error {
	for _, age := range childrenAges {
		if age < 0 {
			return failure.BadRequestFromString("child age must not be negative")
		}
	}

	room := rate.Room{}
	if b.room != nil {
		room = *b.room
	}

	if err := validateGuests(room, adults, childrenAges); err != nil {
		return err
	}

	b.req.Adults = adults
	b.req.Flags.ChildrenAges = slices.Clone(childrenAges)

	return nil
}

// AddExtra adds a service; adding a code again increases its quantity.
func (b *Builder) AddExtra(extra charge.Extra) error {
	if err := validateExtra(extra); err != nil {
		return err
	}

	for i := range b.req.Extras {
		if b.req.Extras[i].Code == extra.Code {
			b.req.Extras[i].Quantity += extra.Quantity

			return nil
		}
	}

	b.req.Extras = append(b.req.Extras, extra)

	return nil
}

func (b *Builder) SetFlags(pets, smoking, crib bool) {
	b.req.Flags.Pets = pets
	b.req.Flags.Smoking = smoking
	b.req.Flags.Crib = crib
}

// Build returns the finished request once every step is done and the hotel
// policies allow it.
func (b *Builder) Build(policies policy.Policies) (Request, error) {
	switch {
	case b.room == nil:
		return Request{}, failure.BadRequestFromString("select a room first")
	case !b.hasDates:
		return Request{}, failure.InvalidDateRange("select check-in and check-out dates first")
	case b.req.Adults < 1:
		return Request{}, failure.BadRequestFromString("set the guests first")
	}

	if err := policies.ValidateRequest(b.req.Flags); err != nil {
		return Request{}, err
	}

	req := b.req
	req.Extras = slices.Clone(b.req.Extras)
	req.Flags.ChildrenAges = slices.Clone(b.req.Flags.ChildrenAges)

	return req, nil
}
