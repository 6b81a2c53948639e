package engine

import "errors"

var (
	// ErrNotFound wraps lookups of heroes, challenges, events and store
	// items by id.
	ErrNotFound = errors.New("not found")

	// ErrNoPendingReward is returned when a claim or auto-stat pick is
	// attempted with an empty queue.
	ErrNoPendingReward = errors.New("no pending reward")

	// ErrClaimInFlight is returned when a claim is attempted while another
	// claim for the same hero has not finished.
	ErrClaimInFlight = errors.New("reward claim already in progress")

	// ErrAutoStatRequired is returned when claiming the head reward before
	// its mandatory stat pick has been applied.
	ErrAutoStatRequired = errors.New("auto-stat pick required before claiming")

	// ErrAutoStatApplied is returned when picking a stat for a head reward
	// whose auto-stat is already resolved.
	ErrAutoStatApplied = errors.New("auto-stat already applied")

	// ErrStatNotAllowed is returned when the picked stat is not among the
	// reward's allowed options.
	ErrStatNotAllowed = errors.New("stat not in allowed options")

	// ErrUnknownReward is returned for a rewardId outside the catalog.
	ErrUnknownReward = errors.New("unknown reward")

	// ErrInsufficientMedals is returned by store claims.
	ErrInsufficientMedals = errors.New("not enough medals")

	// ErrOutOfStock is returned by store claims on items with no stock left.
	ErrOutOfStock = errors.New("item out of stock")

	// ErrAlreadyClaimed is returned when a hero claims a store item twice.
	ErrAlreadyClaimed = errors.New("item already claimed")

	// ErrEventLocked is returned when marking a boss defeated before its
	// unlock rule is satisfied.
	ErrEventLocked = errors.New("event is locked")

	// ErrNotEligible is returned when the hero fails the event's
	// eligibility rule.
	ErrNotEligible = errors.New("hero not eligible for event")
)
