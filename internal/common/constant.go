package common

// Photo folder kinds recognized by the association upsert. Anything else is
// stored as KindGeneric.
const (
	KindWalk    = "walk"
	KindRepair  = "repair"
	KindGeneric = "generic"
)

// AttemptCeiling is the number of delivery attempts a queued job gets before
// it is moved to the dead-letter set.
const AttemptCeiling = 5

// Meter reading bounds accepted by draft validation.
const (
	MeterMin = 0
	MeterMax = 2_000_000
)
