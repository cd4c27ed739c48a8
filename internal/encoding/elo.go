package encoding

// Rating range the model was trained on. Ratings outside the range
// clamp to the nearest bucket so an evaluation is always obtainable.
const (
	MinElo = 1100
	MaxElo = 2000

	// NumEloBuckets is the number of rating categories the model
	// accepts: one below-range bucket, nine 100-point buckets
	// covering 1100 through 1999, and one at-or-above-2000 bucket.
	NumEloBuckets = 11
)

// EloBucket maps a raw rating to the categorical index the model was
// trained with. Total over all integers: ratings below MinElo map to
// bucket 0 and ratings at or above MaxElo map to the top bucket.
func EloBucket(rating int) int64 {
	switch {
	case rating < MinElo:
		return 0
	case rating >= MaxElo:
		return NumEloBuckets - 1
	default:
		return int64((rating-MinElo)/100) + 1
	}
}

// EloBuckets maps a slice of ratings to bucket indices.
func EloBuckets(ratings []int) []int64 {
	buckets := make([]int64, len(ratings))
	for i, r := range ratings {
		buckets[i] = EloBucket(r)
	}
	return buckets
}
